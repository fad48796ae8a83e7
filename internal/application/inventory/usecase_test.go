package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domaininv "github.com/tu-usuario/stock-ledger/internal/domain/inventory"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

const (
	testProductID = "00000000-0000-0000-0000-000000000010"
	testAdminID   = "00000000-0000-0000-0000-000000000001"
	testStaffID   = "00000000-0000-0000-0000-000000000002"
	testClienteID = "00000000-0000-0000-0000-000000000003"
	testGhostID   = "00000000-0000-0000-0000-00000000dead"
)

// fixture entorno completo del caso de uso con fakes en memoria.
type fixture struct {
	uc       *appinv.MovementUseCase
	store    *memStore
	runner   *memTxRunner
	notifier *recordingNotifier
}

// newFixture producto único con el stock y umbral indicados; admin y staff
// autorizados, cliente no.
func newFixture(stock, minLevel int64) *fixture {
	store := newMemStore(&entity.Product{
		ID:            testProductID,
		SKU:           "SKU-001",
		Name:          "Tornillo 3/8",
		Stock:         stock,
		MinStockLevel: minLevel,
		Unit:          entity.DefaultUnit,
		Status:        entity.ProductStatusActive,
	})
	runner := &memTxRunner{store: store}
	notifier := &recordingNotifier{}
	authz := &fakeAuthorizer{users: map[string]bool{
		testAdminID:   true,
		testStaffID:   true,
		testClienteID: false,
	}}
	return &fixture{
		uc:       appinv.NewMovementUseCase(runner, authz, notifier, logger.Nop()),
		store:    store,
		runner:   runner,
		notifier: notifier,
	}
}

func addInput(qty int64) appinv.MovementInput {
	return appinv.MovementInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeAdd,
		Quantity:  qty,
		Reason:    "reabastecimiento",
		ActorID:   testAdminID,
	}
}

func subtractInput(qty int64) appinv.MovementInput {
	return appinv.MovementInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeSubtract,
		Quantity:  qty,
		Reason:    "venta",
		ActorID:   testStaffID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement — camino feliz
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_AddSumaYRegistraEnElLibro(t *testing.T) {
	f := newFixture(20, 10)

	result, err := f.uc.RegisterMovement(context.Background(), addInput(5))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(25), result.Product.Stock)
	assert.Equal(t, int64(25), f.store.productStock(testProductID),
		"el stock confirmado debe reflejar el movimiento")

	m := result.Movement
	require.NotNil(t, m)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, entity.MovementTypeAdd, m.Type)
	assert.Equal(t, int64(5), m.Quantity)
	assert.Equal(t, int64(20), m.PreviousStock)
	assert.Equal(t, int64(25), m.NewStock)
	assert.Equal(t, testAdminID, m.CreatedBy)
	assert.Equal(t, "reabastecimiento", m.Reason)

	assert.Equal(t, 1, f.store.movementCount(),
		"debe quedar exactamente una entrada en el libro")
}

func TestRegisterMovement_SubtractResta(t *testing.T) {
	f := newFixture(20, 5)

	result, err := f.uc.RegisterMovement(context.Background(), subtractInput(7))
	require.NoError(t, err)

	assert.Equal(t, int64(13), result.Product.Stock)
	assert.Equal(t, int64(20), result.Movement.PreviousStock)
	assert.Equal(t, int64(13), result.Movement.NewStock)
	assert.Empty(t, f.notifier.published(), "13 > umbral 5: sin alerta")
}

func TestRegisterMovement_SubtractHastaCeroEsValido(t *testing.T) {
	f := newFixture(20, 5)

	result, err := f.uc.RegisterMovement(context.Background(), subtractInput(20))
	require.NoError(t, err, "dejar el stock exactamente en 0 es legítimo")
	assert.Equal(t, int64(0), result.Product.Stock)

	alerts := f.notifier.published()
	require.Len(t, alerts, 1)
	assert.Equal(t, domaininv.SeverityOutOfStock, alerts[0].Severity)
}

// TestRegisterMovement_SobreElMaximoNoRechaza el techo MaxStockLevel es una
// restricción blanda: superarlo se registra en log pero el movimiento procede.
func TestRegisterMovement_SobreElMaximoNoRechaza(t *testing.T) {
	f := newFixture(90, 10)
	f.store.mu.Lock()
	max := int64(100)
	f.store.products[testProductID].MaxStockLevel = &max
	f.store.mu.Unlock()

	result, err := f.uc.RegisterMovement(context.Background(), addInput(60))
	require.NoError(t, err)
	assert.Equal(t, int64(150), result.Product.Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement — validación y autorización (antes de cualquier escritura)
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaInvalida(t *testing.T) {
	f := newFixture(20, 5)
	ctx := context.Background()

	casos := []struct {
		nombre string
		mutate func(in *appinv.MovementInput)
	}{
		{"tipo desconocido", func(in *appinv.MovementInput) { in.Type = "adjustment" }},
		{"tipo set no admite delta", func(in *appinv.MovementInput) { in.Type = entity.MovementTypeSet }},
		{"cantidad cero", func(in *appinv.MovementInput) { in.Quantity = 0 }},
		{"cantidad negativa", func(in *appinv.MovementInput) { in.Quantity = -3 }},
		{"sin producto", func(in *appinv.MovementInput) { in.ProductID = "" }},
		{"sin actor", func(in *appinv.MovementInput) { in.ActorID = "" }},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			in := addInput(5)
			c.mutate(&in)
			_, err := f.uc.RegisterMovement(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	assert.Equal(t, int64(20), f.store.productStock(testProductID))
	assert.Zero(t, f.store.movementCount(), "una entrada inválida no debe escribir nada")
}

func TestRegisterMovement_ActorInexistente(t *testing.T) {
	f := newFixture(20, 5)
	in := addInput(5)
	in.ActorID = testGhostID

	_, err := f.uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.store.movementCount())
}

func TestRegisterMovement_ActorSinPermiso(t *testing.T) {
	f := newFixture(20, 5)
	in := addInput(5)
	in.ActorID = testClienteID

	_, err := f.uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"un cliente no gestiona inventario")
	assert.Equal(t, int64(20), f.store.productStock(testProductID))
	assert.Zero(t, f.store.movementCount())
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	f := newFixture(20, 5)
	in := addInput(5)
	in.ProductID = "00000000-0000-0000-0000-0000000000ff"

	_, err := f.uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes: stock no negativo y atomicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_StockInsuficiente(t *testing.T) {
	f := newFixture(20, 5)

	_, err := f.uc.RegisterMovement(context.Background(), subtractInput(21))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(20), f.store.productStock(testProductID),
		"un subtract rechazado no debe tocar el stock")
	assert.Zero(t, f.store.movementCount(),
		"un subtract rechazado no debe dejar rastro en el libro")
	assert.Empty(t, f.notifier.published())
}

// TestRegisterMovement_FalloEnElLibroRevierteElStock si la inserción del libro
// falla, la actualización de stock de la misma transacción se descarta: nunca
// queda un cambio de stock sin su entrada correspondiente.
func TestRegisterMovement_FalloEnElLibroRevierteElStock(t *testing.T) {
	f := newFixture(20, 5)
	f.runner.failMovementCreate = errors.New("disco lleno")

	_, err := f.uc.RegisterMovement(context.Background(), addInput(5))
	require.Error(t, err)

	assert.Equal(t, int64(20), f.store.productStock(testProductID),
		"el stock debe quedar intacto si el libro no se pudo escribir")
	assert.Zero(t, f.store.movementCount())
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos ante conflicto de transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_ReintentaTrasConflicto(t *testing.T) {
	f := newFixture(20, 5)
	f.runner.conflictsLeft = 2 // los dos primeros intentos fallan

	result, err := f.uc.RegisterMovement(context.Background(), addInput(5))
	require.NoError(t, err, "el tercer intento debe prosperar")
	assert.Equal(t, int64(25), result.Product.Stock)
	assert.Equal(t, 1, f.store.movementCount())
}

func TestRegisterMovement_AgotaReintentos(t *testing.T) {
	f := newFixture(20, 5)
	f.runner.conflictsLeft = 10 // más que el máximo de reintentos

	_, err := f.uc.RegisterMovement(context.Background(), addInput(5))
	assert.ErrorIs(t, err, domain.ErrConflict,
		"agotados los reintentos debe propagarse ErrConflict")
	assert.Equal(t, int64(20), f.store.productStock(testProductID))
}

// ──────────────────────────────────────────────────────────────────────────────
// SetStock — ajuste a valor absoluto
// ──────────────────────────────────────────────────────────────────────────────

func TestSetStock_HaciaAbajoRegistraDeltaNegativo(t *testing.T) {
	f := newFixture(50, 10)

	result, err := f.uc.SetStock(context.Background(), appinv.SetStockInput{
		ProductID: testProductID,
		Target:    20,
		Reason:    "conteo físico",
		ActorID:   testStaffID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20), result.Product.Stock)
	m := result.Movement
	assert.Equal(t, entity.MovementTypeSet, m.Type)
	assert.Equal(t, int64(-30), m.Quantity, "set registra el delta con signo")
	assert.Equal(t, int64(50), m.PreviousStock)
	assert.Equal(t, int64(20), m.NewStock)
}

func TestSetStock_HaciaArriba(t *testing.T) {
	f := newFixture(5, 10)

	result, err := f.uc.SetStock(context.Background(), appinv.SetStockInput{
		ProductID: testProductID,
		Target:    80,
		Reason:    "corrección",
		ActorID:   testAdminID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(80), result.Product.Stock)
	assert.Equal(t, int64(75), result.Movement.Quantity)
}

func TestSetStock_ObjetivoNegativoRechazado(t *testing.T) {
	f := newFixture(50, 10)

	_, err := f.uc.SetStock(context.Background(), appinv.SetStockInput{
		ProductID: testProductID,
		Target:    -1,
		ActorID:   testAdminID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(50), f.store.productStock(testProductID))
}

func TestSetStock_ACeroPublicaAgotado(t *testing.T) {
	f := newFixture(50, 10)

	_, err := f.uc.SetStock(context.Background(), appinv.SetStockInput{
		ProductID: testProductID,
		Target:    0,
		Reason:    "merma total",
		ActorID:   testAdminID,
	})
	require.NoError(t, err)

	alerts := f.notifier.published()
	require.Len(t, alerts, 1)
	assert.Equal(t, domaininv.SeverityOutOfStock, alerts[0].Severity)
	assert.Equal(t, int64(0), alerts[0].CurrentStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas de bajo stock
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_PublicaAlertaLow(t *testing.T) {
	f := newFixture(50, 10)

	_, err := f.uc.RegisterMovement(context.Background(), subtractInput(45))
	require.NoError(t, err)

	alerts := f.notifier.published()
	require.Len(t, alerts, 1)
	assert.Equal(t, testProductID, alerts[0].ProductID)
	assert.Equal(t, "SKU-001", alerts[0].SKU)
	assert.Equal(t, int64(5), alerts[0].CurrentStock)
	assert.Equal(t, int64(10), alerts[0].ReorderLevel)
	assert.Equal(t, domaininv.SeverityLow, alerts[0].Severity)
}

// TestRegisterMovement_FalloDelNotifierNoRevierte la publicación es
// best-effort: el movimiento ya confirmado nunca se revierte por el notifier.
func TestRegisterMovement_FalloDelNotifierNoRevierte(t *testing.T) {
	f := newFixture(50, 10)
	f.notifier.err = errors.New("pub/sub caído")

	result, err := f.uc.RegisterMovement(context.Background(), subtractInput(45))
	require.NoError(t, err, "el fallo del notifier no debe propagarse")
	assert.Equal(t, int64(5), result.Product.Stock)
	assert.Equal(t, int64(5), f.store.productStock(testProductID))
	assert.Equal(t, 1, f.store.movementCount())
}

// TestMovimientos_SecuenciaCompleta escenario de punta a punta: una venta
// grande deja el producto en bajo stock, el reabastecimiento lo saca de ahí.
func TestMovimientos_SecuenciaCompleta(t *testing.T) {
	f := newFixture(50, 10)
	ctx := context.Background()

	_, err := f.uc.RegisterMovement(ctx, subtractInput(45))
	require.NoError(t, err)
	require.Len(t, f.notifier.published(), 1, "50→5 cruza el umbral 10")

	result, err := f.uc.RegisterMovement(ctx, addInput(100))
	require.NoError(t, err)
	assert.Equal(t, int64(105), result.Product.Stock)
	assert.Len(t, f.notifier.published(), 1,
		"el reabastecimiento no debe generar nuevas alertas")

	assert.Equal(t, 2, f.store.movementCount())
	for _, m := range f.store.movementsSnapshot() {
		switch m.Type {
		case entity.MovementTypeSubtract:
			assert.Equal(t, int64(50), m.PreviousStock)
			assert.Equal(t, int64(5), m.NewStock)
		case entity.MovementTypeAdd:
			assert.Equal(t, int64(5), m.PreviousStock)
			assert.Equal(t, int64(105), m.NewStock)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// TestRegisterMovement_SubtractsConcurrentes cinco subtracts de 10 compiten
// por un stock de 40: exactamente cuatro deben prosperar, uno debe fallar con
// ErrInsufficientStock y el stock jamás queda negativo.
func TestRegisterMovement_SubtractsConcurrentes(t *testing.T) {
	f := newFixture(40, 0)
	ctx := context.Background()

	const workers = 5
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.RegisterMovement(ctx, subtractInput(10))
		}(i)
	}
	wg.Wait()

	insuficientes := 0
	for _, err := range errs {
		if errors.Is(err, domain.ErrInsufficientStock) {
			insuficientes++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 1, insuficientes,
		"con stock para 4 de 5, exactamente uno debe fallar")
	assert.Equal(t, int64(0), f.store.productStock(testProductID))
	assert.Equal(t, 4, f.store.movementCount())

	// Los snapshots del libro deben encadenar sin huecos: cada NewStock es el
	// PreviousStock de la siguiente entrada.
	seen := map[int64]bool{}
	for _, m := range f.store.movementsSnapshot() {
		assert.Equal(t, m.PreviousStock-10, m.NewStock)
		assert.False(t, seen[m.PreviousStock], "ningún snapshot debe repetirse")
		seen[m.PreviousStock] = true
	}
}
