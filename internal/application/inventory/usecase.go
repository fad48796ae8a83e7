package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domaininv "github.com/tu-usuario/stock-ledger/internal/domain/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// maxTxRetries reintentos de la secuencia leer-calcular-escribir ante
// domain.ErrConflict (fallo de serialización o deadlock) antes de rendirse.
const maxTxRetries = 3

// MovementUseCase aplica cambios de stock validados y auditables: toda
// mutación de stock pasa por aquí, dentro de una transacción con bloqueo de
// fila (SELECT FOR UPDATE) que también inserta la entrada del libro.
type MovementUseCase struct {
	txRunner TxRunner
	authz    Authorizer
	notifier Notifier
	log      *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	authz Authorizer,
	notifier Notifier,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner: txRunner,
		authz:    authz,
		notifier: notifier,
		log:      log,
	}
}

// MovementInput entrada para registrar un movimiento con delta (add/subtract).
type MovementInput struct {
	ProductID string
	Type      string // add | subtract
	Quantity  int64  // magnitud, > 0
	Reason    string
	ActorID   string
}

// SetStockInput entrada para fijar el stock en un valor objetivo absoluto.
type SetStockInput struct {
	ProductID string
	Target    int64 // >= 0
	Reason    string
	ActorID   string
}

// MovementResult snapshot del producto actualizado más la entrada creada.
type MovementResult struct {
	Product  *entity.Product
	Movement *entity.StockMovement
}

// RegisterMovement aplica un delta con signo implícito por tipo:
// add suma Quantity, subtract resta Quantity y falla con ErrInsufficientStock
// si dejaría el stock en negativo. Toda la validación ocurre antes de
// cualquier escritura; la actualización del producto y la inserción en el
// libro forman una sola transacción.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if input.ProductID == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Type != entity.MovementTypeAdd && input.Type != entity.MovementTypeSubtract {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	if err := uc.authorize(ctx, input.ActorID); err != nil {
		return nil, err
	}

	result, err := uc.runMovementTx(ctx, input.ProductID, func(p *entity.Product) (int64, int64, error) {
		switch input.Type {
		case entity.MovementTypeAdd:
			return p.Stock + input.Quantity, input.Quantity, nil
		default: // subtract
			newStock := p.Stock - input.Quantity
			if newStock < 0 {
				return 0, 0, domain.ErrInsufficientStock
			}
			return newStock, input.Quantity, nil
		}
	}, input.Type, input.Reason, input.ActorID)
	if err != nil {
		return nil, err
	}

	uc.notifyIfLow(ctx, result.Product)
	return result, nil
}

// SetStock fija el stock de un producto en un valor objetivo (conteo físico,
// corrección). La entrada del libro registra el delta con signo en Quantity y
// los snapshots previous/new siguen siendo la fuente de verdad.
func (uc *MovementUseCase) SetStock(ctx context.Context, input SetStockInput) (*MovementResult, error) {
	if input.ProductID == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Target < 0 {
		return nil, domain.ErrInvalidInput
	}

	if err := uc.authorize(ctx, input.ActorID); err != nil {
		return nil, err
	}

	result, err := uc.runMovementTx(ctx, input.ProductID, func(p *entity.Product) (int64, int64, error) {
		return input.Target, input.Target - p.Stock, nil
	}, entity.MovementTypeSet, input.Reason, input.ActorID)
	if err != nil {
		return nil, err
	}

	uc.notifyIfLow(ctx, result.Product)
	return result, nil
}

// authorize consulta el colaborador de autorización. Actor inexistente →
// ErrNotFound; sin capacidad de gestión de inventario → ErrForbidden.
func (uc *MovementUseCase) authorize(ctx context.Context, actorID string) error {
	ok, err := uc.authz.CanManageInventory(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

// runMovementTx ejecuta la secuencia leer-calcular-escribir dentro de una
// transacción con la fila del producto bloqueada, reintentando hasta
// maxTxRetries veces si el runner reporta ErrConflict. compute recibe el
// producto ya bloqueado y devuelve (nuevo stock, quantity del movimiento).
func (uc *MovementUseCase) runMovementTx(
	ctx context.Context,
	productID string,
	compute func(p *entity.Product) (int64, int64, error),
	movType, reason, actorID string,
) (*MovementResult, error) {
	var result *MovementResult

	run := func() error {
		return uc.txRunner.Run(ctx, func(
			movRepo repository.StockMovementRepository,
			productRepo repository.ProductRepository,
		) error {
			product, err := productRepo.GetForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}

			newStock, quantity, err := compute(product)
			if err != nil {
				return err
			}

			if product.MaxStockLevel != nil && newStock > *product.MaxStockLevel {
				// Restricción blanda: reabastecer por encima del techo de
				// planeación es legítimo, solo queda constancia en el log.
				uc.log.Warn().
					Str("product_id", product.ID).
					Str("sku", product.SKU).
					Int64("new_stock", newStock).
					Int64("max_stock_level", *product.MaxStockLevel).
					Msg("stock por encima del nivel máximo")
			}

			now := time.Now()
			if err := productRepo.UpdateStock(ctx, product.ID, newStock); err != nil {
				return err
			}

			movement := &entity.StockMovement{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				Type:          movType,
				Quantity:      quantity,
				PreviousStock: product.Stock,
				NewStock:      newStock,
				Reason:        reason,
				CreatedBy:     actorID,
				CreatedAt:     now,
			}
			if err := movRepo.Create(ctx, movement); err != nil {
				return err
			}

			snapshot := *product
			snapshot.Stock = newStock
			snapshot.UpdatedAt = now
			result = &MovementResult{Product: &snapshot, Movement: movement}
			return nil
		})
	}

	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = run()
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		uc.log.Debug().
			Str("product_id", productID).
			Int("attempt", attempt+1).
			Msg("reintentando movimiento por conflicto de transacción")
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// notifyIfLow evalúa la condición de bajo stock tras el commit y publica la
// alerta. Best-effort: un fallo en la publicación se registra y se descarta,
// el cambio de stock ya quedó confirmado.
func (uc *MovementUseCase) notifyIfLow(ctx context.Context, product *entity.Product) {
	severity := domaininv.EvaluateStockLevel(product)
	if severity == domaininv.SeverityNone {
		return
	}
	alert := LowStockAlert{
		ProductID:    product.ID,
		SKU:          product.SKU,
		CurrentStock: product.Stock,
		ReorderLevel: product.MinStockLevel,
		Severity:     severity,
	}
	if err := uc.notifier.PublishLowStock(ctx, alert); err != nil {
		uc.log.Warn().
			Err(err).
			Str("product_id", product.ID).
			Str("severity", string(severity)).
			Msg("no se pudo publicar la alerta de bajo stock")
	}
}
