package inventory_test

import (
	"context"
	"sort"
	"sync"

	appinv "github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore es el "disco" compartido; memTxRunner simula la transacción real:
// serializa con un mutex (el equivalente del SELECT FOR UPDATE por producto) y
// aplica los cambios al store solo si fn retorna nil. Si fn falla, la copia de
// trabajo se descarta, igual que un ROLLBACK.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

// productStock lee el stock confirmado de un producto (fuera de transacción).
func (s *memStore) productStock(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

// movementCount entradas confirmadas en el libro.
func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// movementsSnapshot copia de las entradas confirmadas.
func (s *memStore) movementsSnapshot() []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.StockMovement, len(s.movements))
	copy(out, s.movements)
	return out
}

// txState copia de trabajo de una transacción en curso.
type txState struct {
	store   *memStore
	working map[string]*entity.Product
	created []*entity.StockMovement
}

func newTxState(store *memStore) *txState {
	return &txState{store: store, working: make(map[string]*entity.Product)}
}

// product devuelve la copia de trabajo del producto, creándola en el primer
// acceso. nil si no existe, igual que el repositorio real.
func (tx *txState) product(id string) *entity.Product {
	if p, ok := tx.working[id]; ok {
		return p
	}
	orig, ok := tx.store.products[id]
	if !ok {
		return nil
	}
	cp := *orig
	tx.working[id] = &cp
	return &cp
}

func (tx *txState) commit() {
	for id, p := range tx.working {
		cp := *p
		tx.store.products[id] = &cp
	}
	tx.store.movements = append(tx.store.movements, tx.created...)
}

// memTxRunner implementación en memoria de inventory.TxRunner.
type memTxRunner struct {
	store *memStore

	// conflictsLeft hace fallar las próximas n ejecuciones con ErrConflict,
	// simulando fallos de serialización que el caso de uso debe reintentar.
	conflictsLeft int

	// failMovementCreate inyecta un fallo de storage en la inserción del libro
	// para verificar que la actualización de stock se revierte con ella.
	failMovementCreate error
}

var _ appinv.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return domain.ErrConflict
	}

	tx := newTxState(r.store)
	movRepo := &txMovementRepo{tx: tx, failCreate: r.failMovementCreate}
	productRepo := &txProductRepo{tx: tx}
	if err := fn(movRepo, productRepo); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// txProductRepo repositorio de productos atado a la transacción simulada.
type txProductRepo struct {
	tx *txState
}

var _ repository.ProductRepository = (*txProductRepo)(nil)

func (r *txProductRepo) Create(_ context.Context, product *entity.Product) error {
	cp := *product
	r.tx.working[product.ID] = &cp
	return nil
}

func (r *txProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.tx.product(id), nil
}

func (r *txProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.tx.store.products {
		if p.SKU == sku {
			return r.tx.product(p.ID), nil
		}
	}
	return nil, nil
}

func (r *txProductRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	return r.tx.product(id), nil
}

func (r *txProductRepo) Update(_ context.Context, product *entity.Product) error {
	if r.tx.product(product.ID) == nil {
		return domain.ErrNotFound
	}
	cp := *product
	r.tx.working[product.ID] = &cp
	return nil
}

func (r *txProductRepo) UpdateStock(_ context.Context, productID string, stock int64) error {
	p := r.tx.product(productID)
	if p == nil {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *txProductRepo) UpdateStatus(_ context.Context, productID, status string) error {
	p := r.tx.product(productID)
	if p == nil {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *txProductRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.tx.store.products {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

// txMovementRepo repositorio del libro atado a la transacción simulada.
type txMovementRepo struct {
	tx         *txState
	failCreate error
}

var _ repository.StockMovementRepository = (*txMovementRepo)(nil)

func (r *txMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := *movement
	r.tx.created = append(r.tx.created, &cp)
	return nil
}

func (r *txMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range r.tx.store.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *txMovementRepo) ListByProduct(_ context.Context, productID, order string, limit, offset int) ([]*entity.StockMovement, error) {
	return listMovements(r.tx.store.movements, productID, order, limit, offset), nil
}

func (r *txMovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	for _, m := range r.tx.store.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios planos (fuera de transacción), para los casos de uso de lectura.
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	store *memStore
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateStock(_ context.Context, productID string, stock int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *memProductRepo) UpdateStatus(_ context.Context, productID, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *memProductRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if status == "" || p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memMovementRepo struct {
	store *memStore
}

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *movement
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, productID, order string, limit, offset int) ([]*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return listMovements(r.store.movements, productID, order, limit, offset), nil
}

func (r *memMovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := 0
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// listMovements filtra, ordena por CreatedAt y pagina, replicando la consulta SQL.
func listMovements(all []*entity.StockMovement, productID, order string, limit, offset int) []*entity.StockMovement {
	var filtered []*entity.StockMovement
	for _, m := range all {
		if m.ProductID == productID {
			filtered = append(filtered, m)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if order == repository.OrderAsc {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	if offset >= len(filtered) {
		return nil
	}
	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	out := make([]*entity.StockMovement, len(filtered))
	for i, m := range filtered {
		cp := *m
		out[i] = &cp
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Colaboradores
// ──────────────────────────────────────────────────────────────────────────────

// fakeAuthorizer mapa actorID → puede gestionar inventario.
// Un actor ausente del mapa no existe (ErrUserNotFound).
type fakeAuthorizer struct {
	users map[string]bool
}

var _ appinv.Authorizer = (*fakeAuthorizer)(nil)

func (a *fakeAuthorizer) CanManageInventory(_ context.Context, userID string) (bool, error) {
	ok, exists := a.users[userID]
	if !exists {
		return false, domain.ErrUserNotFound
	}
	return ok, nil
}

// recordingNotifier captura las alertas publicadas; err simula un pub/sub caído.
type recordingNotifier struct {
	mu     sync.Mutex
	alerts []appinv.LowStockAlert
	err    error
}

var _ appinv.Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) PublishLowStock(_ context.Context, alert appinv.LowStockAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *recordingNotifier) published() []appinv.LowStockAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]appinv.LowStockAlert, len(n.alerts))
	copy(out, n.alerts)
	return out
}
