package inventory

import (
	"context"

	domaininv "github.com/tu-usuario/stock-ledger/internal/domain/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre la actualización de
// stock y la inserción en el libro de movimientos. La implementación debe
// traducir fallos de serialización o deadlock a domain.ErrConflict para que el
// caso de uso pueda reintentar.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Authorizer es el colaborador de autorización: verifica que el actor tenga la
// capacidad de gestionar inventario. Devuelve domain.ErrUserNotFound si el
// actor no existe.
type Authorizer interface {
	CanManageInventory(ctx context.Context, userID string) (bool, error)
}

// LowStockAlert es el payload que se publica al distribuidor de eventos cuando
// un movimiento deja un producto en condición de bajo stock.
type LowStockAlert struct {
	ProductID    string             `json:"product_id"`
	SKU          string             `json:"sku"`
	CurrentStock int64              `json:"current_stock"`
	ReorderLevel int64              `json:"reorder_level"`
	Severity     domaininv.Severity `json:"severity"`
}

// Notifier publica alertas de bajo stock hacia el distribuidor de eventos
// (pub/sub). La publicación es best-effort: un fallo aquí nunca revierte el
// movimiento ya confirmado.
type Notifier interface {
	PublishLowStock(ctx context.Context, alert LowStockAlert) error
}
