package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// Orden de listado para el libro de movimientos.
const (
	OrderDesc = "desc" // más recientes primero (por defecto)
	OrderAsc  = "asc"  // cronológico
)

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos. El libro es append-only: no hay Update ni Delete, y eso es una
// invariante de diseño, no un descuido.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	ListByProduct(ctx context.Context, productID, order string, limit, offset int) ([]*entity.StockMovement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
