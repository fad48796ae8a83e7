package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock es el único camino de escritura para el campo Stock y solo debe
// invocarse dentro de la transacción que también inserta el movimiento.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) durante la
	// transacción en curso; serializa los movimientos concurrentes por producto.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, productID string, stock int64) error
	UpdateStatus(ctx context.Context, productID, status string) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Product, error)
}
