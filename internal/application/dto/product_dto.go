package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// El stock inicial no se acepta aquí: los productos nacen con stock 0 y el
// inventario de apertura entra por un movimiento add, para que el libro de
// movimientos esté completo desde el primer día.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Category      string          `json:"category" validate:"max=100"`
	Price         decimal.Decimal `json:"price" validate:"min=0"`
	MinStockLevel *int64          `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel *int64          `json:"max_stock_level" validate:"omitempty,min=0"`
	Unit          string          `json:"unit" validate:"max=50"`
}

// UpdateProductRequest entrada para actualizar un producto (nunca Stock).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Price         *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
	MinStockLevel *int64           `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel *int64           `json:"max_stock_level" validate:"omitempty,min=0"`
	Unit          *string          `json:"unit" validate:"omitempty,max=50"`
}

// ChangeProductStatusRequest entrada para activar/desactivar/descontinuar.
type ChangeProductStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive discontinued"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int64           `json:"stock"`
	MinStockLevel int64           `json:"min_stock_level"`
	MaxStockLevel *int64          `json:"max_stock_level,omitempty"`
	Unit          string          `json:"unit"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
