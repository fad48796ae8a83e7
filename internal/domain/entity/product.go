package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Product.
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

// Valores por defecto del catálogo.
const (
	DefaultMinStockLevel = 10
	DefaultUnit          = "piece"
)

// Product representa un producto o SKU del catálogo.
// Stock nunca se edita directamente: solo cambia a través de movimientos, para
// que el libro de movimientos refleje siempre la historia completa.
type Product struct {
	ID            string
	SKU           string // código único, no vacío
	Name          string
	Category      string
	Price         decimal.Decimal // precio unitario, >= 0
	Stock         int64           // invariante: nunca negativo
	MinStockLevel int64           // umbral de reorden (alerta cuando Stock <= MinStockLevel)
	MaxStockLevel *int64          // techo de planeación, opcional; superarlo se registra en log, no se rechaza
	Unit          string
	Status        string // active, inactive, discontinued
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsValidProductStatus verifica que el estado sea uno de los conocidos.
func IsValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}
