package inventory

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// Severity resultado de la evaluación de bajo stock.
type Severity string

const (
	SeverityNone       Severity = "none"
	SeverityLow        Severity = "low"
	SeverityOutOfStock Severity = "out_of_stock"
)

// EvaluateStockLevel decide si un producto está en condición de bajo stock
// (servicio de dominio, puro y sin efectos). El umbral es inclusivo: estar
// exactamente en MinStockLevel ya cuenta como bajo. Emitir o no la alerta, y
// deduplicar alertas repetidas, es responsabilidad del caller y del
// distribuidor de eventos; esta función siempre reporta el estado actual.
func EvaluateStockLevel(p *entity.Product) Severity {
	switch {
	case p.Stock == 0:
		return SeverityOutOfStock
	case p.Stock <= p.MinStockLevel:
		return SeverityLow
	default:
		return SeverityNone
	}
}
