package entity

import "time"

// Tipos de movimiento de stock.
// "set" reemplaza al antiguo tipo "adjustment", que mezclaba deltas con valores
// absolutos según el punto de llamada: ahora las operaciones con delta usan
// add/subtract y el ajuste a valor absoluto queda registrado como set.
const (
	MovementTypeAdd      = "add"
	MovementTypeSubtract = "subtract"
	MovementTypeSet      = "set"
)

// StockMovement es una entrada del libro de movimientos: el registro inmutable
// de un único cambio de stock. El libro es append-only; no existe operación de
// actualización ni borrado en el dominio.
//
// Invariantes:
//   - add:      NewStock = PreviousStock + Quantity (Quantity > 0)
//   - subtract: NewStock = PreviousStock - Quantity (Quantity > 0)
//   - set:      NewStock es el valor objetivo y Quantity = NewStock - PreviousStock (delta con signo)
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string // add, subtract, set
	Quantity      int64
	PreviousStock int64
	NewStock      int64
	Reason        string
	CreatedBy     string // UserID del actor, obligatorio e inmutable
	CreatedAt     time.Time
}

// IsValidMovementType verifica que el tipo sea uno de los conocidos.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeAdd, MovementTypeSubtract, MovementTypeSet:
		return true
	}
	return false
}
