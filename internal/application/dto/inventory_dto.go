package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Type solo admite add y subtract; los ajustes a valor absoluto van por
// POST /api/inventory/adjustments (SetStockRequest).
type RegisterMovementRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Type      string `json:"type" validate:"required,oneof=add subtract"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"max=500"`
}

// SetStockRequest body para POST /api/inventory/adjustments: fija el stock de
// un producto en un valor objetivo absoluto (conteo físico, corrección).
type SetStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Target    int64  `json:"target" validate:"min=0"`
	Reason    string `json:"reason" validate:"max=500"`
}

// RestockRequest body para POST /api/products/:id/restock (atajo de entrada rápida).
type RestockRequest struct {
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason" validate:"max=500"`
}

// MovementResponse salida de una entrada del libro de movimientos.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	Reason        string    `json:"reason,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementResultResponse salida de registrar un movimiento: snapshot del
// producto actualizado más la entrada creada en el libro.
type MovementResultResponse struct {
	Product  ProductResponse  `json:"product"`
	Movement MovementResponse `json:"movement"`
}

// MovementListResponse página del libro de movimientos de un producto.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
