package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/application/usecase"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de stock y del
// libro de movimientos (protegido).
type InventoryHandler struct {
	movements *inventory.MovementUseCase
	ledger    *inventory.LedgerUseCase
	report    *inventory.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.MovementUseCase,
	ledger *inventory.LedgerUseCase,
	report *inventory.ReportUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, ledger: ledger, report: report}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock (add/subtract)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity, reason"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	result, err := h.movements.RegisterMovement(c.Context(), inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		ActorID:   actorID,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(result))
}

// SetStock godoc
// @Summary      Fijar stock en un valor absoluto (conteo físico)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetStockRequest  true  "product_id, target, reason"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SetStockRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	result, err := h.movements.SetStock(c.Context(), inventory.SetStockInput{
		ProductID: in.ProductID,
		Target:    in.Target,
		Reason:    in.Reason,
		ActorID:   actorID,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(result))
}

// Restock godoc
// @Summary      Reabastecimiento rápido (atajo de movimiento add)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "Product ID"
// @Param        body  body  dto.RestockRequest  true  "quantity, reason"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RestockRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	result, err := h.movements.RegisterMovement(c.Context(), inventory.MovementInput{
		ProductID: c.Params("id"),
		Type:      entity.MovementTypeAdd,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		ActorID:   actorID,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(result))
}

// ListMovements godoc
// @Summary      Libro de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Product ID"
// @Param        order   query  string  false  "desc (por defecto) | asc"
// @Param        limit   query  int     false  "por defecto 20"
// @Param        offset  query  int     false  "por defecto 0"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	result, err := h.ledger.ListByProduct(c.Context(), c.Params("id"), c.Query("order"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(result.Items))
	for _, m := range result.Items {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: result.Total},
	})
}

// LedgerReport godoc
// @Summary      Reporte PDF del libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "Product ID"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements/report [get]
func (h *InventoryHandler) LedgerReport(c *fiber.Ctx) error {
	pdfBytes, err := h.report.GenerateLedgerReport(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.pdf"`)
	return c.Send(pdfBytes)
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

func toMovementResult(r *inventory.MovementResult) dto.MovementResultResponse {
	return dto.MovementResultResponse{
		Product:  *usecase.ToProductResponse(r.Product),
		Movement: toMovementResponse(r.Movement),
	}
}
