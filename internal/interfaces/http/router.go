package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/auth"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/application/usecase"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	MovementUC *inventory.MovementUseCase
	LedgerUC   *inventory.LedgerUseCase
	ReportUC   *inventory.ReportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: lectura para cualquier usuario autenticado, escritura solo
	// admin/staff.
	manage := RequireRole(entity.RoleAdmin, entity.RoleStaff)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", manage, productHandler.Create)
	products.Put("/:id", manage, productHandler.Update)
	products.Patch("/:id/status", manage, productHandler.ChangeStatus)

	// Movimientos de stock: la autoría queda en el JWT; la capacidad de
	// gestión la vuelve a verificar el caso de uso contra la DB.
	inventoryHandler := NewInventoryHandler(deps.MovementUC, deps.LedgerUC, deps.ReportUC)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", manage, inventoryHandler.RegisterMovement)
	invGroup.Post("/adjustments", manage, inventoryHandler.SetStock)

	products.Post("/:id/restock", manage, inventoryHandler.Restock)
	products.Get("/:id/movements", manage, inventoryHandler.ListMovements)
	products.Get("/:id/movements/report", manage, inventoryHandler.LedgerReport)
}
