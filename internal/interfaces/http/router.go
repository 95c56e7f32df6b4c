package http

import (
	"github.com/gofiber/fiber/v2"

	appaudit "github.com/jhoicas/almacen-api/internal/application/audit"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC      *ledger.MovementUseCase
	TransferUC      *ledger.TransferUseCase
	DamageUC        *ledger.DamageUseCase
	AuditUC         *appaudit.UseCase
	ItemUC          *usecase.ItemUseCase
	LocationUC      *usecase.LocationUseCase
	SupplierUC      *usecase.SupplierUseCase
	ActivityUC      *usecase.ActivityUseCase
	AuthUC          *auth.AuthUseCase
	JWTSecret       string
	DamageApprovers []string
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

	// Ledger de movimientos
	movementHandler := NewMovementHandler(deps.MovementUC)
	protected.Post("/inward", movementHandler.RegisterInward)
	protected.Post("/outward", movementHandler.RegisterOutward)
	movements := protected.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)

	// Traslados
	transferHandler := NewTransferHandler(deps.TransferUC)
	protected.Post("/transfers", transferHandler.Create)

	// Bajas por daño (aprobación restringida a los roles configurados)
	damage := protected.Group("/damage")
	damageHandler := NewDamageHandler(deps.DamageUC)
	damage.Post("/", damageHandler.Report)
	damage.Put("/:id/approve", RequireRole(deps.DamageApprovers...), damageHandler.Approve)
	damage.Put("/:id/reject", RequireRole(deps.DamageApprovers...), damageHandler.Reject)

	// Auditorías físicas
	auditGroup := protected.Group("/inventory/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/start", auditHandler.Start)
	auditGroup.Post("/", auditHandler.Commit)
	auditGroup.Get("/", auditHandler.List)
	auditGroup.Get("/:id", auditHandler.GetByID)

	// Catálogo de items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/replenishment", itemHandler.Replenishment)
	items.Get("/:id", itemHandler.GetByID)
	items.Delete("/:id", itemHandler.Delete)

	// Ubicaciones
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Proveedores
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Bitácora de actividad
	activityHandler := NewActivityHandler(deps.ActivityUC)
	protected.Get("/activity", activityHandler.List)
}
