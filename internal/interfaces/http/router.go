package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-bot/internal/application/auth"
	"github.com/jhoicas/bodega-bot/internal/application/conversation"
	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC   *usecase.WarehouseUseCase
	ProductUC     *usecase.ProductUseCase
	UserUC        *usecase.UserUseCase
	AdjustStock   *inventory.AdjustStockUseCase
	AuthUC        *auth.AuthUseCase
	Controller    *conversation.Controller
	JWTSecret     string
	WebhookSecret string
}

// Router registra las rutas de la API y el webhook del bot.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhook del bot (autenticado por el secreto en la ruta)
	webhookHandler := NewWebhookHandler(deps.Controller, deps.WebhookSecret)
	app.Post("/webhook/:secret", webhookHandler.Receive)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	inventoryHandler := NewInventoryHandler(deps.AdjustStock)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/balance", inventoryHandler.Balance)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Ajustes y auditoría (protegido)
	protected.Post("/adjustments", inventoryHandler.Adjust)
	protected.Get("/transactions", inventoryHandler.Transactions)

	// Usuarios del bot (protegido)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Provision)
	users.Get("/", userHandler.List)
}
