package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/bodega-bot/internal/application/auth"
	"github.com/jhoicas/bodega-bot/internal/application/conversation"
	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/application/usecase"
	"github.com/jhoicas/bodega-bot/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-bot/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/bodega-bot/internal/interfaces/http"
	"github.com/jhoicas/bodega-bot/pkg/config"
	"github.com/jhoicas/bodega-bot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	adjustStockUC := inventory.NewAdjustStockUseCase(txRunner, productRepo, warehouseRepo, stockRepo, txRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo, stockRepo)
	userUC := usecase.NewUserUseCase(userRepo, warehouseRepo, stockRepo, cfg.Bot.AdminIDs)
	authUC := auth.NewAuthUseCase(
		auth.Credential{User: cfg.BackOffice.User, PasswordHash: cfg.BackOffice.PasswordHash},
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
	)

	// Sesiones conversacionales: Redis si está configurado, memoria si no
	var sessions conversation.SessionStore
	if cfg.Redis.Addr != "" {
		store, err := redisstore.New(ctx, cfg.Redis, cfg.Bot.SessionTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer store.Close()
		sessions = store
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sesiones en Redis")
	} else {
		store := conversation.NewMemoryStore(cfg.Bot.SessionTTL)
		defer store.Close()
		sessions = store
		log.Info().Msg("sesiones en memoria (proceso único)")
	}

	controller := conversation.NewController(
		sessions, userUC, warehouseUC, productUC, adjustStockUC,
		conversation.Config{
			CancelToken: cfg.Bot.CancelToken,
			MaxRetries:  cfg.Bot.MaxRetries,
		},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bodega Bot API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:   warehouseUC,
		ProductUC:     productUC,
		UserUC:        userUC,
		AdjustStock:   adjustStockUC,
		AuthUC:        authUC,
		Controller:    controller,
		JWTSecret:     cfg.JWT.Secret,
		WebhookSecret: cfg.Bot.WebhookSecret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
