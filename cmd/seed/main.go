package main

import (
	"context"
	"errors"

	"github.com/jhoicas/bodega-bot/internal/application/dto"
	"github.com/jhoicas/bodega-bot/internal/application/usecase"
	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-bot/pkg/config"
	"github.com/jhoicas/bodega-bot/pkg/logger"
)

// Seed de datos de demostración: una bodega y un catálogo mínimo de productos.
// Es idempotente: los productos duplicados se omiten.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo, stockRepo)

	existing, err := warehouseRepo.List(1, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("listar bodegas")
	}
	if len(existing) == 0 {
		warehouse, err := warehouseUC.Create(dto.CreateWarehouseRequest{Name: "Bodega Central"})
		if err != nil {
			log.Fatal().Err(err).Msg("crear bodega")
		}
		log.Info().Str("id", warehouse.ID).Str("name", warehouse.Name).Msg("bodega creada")
	}

	products := []string{"Pintura blanca", "Disolvente", "Barniz"}
	for _, name := range products {
		product, err := productUC.Create(dto.CreateProductRequest{Name: name})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateProduct) {
				log.Info().Str("name", name).Msg("producto ya existe, omitido")
				continue
			}
			log.Fatal().Err(err).Str("name", name).Msg("crear producto")
		}
		log.Info().Str("id", product.ID).Str("name", product.Name).Msg("producto creado")
	}

	log.Info().Msg("seed completado")
}
