package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// InsufficientStockError indica que una salida excede el stock disponible.
// Envuelve domain.ErrInsufficientStock y reporta la cantidad disponible.
type InsufficientStockError struct {
	ProductName string
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s: disponible %s", e.ProductName, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return domain.ErrInsufficientStock
}

// AdjustInput entrada para un ajuste de stock.
type AdjustInput struct {
	WarehouseID string
	ProductID   string
	Direction   string // entity.DirectionIn | entity.DirectionOut
	Quantity    decimal.Decimal
	Notes       string
	CreatedBy   string // id del usuario originador; "" desde el API de back-office
}

// AdjustResult resultado de un ajuste exitoso, para que el caller arme el mensaje.
type AdjustResult struct {
	ProductName   string
	WarehouseName string
	Direction     string
	Quantity      decimal.Decimal
	NewQuantity   decimal.Decimal
}

// AdjustStockUseCase aplica ajustes de stock de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) y responde consultas de saldo.
type AdjustStockUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	txRepo        repository.TransactionRepository
}

// NewAdjustStockUseCase construye el caso de uso. txRepo se usa solo para
// lecturas de auditoría; las escrituras van por los repos atados al TxRunner.
func NewAdjustStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	txRepo repository.TransactionRepository,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		txRepo:        txRepo,
	}
}

// AdjustStock valida y aplica un ajuste. Para "out" verifica suficiencia con la fila
// bloqueada; el upsert de stock y la transacción de auditoría se confirman juntos o
// no se confirma ninguno.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, input AdjustInput) (*AdjustResult, error) {
	if input.Direction != entity.DirectionIn && input.Direction != entity.DirectionOut {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	result := &AdjustResult{
		ProductName:   product.Name,
		WarehouseName: warehouse.Name,
		Direction:     input.Direction,
		Quantity:      input.Quantity,
	}

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		txRepo repository.TransactionRepository,
	) error {
		// Bloquea la fila de stock para que dos salidas concurrentes no pasen
		// ambas la verificación de suficiencia
		stock, err := stockRepo.GetForUpdate(input.WarehouseID, input.ProductID)
		if err != nil {
			return err
		}

		switch input.Direction {
		case entity.DirectionOut:
			if stock.Quantity.LessThan(input.Quantity) {
				return &InsufficientStockError{ProductName: product.Name, Available: stock.Quantity}
			}
			stock.Quantity = stock.Quantity.Sub(input.Quantity)
		case entity.DirectionIn:
			stock.Quantity = stock.Quantity.Add(input.Quantity)
		}
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}

		tx := &entity.Transaction{
			ID:          uuid.New().String(),
			ProductID:   input.ProductID,
			WarehouseID: input.WarehouseID,
			Direction:   input.Direction,
			Quantity:    input.Quantity,
			OccurredAt:  now,
			Notes:       input.Notes,
			CreatedBy:   input.CreatedBy,
		}
		if err := txRepo.Create(tx); err != nil {
			return err
		}

		result.NewQuantity = stock.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBalance devuelve el saldo de una bodega ordenado por nombre de producto.
// Con filterZero omite los productos en cero. Sin efectos secundarios.
func (uc *AdjustStockUseCase) GetBalance(ctx context.Context, warehouseID string, filterZero bool) ([]*entity.BalanceLine, error) {
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return uc.stockRepo.ListByWarehouse(warehouseID, filterZero)
}

// ListTransactions devuelve el registro de auditoría (solo lectura, más reciente primero).
func (uc *AdjustStockUseCase) ListTransactions(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Transaction, error) {
	return uc.txRepo.List(from, to, limit, offset)
}
