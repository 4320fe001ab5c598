package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest entrada para registrar un ajuste de stock vía API.
type AdjustStockRequest struct {
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	ProductID   string          `json:"product_id" validate:"required"`
	Direction   string          `json:"direction" validate:"required,oneof=in out"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Notes       string          `json:"notes"`
}

// AdjustStockResponse salida de un ajuste exitoso.
type AdjustStockResponse struct {
	Product     string          `json:"product"`
	Warehouse   string          `json:"warehouse"`
	Direction   string          `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// BalanceLineResponse una línea del saldo de una bodega.
type BalanceLineResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// BalanceResponse saldo completo de una bodega.
type BalanceResponse struct {
	WarehouseID string                `json:"warehouse_id"`
	Items       []BalanceLineResponse `json:"items"`
}

// TransactionResponse registro de auditoría.
type TransactionResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Warehouse  string          `json:"warehouse_id"`
	Direction  string          `json:"direction"`
	Quantity   decimal.Decimal `json:"quantity"`
	OccurredAt time.Time       `json:"occurred_at"`
	Notes      string          `json:"notes,omitempty"`
}

// TransactionListResponse lista paginada de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
