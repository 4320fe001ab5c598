package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa el stock actual de un producto en una bodega.
// Invariante: Quantity nunca es negativa; hay a lo sumo una fila por (bodega, producto).
type Stock struct {
	WarehouseID string
	ProductID   string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}

// BalanceLine una línea del saldo de una bodega, lista para presentar.
type BalanceLine struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
}
