package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentidos de un ajuste de stock.
const (
	DirectionIn  = "in"  // reposición
	DirectionOut = "out" // gasto
)

// Transaction registro inmutable de auditoría de un ajuste de stock.
// Se crea exactamente una vez por ajuste exitoso; nunca se muta ni se borra,
// y nunca se lee para reconstruir saldos (los saldos viven en Stock).
type Transaction struct {
	ID          string
	ProductID   string
	WarehouseID string
	Direction   string // in, out
	Quantity    decimal.Decimal
	OccurredAt  time.Time
	Notes       string
	CreatedBy   string // id del usuario que originó el ajuste ("" desde el API)
}
