package repository

import "github.com/jhoicas/bodega-bot/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(warehouseID, productID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(warehouseID, productID string) (*entity.Stock, error)
	// ListByWarehouse devuelve las líneas de saldo de una bodega ordenadas por nombre
	// de producto; con filterZero omite cantidades en cero.
	ListByWarehouse(warehouseID string, filterZero bool) ([]*entity.BalanceLine, error)
	// SeedForProduct crea filas en cero del producto en todas las bodegas existentes.
	SeedForProduct(productID string) error
	// SeedForWarehouse crea filas en cero de todos los productos en la bodega.
	SeedForWarehouse(warehouseID string) error
}
