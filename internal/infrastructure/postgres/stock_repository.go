package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una bodega. Fila ausente = cantidad cero.
func (r *StockRepo) Get(warehouseID, productID string) (*entity.Stock, error) {
	query := `
		SELECT warehouse_id, product_id, quantity, updated_at
		FROM stock WHERE warehouse_id = $1 AND product_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID).Scan(
		&s.WarehouseID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{WarehouseID: warehouseID, ProductID: productID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// FOR UPDATE no bloquea filas inexistentes: si el par bodega+producto todavía no
// tiene fila, se materializa una en cero y se vuelve a seleccionar, de modo que
// dos ajustes concurrentes sobre el mismo par siempre se serialicen sobre la
// misma fila.
func (r *StockRepo) GetForUpdate(warehouseID, productID string) (*entity.Stock, error) {
	query := `
		SELECT warehouse_id, product_id, quantity, updated_at
		FROM stock WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID).Scan(
		&s.WarehouseID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}

	insert := `
		INSERT INTO stock (warehouse_id, product_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, warehouseID, productID); err != nil {
		return nil, fmt.Errorf("init stock row: %w", err)
	}
	// La fila ya existe (la nuestra o la de una tx concurrente, sobre cuyo commit
	// espera este SELECT); las filas de stock nunca se borran.
	err = r.q.QueryRow(context.Background(), query, warehouseID, productID).Scan(
		&s.WarehouseID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por bodega y producto).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (warehouse_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.WarehouseID, stock.ProductID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByWarehouse devuelve las líneas de saldo ordenadas por nombre de producto.
func (r *StockRepo) ListByWarehouse(warehouseID string, filterZero bool) ([]*entity.BalanceLine, error) {
	query := `
		SELECT s.product_id, p.name, s.quantity
		FROM stock s
		JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1`
	if filterZero {
		query += ` AND s.quantity > 0`
	}
	query += ` ORDER BY p.name ASC`

	rows, err := r.q.Query(context.Background(), query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list balance: %w", err)
	}
	defer rows.Close()
	var list []*entity.BalanceLine
	for rows.Next() {
		var line entity.BalanceLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan balance line: %w", err)
		}
		list = append(list, &line)
	}
	return list, rows.Err()
}

// SeedForProduct crea filas en cero del producto en todas las bodegas existentes.
func (r *StockRepo) SeedForProduct(productID string) error {
	query := `
		INSERT INTO stock (warehouse_id, product_id, quantity, updated_at)
		SELECT w.id, $1, 0, now() FROM warehouses w
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, productID)
	if err != nil {
		return fmt.Errorf("seed stock for product: %w", err)
	}
	return nil
}

// SeedForWarehouse crea filas en cero de todos los productos en la bodega.
func (r *StockRepo) SeedForWarehouse(warehouseID string) error {
	query := `
		INSERT INTO stock (warehouse_id, product_id, quantity, updated_at)
		SELECT $1, p.id, 0, now() FROM products p
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, warehouseID)
	if err != nil {
		return fmt.Errorf("seed stock for warehouse: %w", err)
	}
	return nil
}
