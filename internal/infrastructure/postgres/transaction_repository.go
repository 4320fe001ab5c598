package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del puerto TransactionRepository sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: la tabla es append-only.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste un registro de auditoría.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, product_id, warehouse_id, direction, quantity, occurred_at, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.ProductID, tx.WarehouseID, tx.Direction, tx.Quantity,
		tx.OccurredAt, tx.Notes, tx.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List lista transacciones en una ventana de tiempo opcional, más reciente primero.
func (r *TransactionRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, product_id, warehouse_id, direction, quantity, occurred_at, notes, created_by
		FROM transactions
		WHERE ($1::timestamptz IS NULL OR occurred_at >= $1)
		  AND ($2::timestamptz IS NULL OR occurred_at < $2)
		ORDER BY occurred_at DESC LIMIT $3 OFFSET $4`
	return r.list(query, from, to, limit, offset)
}

// ListByWarehouse como List pero acotado a una bodega.
func (r *TransactionRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, product_id, warehouse_id, direction, quantity, occurred_at, notes, created_by
		FROM transactions
		WHERE warehouse_id = $5
		  AND ($1::timestamptz IS NULL OR occurred_at >= $1)
		  AND ($2::timestamptz IS NULL OR occurred_at < $2)
		ORDER BY occurred_at DESC LIMIT $3 OFFSET $4`
	return r.list(query, from, to, limit, offset, warehouseID)
}

func (r *TransactionRepo) list(query string, from, to *time.Time, limit, offset int, extra ...any) ([]*entity.Transaction, error) {
	args := append([]any{from, to, limit, offset}, extra...)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.WarehouseID, &t.Direction, &t.Quantity,
			&t.OccurredAt, &t.Notes, &t.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
