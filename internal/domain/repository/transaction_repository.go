package repository

import (
	"time"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para el registro de auditoría.
// Solo inserción y lectura: las transacciones nunca se mutan ni se borran.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	List(from, to *time.Time, limit, offset int) ([]*entity.Transaction, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Transaction, error)
}
