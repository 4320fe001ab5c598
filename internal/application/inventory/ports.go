package inventory

import (
	"context"

	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el upsert de stock y el registro de auditoría se apliquen como unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		txRepo repository.TransactionRepository,
	) error) error
}
