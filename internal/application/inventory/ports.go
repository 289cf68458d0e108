package inventory

import (
	"context"

	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y nada de lo escrito dentro de fn persiste.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		itemRepo repository.ItemRepository,
	) error) error
}
