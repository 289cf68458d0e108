package repository

import (
	"context"

	"github.com/dehaep/Project-SupzG/internal/domain/entity"
)

// TransactionFilter criterios opcionales para listar transacciones.
type TransactionFilter struct {
	Status string
	ItemID string
	Date   string
	Limit  int
	Offset int
}

// TransactionRepository define el puerto de persistencia para Transaction (DIP).
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción de BD (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
	Delete(ctx context.Context, id string) error
}
