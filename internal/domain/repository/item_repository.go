package repository

import (
	"context"

	"github.com/dehaep/Project-SupzG/internal/domain/entity"
)

// ItemFilter criterios opcionales para listar items.
type ItemFilter struct {
	CategoryID string
	LocationID string
	Query      string // subcadena del nombre, sin distinguir mayúsculas
	ByStock    bool   // stock descendente en lugar de orden por nombre
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error)
	// Update modifica todo salvo el stock.
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
	// AdjustStock suma delta al stock de forma atómica y devuelve el stock resultante.
	// ErrNotFound si el item no existe, ErrInsufficientStock si quedaría negativo (sin escribir nada).
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
	CountWithoutCategory(ctx context.Context) (int, error)
	AssignCategoryWhereMissing(ctx context.Context, categoryID string) (int64, error)
}
