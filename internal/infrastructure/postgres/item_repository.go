package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, description, stock, COALESCE(category_id, ''), COALESCE(location_id, ''),
	photo, price, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(s scanner) (*entity.Item, error) {
	var it entity.Item
	err := s.Scan(&it.ID, &it.Name, &it.Description, &it.Stock, &it.CategoryID, &it.LocationID,
		&it.Photo, &it.Price, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un nuevo item con su stock inicial.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, description, stock, category_id, location_id, photo, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.Stock, nullIfEmpty(item.CategoryID), nullIfEmpty(item.LocationID),
		item.Photo, item.Price, item.CreatedAt, item.UpdatedAt,
	)
	return wrapErr("insert item", err)
}

// GetByID obtiene un item por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get item", err)
	}
	return it, nil
}

// GetByIDs obtiene varios items en una consulta. Los IDs inexistentes no aparecen en el mapa.
func (r *ItemRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, wrapErr("get items", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out[it.ID] = it
	}
	return out, wrapErr("get items", rows.Err())
}

// Update modifica los datos descriptivos del item. El stock no se toca.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, category_id = $4, location_id = $5,
			photo = $6, price = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, nullIfEmpty(item.CategoryID), nullIfEmpty(item.LocationID),
		item.Photo, item.Price, item.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, item.ID)
	}
	return nil
}

// List lista items con filtros opcionales.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.CategoryID != "" {
		add("category_id = $%d", filter.CategoryID)
	}
	if filter.LocationID != "" {
		add("location_id = $%d", filter.LocationID)
	}
	if filter.Query != "" {
		add("name ILIKE '%%' || $%d || '%%'", escapeLike(filter.Query))
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if filter.ByStock {
		query += " ORDER BY stock DESC, name"
	} else {
		query += " ORDER BY name, id"
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list items", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, wrapErr("list items", rows.Err())
}

// Delete elimina un item por ID.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return nil
}

// AdjustStock suma delta al stock en un único UPDATE condicional: la fila queda bloqueada
// hasta el fin de la transacción y el stock nunca baja de cero.
func (r *ItemRepo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx, `
		UPDATE items SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock`, id, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, wrapErr("adjust stock", err)
	}
	// sin fila: o no existe, o el stock no alcanza
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, wrapErr("adjust stock", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return 0, fmt.Errorf("%w: item %s, delta %d", domain.ErrInsufficientStock, id, delta)
}

// CountWithoutCategory cuenta items sin categoría o con una categoría ya eliminada.
func (r *ItemRepo) CountWithoutCategory(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM items i
		WHERE i.category_id IS NULL
		   OR NOT EXISTS (SELECT 1 FROM categories c WHERE c.id = i.category_id)`).Scan(&n)
	if err != nil {
		return 0, wrapErr("count items without category", err)
	}
	return n, nil
}

// AssignCategoryWhereMissing asigna categoryID a los items sin categoría válida.
func (r *ItemRepo) AssignCategoryWhereMissing(ctx context.Context, categoryID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE items i SET category_id = $1, updated_at = now()
		WHERE i.category_id IS NULL
		   OR NOT EXISTS (SELECT 1 FROM categories c WHERE c.id = i.category_id)`, categoryID)
	if err != nil {
		return 0, wrapErr("assign category", err)
	}
	return tag.RowsAffected(), nil
}

// escapeLike escapa los comodines de LIKE para buscar el texto literal.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
