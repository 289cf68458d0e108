package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `id, name, address, created_at, updated_at`

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func scanLocation(s scanner) (*entity.Location, error) {
	var l entity.Location
	if err := s.Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste una ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO locations (id, name, address, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.Name, l.Address, l.CreatedAt, l.UpdatedAt,
	)
	return wrapErr("insert location", err)
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get location", err)
	}
	return l, nil
}

// GetByIDs obtiene varias ubicaciones en una consulta.
func (r *LocationRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Location, error) {
	out := make(map[string]*entity.Location, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.query(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range list {
		out[l.ID] = l
	}
	return out, nil
}

// Update actualiza nombre y dirección.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	tag, err := r.q.Exec(ctx, `UPDATE locations SET name = $2, address = $3, updated_at = $4 WHERE id = $1`,
		l.ID, l.Name, l.Address, l.UpdatedAt)
	if err != nil {
		return wrapErr("update location", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, l.ID)
	}
	return nil
}

// List lista ubicaciones por nombre.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	return r.query(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY name, id LIMIT $1 OFFSET $2`,
		limit, offset)
}

func (r *LocationRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list locations", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, wrapErr("list locations", rows.Err())
}

// Delete elimina una ubicación por ID.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete location", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
	}
	return nil
}
