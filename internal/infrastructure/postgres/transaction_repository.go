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

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, item_id, quantity, type, date, status, submitted_by, created_at, updated_at`

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de transacciones. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func scanTransaction(s scanner) (*entity.Transaction, error) {
	var t entity.Transaction
	err := s.Scan(&t.ID, &t.ItemID, &t.Quantity, &t.Type, &t.Date, &t.Status, &t.SubmittedBy,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste una transacción.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, item_id, quantity, type, date, status, submitted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ItemID, t.Quantity, t.Type, t.Date, t.Status, t.SubmittedBy, t.CreatedAt, t.UpdatedAt,
	)
	return wrapErr("insert transaction", err)
}

// GetByID obtiene una transacción por ID.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.get(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
}

// GetForUpdate obtiene la transacción y bloquea la fila (SELECT FOR UPDATE).
// Aprobaciones concurrentes de la misma transacción quedan serializadas.
func (r *TransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.get(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransactionRepo) get(ctx context.Context, query, id string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get transaction", err)
	}
	return t, nil
}

// UpdateStatus cambia el estado de una transacción.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE transactions SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return wrapErr("update transaction status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transacción %s", domain.ErrNotFound, id)
	}
	return nil
}

// List lista transacciones, las más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.ItemID != "" {
		add("item_id = $%d", filter.ItemID)
	}
	if filter.Date != "" {
		add("date = $%d", filter.Date)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
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
		return nil, wrapErr("list transactions", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, wrapErr("list transactions", rows.Err())
}

// Delete elimina una transacción por ID.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transacción %s", domain.ErrNotFound, id)
	}
	return nil
}
