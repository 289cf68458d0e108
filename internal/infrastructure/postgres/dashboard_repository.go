package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas read-only del panel.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el repositorio del panel.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Counts devuelve todos los conteos en una sola consulta.
// El filtro de fecha/item aplica solo a los agregados de transacciones.
func (r *DashboardRepo) Counts(ctx context.Context, filter repository.DashboardFilter) (*repository.DashboardCounts, error) {
	args := []any{entity.UserStatusActive, entity.TransactionPending, entity.TransactionApproved,
		entity.TransactionInbound, entity.TransactionOutbound}
	var where []string
	if filter.Date != "" {
		args = append(args, filter.Date)
		where = append(where, fmt.Sprintf("date = $%d", len(args)))
	}
	if filter.ItemID != "" {
		args = append(args, filter.ItemID)
		where = append(where, fmt.Sprintf("item_id = $%d", len(args)))
	}
	txWhere := ""
	if len(where) > 0 {
		txWhere = "WHERE " + strings.Join(where, " AND ")
	}

	query := `
		WITH tx AS (SELECT status, type, quantity FROM transactions ` + txWhere + `)
		SELECT
			(SELECT count(*) FROM items),
			(SELECT count(*) FROM locations),
			(SELECT count(*) FROM categories),
			(SELECT count(*) FROM users WHERE status = $1),
			(SELECT count(*) FROM tx WHERE status = $2),
			(SELECT count(*) FROM tx WHERE status = $3),
			(SELECT COALESCE(sum(quantity), 0) FROM tx WHERE status = $3 AND type = $4),
			(SELECT COALESCE(sum(quantity), 0) FROM tx WHERE status = $3 AND type = $5)`

	var c repository.DashboardCounts
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&c.Items, &c.Locations, &c.Categories, &c.ActiveUsers,
		&c.Pending, &c.Approved, &c.InboundTotal, &c.OutboundTotal,
	)
	if err != nil {
		return nil, wrapErr("dashboard counts", err)
	}
	return &c, nil
}
