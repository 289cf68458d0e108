// Package analytics contiene el resumen de indicadores del panel principal.
package analytics

import (
	"context"
	"fmt"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/application/inventory"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

const (
	dashboardTopItems = 5 // items con más stock en el widget
	dashboardLatest   = 5 // últimas transacciones
)

// DashboardUseCase genera el resumen de conteos, top de stock y actividad reciente.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
	itemRepo      repository.ItemRepository
	txRepo        repository.TransactionRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	dashboardRepo repository.DashboardRepository,
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
) *DashboardUseCase {
	return &DashboardUseCase{dashboardRepo: dashboardRepo, itemRepo: itemRepo, txRepo: txRepo}
}

// GetSummary construye el resumen. Las tres consultas corren en paralelo:
//  1. Counts(filtro)          → totales
//  2. List(items por stock)   → TopItems
//  3. List(transacciones)     → LatestTransactions (mismo filtro de fecha e item)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, in dto.DashboardFilterRequest) (*dto.DashboardSummaryResponse, error) {
	filter := repository.DashboardFilter{Date: in.Date, ItemID: in.ItemID}

	type countsResult struct {
		counts *repository.DashboardCounts
		err    error
	}
	type itemsResult struct {
		items []*entity.Item
		err   error
	}
	type txResult struct {
		txs []*entity.Transaction
		err error
	}

	countsCh := make(chan countsResult, 1)
	itemsCh := make(chan itemsResult, 1)
	txCh := make(chan txResult, 1)

	go func() {
		c, err := uc.dashboardRepo.Counts(ctx, filter)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		items, err := uc.itemRepo.List(ctx, repository.ItemFilter{ByStock: true, Limit: dashboardTopItems})
		itemsCh <- itemsResult{items, err}
	}()
	go func() {
		txs, err := uc.txRepo.List(ctx, repository.TransactionFilter{
			Date:   in.Date,
			ItemID: in.ItemID,
			Limit:  dashboardLatest,
		})
		txCh <- txResult{txs, err}
	}()

	counts := <-countsCh
	top := <-itemsCh
	latest := <-txCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteos: %w", counts.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top items: %w", top.err)
	}
	if latest.err != nil {
		return nil, fmt.Errorf("dashboard: últimas transacciones: %w", latest.err)
	}

	txs, err := inventory.ResolveTransactions(ctx, uc.itemRepo, latest.txs)
	if err != nil {
		return nil, fmt.Errorf("dashboard: resolver items: %w", err)
	}

	topItems := make([]dto.ItemSummary, 0, len(top.items))
	for _, it := range top.items {
		topItems = append(topItems, dto.ItemSummary{ID: it.ID, Name: it.Name, Stock: it.Stock})
	}

	c := counts.counts
	return &dto.DashboardSummaryResponse{
		TotalItems:           c.Items,
		TotalLocations:       c.Locations,
		TotalCategories:      c.Categories,
		ActiveUsers:          c.ActiveUsers,
		PendingTransactions:  c.Pending,
		ApprovedTransactions: c.Approved,
		InboundTotal:         c.InboundTotal,
		OutboundTotal:        c.OutboundTotal,
		TopItems:             topItems,
		LatestTransactions:   txs,
	}, nil
}
