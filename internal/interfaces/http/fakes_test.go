package http_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

// store repos en memoria con un único mutex. Solo implementan lo que recorren los handlers.
type store struct {
	mu    sync.Mutex
	items map[string]entity.Item
	txs   map[string]entity.Transaction
	down  bool
}

func newStore() *store {
	return &store{items: map[string]entity.Item{}, txs: map[string]entity.Transaction{}}
}

type itemRepo struct {
	repository.ItemRepository
	s *store
}

func (r itemRepo) Create(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[it.ID] = *it
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.down {
		return nil, fmt.Errorf("items.get: %w", domain.ErrStoreUnavailable)
	}
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r itemRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return fmt.Errorf("items.delete: %w", domain.ErrNotFound)
	}
	delete(r.s.items, id)
	return nil
}

func (r itemRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error) {
	out := map[string]*entity.Item{}
	for _, id := range ids {
		it, _ := r.GetByID(ctx, id)
		if it != nil {
			out[id] = it
		}
	}
	return out, nil
}

func (r itemRepo) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if it.Stock+delta < 0 {
		return it.Stock, domain.ErrInsufficientStock
	}
	it.Stock += delta
	r.s.items[id] = it
	return it.Stock, nil
}

type txRepo struct {
	repository.TransactionRepository
	s *store
}

func (r txRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.txs[t.ID] = *t
	return nil
}

func (r txRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.txs[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r txRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r txRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.txs[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	r.s.txs[id] = t
	return nil
}

// runner ejecuta fn sin aislamiento; suficiente para flujos secuenciales.
type runner struct{ s *store }

func (r runner) Run(_ context.Context, fn func(repository.TransactionRepository, repository.ItemRepository) error) error {
	return fn(txRepo{s: r.s}, itemRepo{s: r.s})
}

type emptyCategories struct{ repository.CategoryRepository }

func (emptyCategories) GetByIDs(context.Context, []string) (map[string]*entity.Category, error) {
	return map[string]*entity.Category{}, nil
}

type emptyLocations struct{ repository.LocationRepository }

func (emptyLocations) GetByIDs(context.Context, []string) (map[string]*entity.Location, error) {
	return map[string]*entity.Location{}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }
