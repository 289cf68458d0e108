package inventory_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

// memStore estado compartido por los repos en memoria. El mutex simula los bloqueos de fila:
// dentro de txRunner.Run se mantiene tomado durante toda la transacción.
type memStore struct {
	mu    sync.Mutex
	items map[string]entity.Item
	txs   map[string]entity.Transaction

	failUpdateStatus error
	statusWrites     int
}

func newMemStore() *memStore {
	return &memStore{items: map[string]entity.Item{}, txs: map[string]entity.Transaction{}}
}

func (s *memStore) with(inTx bool, f func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	f()
}

func (s *memStore) snapshot() (map[string]entity.Item, map[string]entity.Transaction) {
	items := make(map[string]entity.Item, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	txs := make(map[string]entity.Transaction, len(s.txs))
	for k, v := range s.txs {
		txs[k] = v
	}
	return items, txs
}

func (s *memStore) putItem(it entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = it
}

func (s *memStore) putTx(t entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[t.ID] = t
}

func (s *memStore) deleteItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *memStore) stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].Stock
}

func (s *memStore) status(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs[id].Status
}

// memTxRunner ejecuta fn con el store bloqueado y restaura la foto previa si fn falla.
type memTxRunner struct {
	s *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	itemRepo repository.ItemRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	items, txs := r.s.snapshot()
	if err := fn(&memTxRepo{s: r.s, inTx: true}, &memItemRepo{s: r.s, inTx: true}); err != nil {
		r.s.items, r.s.txs = items, txs
		return err
	}
	return nil
}

type memItemRepo struct {
	s    *memStore
	inTx bool
}

func (r *memItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.with(r.inTx, func() { r.s.items[item.ID] = *item })
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	r.s.with(r.inTx, func() {
		if it, ok := r.s.items[id]; ok {
			out = &it
		}
	})
	return out, nil
}

func (r *memItemRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Item, error) {
	out := map[string]*entity.Item{}
	r.s.with(r.inTx, func() {
		for _, id := range ids {
			if it, ok := r.s.items[id]; ok {
				it := it
				out[id] = &it
			}
		}
	})
	return out, nil
}

func (r *memItemRepo) Update(_ context.Context, item *entity.Item) error {
	var err error
	r.s.with(r.inTx, func() {
		cur, ok := r.s.items[item.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		next := *item
		next.Stock = cur.Stock
		r.s.items[item.ID] = next
	})
	return err
}

func (r *memItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	var out []*entity.Item
	r.s.with(r.inTx, func() {
		for _, it := range r.s.items {
			if f.Query != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Query)) {
				continue
			}
			it := it
			out = append(out, &it)
		}
	})
	if f.ByStock {
		sort.Slice(out, func(i, j int) bool { return out[i].Stock > out[j].Stock })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memItemRepo) Delete(_ context.Context, id string) error {
	var err error
	r.s.with(r.inTx, func() {
		if _, ok := r.s.items[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(r.s.items, id)
	})
	return err
}

func (r *memItemRepo) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	var (
		stock int
		err   error
	)
	r.s.with(r.inTx, func() {
		it, ok := r.s.items[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if it.Stock+delta < 0 {
			stock, err = it.Stock, domain.ErrInsufficientStock
			return
		}
		it.Stock += delta
		stock = it.Stock
		r.s.items[id] = it
	})
	return stock, err
}

func (r *memItemRepo) CountWithoutCategory(context.Context) (int, error) { return 0, nil }

func (r *memItemRepo) AssignCategoryWhereMissing(context.Context, string) (int64, error) {
	return 0, nil
}

type memTxRepo struct {
	s    *memStore
	inTx bool
}

func (r *memTxRepo) Create(_ context.Context, t *entity.Transaction) error {
	var err error
	r.s.with(r.inTx, func() {
		if _, ok := r.s.txs[t.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		r.s.txs[t.ID] = *t
	})
	return err
}

func (r *memTxRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	var out *entity.Transaction
	r.s.with(r.inTx, func() {
		if t, ok := r.s.txs[id]; ok {
			out = &t
		}
	})
	return out, nil
}

func (r *memTxRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	if !r.inTx {
		return nil, errors.New("GetForUpdate fuera de transacción")
	}
	return r.GetByID(ctx, id)
}

func (r *memTxRepo) UpdateStatus(_ context.Context, id, status string) error {
	var err error
	r.s.with(r.inTx, func() {
		if r.s.failUpdateStatus != nil {
			err = r.s.failUpdateStatus
			return
		}
		t, ok := r.s.txs[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		t.Status = status
		t.UpdatedAt = time.Now()
		r.s.txs[id] = t
		r.s.statusWrites++
	})
	return err
}

func (r *memTxRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	r.s.with(r.inTx, func() {
		for _, t := range r.s.txs {
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.ItemID != "" && t.ItemID != f.ItemID {
				continue
			}
			if f.Date != "" && t.Date != f.Date {
				continue
			}
			t := t
			out = append(out, &t)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTxRepo) Delete(_ context.Context, id string) error {
	var err error
	r.s.with(r.inTx, func() {
		if _, ok := r.s.txs[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(r.s.txs, id)
	})
	return err
}

// spyCache registra las invalidaciones.
type spyCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *spyCache) Invalidate(_ context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, ids...)
}

func (c *spyCache) Get(context.Context, string) (*entity.Item, int64, bool) { return nil, 0, false }
func (c *spyCache) Set(context.Context, *entity.Item, int64)                {}

func (c *spyCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.invalidated)
}
