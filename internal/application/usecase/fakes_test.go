package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]entity.Item
}

func newFakeItemRepo() *fakeItemRepo { return &fakeItemRepo{items: map[string]entity.Item{}} }

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *fakeItemRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]*entity.Item{}
	for _, id := range ids {
		if it, ok := r.items[id]; ok {
			out[id] = &it
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	upd := *item
	upd.Stock = cur.Stock
	r.items[item.ID] = upd
	return nil
}

func (r *fakeItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.items {
		if f.CategoryID != "" && it.CategoryID != f.CategoryID {
			continue
		}
		if f.LocationID != "" && it.LocationID != f.LocationID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Query)) {
			continue
		}
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if it.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	it.Stock += delta
	r.items[id] = it
	return it.Stock, nil
}

func (r *fakeItemRepo) CountWithoutCategory(context.Context) (int, error) { return 0, nil }

func (r *fakeItemRepo) AssignCategoryWhereMissing(context.Context, string) (int64, error) {
	return 0, nil
}

type fakeCategoryRepo struct {
	mu   sync.Mutex
	rows map[string]entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{rows: map[string]entity.Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCategoryRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]*entity.Category{}
	for _, id := range ids {
		if c, ok := r.rows[id]; ok {
			out[id] = &c
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.rows {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeLocationRepo struct {
	mu   sync.Mutex
	rows map[string]entity.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{rows: map[string]entity.Location{}}
}

func (r *fakeLocationRepo) Create(_ context.Context, l *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[l.ID] = *l
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *fakeLocationRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]*entity.Location{}
	for _, id := range ids {
		if l, ok := r.rows[id]; ok {
			out[id] = &l
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) Update(_ context.Context, l *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[l.ID] = *l
	return nil
}

func (r *fakeLocationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Location
	for _, l := range r.rows {
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeUserRepo struct {
	mu   sync.Mutex
	rows map[string]entity.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{rows: map[string]entity.User{}} }

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) find(match func(entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *fakeUserRepo) FindByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	return r.find(func(u entity.User) bool {
		return u.Username == identifier || u.Email == strings.ToLower(identifier)
	}), nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.rows {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return page(out, limit, offset), nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

// memCache caché en memoria con generaciones por item; registra invalidaciones.
type memCache struct {
	mu          sync.Mutex
	entries     map[string]entity.Item
	gens        map[string]int64
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]entity.Item{}, gens: map[string]int64{}}
}

func (c *memCache) Get(_ context.Context, id string) (*entity.Item, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[id]
	if !ok {
		return nil, c.gens[id], false
	}
	return &v, c.gens[id], true
}

func (c *memCache) Set(_ context.Context, item *entity.Item, gen int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gens[item.ID] {
		return
	}
	c.entries[item.ID] = *item
}

func (c *memCache) Invalidate(_ context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
		c.gens[id]++
		c.invalidated = append(c.invalidated, id)
	}
}
