package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/application/ports"
	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para items. El stock solo cambia al aprobar transacciones.
type ItemUseCase struct {
	repo         repository.ItemRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
	cache        ports.ItemCache
}

// NewItemUseCase construye el caso de uso. cache puede ser nil.
func NewItemUseCase(
	repo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	cache ports.ItemCache,
) *ItemUseCase {
	if cache == nil {
		cache = ports.NopItemCache{}
	}
	return &ItemUseCase{repo: repo, categoryRepo: categoryRepo, locationRepo: locationRepo, cache: cache}
}

// Create crea un item con stock inicial.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Stock:       in.Stock,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		LocationID:  strings.TrimSpace(in.LocationID),
		Photo:       in.Photo,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return uc.resolveOne(ctx, item)
}

// GetByID obtiene un item con categoría y ubicación resueltas. Usa la caché si está disponible;
// las referencias se resuelven siempre contra la base para reflejar borrados y renombres.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, gen, ok := uc.cache.Get(ctx, id)
	if !ok {
		var err error
		item, err = uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
		}
		uc.cache.Set(ctx, item, gen)
	}
	return uc.resolveOne(ctx, item)
}

// Update aplica una actualización parcial: solo cambian los campos presentes.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = strings.TrimSpace(*in.CategoryID)
	}
	if in.LocationID != nil {
		item.LocationID = strings.TrimSpace(*in.LocationID)
	}
	if in.Photo != nil {
		item.Photo = *in.Photo
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
		}
		item.Price = *in.Price
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, id)
	// releer: el stock pudo cambiar entre la lectura y la escritura
	fresh, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return uc.resolveOne(ctx, fresh)
}

// List lista items con filtros opcionales.
func (uc *ItemUseCase) List(ctx context.Context, in dto.ItemFilterRequest) (*dto.ItemListResponse, error) {
	in.Page.Normalize()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		CategoryID: in.CategoryID,
		LocationID: in.LocationID,
		Query:      strings.TrimSpace(in.Q),
		Limit:      in.Page.Limit,
		Offset:     in.Page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items, err := uc.resolve(ctx, list)
	if err != nil {
		return nil, err
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Page.Limit, Offset: in.Page.Offset, Count: len(items)},
	}, nil
}

// Delete elimina un item. Las transacciones que lo referencian se conservan.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx, id)
	return nil
}

func (uc *ItemUseCase) resolveOne(ctx context.Context, item *entity.Item) (*dto.ItemResponse, error) {
	out, err := uc.resolve(ctx, []*entity.Item{item})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// resolve carga categorías y ubicaciones referenciadas en dos consultas.
// Una referencia a un registro eliminado queda en null.
func (uc *ItemUseCase) resolve(ctx context.Context, list []*entity.Item) ([]dto.ItemResponse, error) {
	var catIDs, locIDs []string
	for _, it := range list {
		if it.CategoryID != "" {
			catIDs = append(catIDs, it.CategoryID)
		}
		if it.LocationID != "" {
			locIDs = append(locIDs, it.LocationID)
		}
	}
	cats, err := uc.categoryRepo.GetByIDs(ctx, catIDs)
	if err != nil {
		return nil, err
	}
	locs, err := uc.locationRepo.GetByIDs(ctx, locIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		resp := dto.ItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Stock:       it.Stock,
			CategoryID:  it.CategoryID,
			LocationID:  it.LocationID,
			Photo:       it.Photo,
			Price:       it.Price,
			CreatedAt:   it.CreatedAt,
			UpdatedAt:   it.UpdatedAt,
		}
		if c, ok := cats[it.CategoryID]; ok {
			resp.Category = toCategoryResponse(c)
		}
		if l, ok := locs[it.LocationID]; ok {
			resp.Location = toLocationResponse(l)
		}
		out = append(out, resp)
	}
	return out, nil
}
