// Package maintenance tareas administrativas ejecutadas desde cmd/maintenance.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dehaep/Project-SupzG/internal/application/auth"
	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/application/usecase"
	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
	"github.com/dehaep/Project-SupzG/pkg/logger"
)

const batchSize = 500

// Service agrupa las tareas de mantenimiento sobre los repositorios.
type Service struct {
	users      repository.UserRepository
	items      repository.ItemRepository
	categories repository.CategoryRepository
	locations  repository.LocationRepository
	itemUC     *usecase.ItemUseCase
	log        *logger.Logger
}

// NewService construye el servicio.
func NewService(
	users repository.UserRepository,
	items repository.ItemRepository,
	categories repository.CategoryRepository,
	locations repository.LocationRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		users:      users,
		items:      items,
		categories: categories,
		locations:  locations,
		itemUC:     usecase.NewItemUseCase(items, categories, locations, nil),
		log:        log,
	}
}

// CountMissingCategory items sin categoría o con una categoría eliminada.
func (s *Service) CountMissingCategory(ctx context.Context) (int, error) {
	return s.items.CountWithoutCategory(ctx)
}

// BackfillCategory asigna la primera categoría (por nombre) a los items sin categoría válida.
func (s *Service) BackfillCategory(ctx context.Context) (*entity.Category, int64, error) {
	cats, err := s.categories.List(ctx, 1, 0)
	if err != nil {
		return nil, 0, err
	}
	if len(cats) == 0 {
		return nil, 0, fmt.Errorf("%w: no hay categorías para asignar", domain.ErrNotFound)
	}
	n, err := s.items.AssignCategoryWhereMissing(ctx, cats[0].ID)
	if err != nil {
		return nil, 0, err
	}
	s.log.Info().Str("category", cats[0].Name).Int64("items", n).Msg("categoría asignada")
	return cats[0], n, nil
}

// RehashPasswords reemplaza por su hash bcrypt toda contraseña guardada en texto plano.
func (s *Service) RehashPasswords(ctx context.Context) (int, error) {
	rehashed := 0
	for offset := 0; ; offset += batchSize {
		users, err := s.users.List(ctx, batchSize, offset)
		if err != nil {
			return rehashed, err
		}
		for _, u := range users {
			if u.PasswordHash == "" || auth.IsBcryptHash(u.PasswordHash) {
				continue
			}
			hash, err := auth.HashPassword(u.PasswordHash)
			if err != nil {
				return rehashed, fmt.Errorf("hash de %s: %w", u.Username, err)
			}
			u.PasswordHash = hash
			u.UpdatedAt = time.Now()
			if err := s.users.Update(ctx, u); err != nil {
				return rehashed, err
			}
			rehashed++
			s.log.Info().Str("user", u.Username).Msg("contraseña rehasheada")
		}
		if len(users) < batchSize {
			return rehashed, nil
		}
	}
}

// ImportReport resultado de una importación de items.
type ImportReport struct {
	Created           int
	CategoriesCreated int
	LocationsCreated  int
	Errors            []RowError
}

// ImportItems crea un item por fila. Categoría y ubicación se buscan por nombre y se crean si faltan.
// Una fila con error se reporta y no detiene el resto.
func (s *Service) ImportItems(ctx context.Context, rows []ItemRow) (*ImportReport, error) {
	locByName, err := s.locationsByName(ctx)
	if err != nil {
		return nil, err
	}
	catByName := map[string]string{}
	report := &ImportReport{}

	for _, row := range rows {
		catID, created, err := s.categoryID(ctx, catByName, row.Category)
		if err != nil {
			if !isRowError(err) {
				return report, err
			}
			report.Errors = append(report.Errors, RowError{Line: row.Line, Err: err})
			continue
		}
		if created {
			report.CategoriesCreated++
		}
		locID, created, err := s.locationID(ctx, locByName, row.Location)
		if err != nil {
			return report, err
		}
		if created {
			report.LocationsCreated++
		}
		_, err = s.itemUC.Create(ctx, dto.CreateItemRequest{
			Name:        row.Name,
			Description: row.Description,
			Stock:       row.Stock,
			Price:       row.Price,
			CategoryID:  catID,
			LocationID:  locID,
		})
		if err != nil {
			if !isRowError(err) {
				return report, err
			}
			report.Errors = append(report.Errors, RowError{Line: row.Line, Err: err})
			continue
		}
		report.Created++
	}
	return report, nil
}

func isRowError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrDuplicate)
}

func (s *Service) categoryID(ctx context.Context, cache map[string]string, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, nil
	}
	key := strings.ToLower(name)
	if id, ok := cache[key]; ok {
		return id, false, nil
	}
	existing, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		cache[key] = existing.ID
		return existing.ID, false, nil
	}
	now := time.Now()
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.categories.Create(ctx, c); err != nil {
		return "", false, err
	}
	cache[key] = c.ID
	return c.ID, true, nil
}

func (s *Service) locationID(ctx context.Context, byName map[string]string, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, nil
	}
	key := strings.ToLower(name)
	if id, ok := byName[key]; ok {
		return id, false, nil
	}
	now := time.Now()
	l := &entity.Location{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.locations.Create(ctx, l); err != nil {
		return "", false, err
	}
	byName[key] = l.ID
	return l.ID, true, nil
}

// locationsByName las ubicaciones no tienen nombre único; gana la primera en orden de listado.
func (s *Service) locationsByName(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	for offset := 0; ; offset += batchSize {
		list, err := s.locations.List(ctx, batchSize, offset)
		if err != nil {
			return nil, err
		}
		for _, l := range list {
			key := strings.ToLower(strings.TrimSpace(l.Name))
			if _, ok := out[key]; !ok {
				out[key] = l.ID
			}
		}
		if len(list) < batchSize {
			return out, nil
		}
	}
}
