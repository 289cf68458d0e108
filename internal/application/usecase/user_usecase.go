package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dehaep/Project-SupzG/internal/application/auth"
	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

// UserUseCase administración de usuarios (reservada a managers en la capa HTTP).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario con la contraseña hasheada. Rol por defecto staff, estado active.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleStaff
	}
	status := in.Status
	if status == "" {
		status = entity.UserStatusActive
	}
	user, err := newUser(ctx, uc.repo, in.Username, in.Email, in.Password, role, status)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	return toUserResponse(user), nil
}

// List lista usuarios (sin hash de contraseña).
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}, nil
}

// Update actualización parcial. Un manager no puede quitarse el rol ni desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	self := actorID == id

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username no puede quedar vacío", domain.ErrInvalidInput)
		}
		if username != user.Username {
			if err := ensureUsernameFree(ctx, uc.repo, username); err != nil {
				return nil, err
			}
		}
		user.Username = username
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email no puede quedar vacío", domain.ErrInvalidInput)
		}
		if email != user.Email {
			if err := ensureEmailFree(ctx, uc.repo, email); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
		}
		if self && *in.Role != user.Role {
			return nil, fmt.Errorf("%w: no puede cambiar su propio rol", domain.ErrConflict)
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if !entity.IsValidUserStatus(*in.Status) {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
		}
		if self && *in.Status != entity.UserStatusActive {
			return nil, fmt.Errorf("%w: no puede desactivar su propia cuenta", domain.ErrConflict)
		}
		user.Status = *in.Status
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete elimina un usuario. Un manager no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

// RegisterUser crea una cuenta staff activa (auto-registro). Implementa auth.Registrar.
func (uc *UserUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*entity.User, error) {
	return newUser(ctx, uc.repo, in.Username, in.Email, in.Password, entity.RoleStaff, entity.UserStatusActive)
}

func newUser(ctx context.Context, repo repository.UserRepository, username, email, password, role, status string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email y password son requeridos", domain.ErrInvalidInput)
	}
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	if !entity.IsValidUserStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	if err := ensureUsernameFree(ctx, repo, username); err != nil {
		return nil, err
	}
	if err := ensureEmailFree(ctx, repo, email); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func ensureUsernameFree(ctx context.Context, repo repository.UserRepository, username string) error {
	existing, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: el username %q ya está registrado", domain.ErrDuplicate, username)
	}
	return nil
}

func ensureEmailFree(ctx context.Context, repo repository.UserRepository, email string) error {
	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: el email %q ya está registrado", domain.ErrDuplicate, email)
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// toUserResponse mapea un usuario sin exponer el hash.
func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
