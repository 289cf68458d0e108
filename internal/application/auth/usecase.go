package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
	"github.com/dehaep/Project-SupzG/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Registrar crea cuentas nuevas con las reglas de unicidad de usuarios.
type Registrar interface {
	RegisterUser(ctx context.Context, in dto.RegisterRequest) (*entity.User, error)
}

// AuthUseCase casos de uso de autenticación: registro, login y usuario actual.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	registrar Registrar
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, registrar Registrar, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, registrar: registrar, jwtCfg: jwtCfg}
}

// Register crea una cuenta staff. El rol nunca lo elige quien se registra.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := uc.registrar.RegisterUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica identifier (username o email) y password y genera el JWT.
// Credenciales incorrectas -> ErrUnauthorized; cuenta inactiva -> ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: identifier y password son requeridos", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, in.Password) {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%w: cuenta inactiva", domain.ErrForbidden)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      *toUserResponse(user),
	}, nil
}

// Me devuelve el usuario autenticado. Si fue eliminado o desactivado después de emitir el token
// se responde como no autorizado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario inexistente", domain.ErrUnauthorized)
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%w: cuenta inactiva", domain.ErrForbidden)
	}
	return toUserResponse(user), nil
}

// TokenTTL duración de los tokens emitidos.
func (uc *AuthUseCase) TokenTTL() time.Duration {
	return time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
}

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
