package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/domain/access"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
)

// UserLookup lectura del usuario vigente. repository.UserRepository la satisface.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// RequireAction autoriza la petición según el rol. Usar DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE si el token no trae rol.
//   - 403 FORBIDDEN si el rol no puede ejecutar la acción.
//
// Con users != nil, los tokens de manager y las acciones exclusivas de manager se
// verifican contra el usuario guardado: rol y estado vigentes reemplazan a los del token.
//   - 401 UNAUTHORIZED si el usuario ya no existe.
//   - 403 ACCOUNT_INACTIVE si el usuario fue desactivado.
func RequireAction(action access.Action, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "el token no incluye rol",
			})
		}
		if users != nil && (role == entity.RoleManager || access.ManagerOnly(action)) {
			u, err := users.GetByID(c.UserContext(), GetUserID(c))
			if err != nil {
				return respondError(c, err)
			}
			if u == nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "el usuario del token ya no existe",
				})
			}
			if !u.IsActive() {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Code:    "ACCOUNT_INACTIVE",
					Message: "la cuenta está desactivada",
				})
			}
			role = u.Role
			c.Locals(LocalRole, role)
		}
		if !access.Allowed(role, action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol " + role + " no tiene permiso para esta operación",
			})
		}
		return c.Next()
	}
}
