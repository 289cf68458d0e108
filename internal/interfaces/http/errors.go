package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/domain"
)

// errorMapping estado HTTP y código para cada sentinel del dominio.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
}

// respondError convierte un error de los casos de uso en la respuesta JSON correspondiente.
// Los errores no clasificados se registran y responden 500 sin detalles internos.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  verr.fields,
		})
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			if m.status >= fiber.StatusInternalServerError {
				logRequestError(c, err)
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: publicMessage(err, m.err)})
		}
	}
	logRequestError(c, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: "error interno del servidor",
	})
}

// publicMessage devuelve el detalle agregado por el caso de uso ("<sentinel>: detalle")
// o el texto del sentinel si no hay detalle. Los errores de infraestructura no exponen la causa.
func publicMessage(err, sentinel error) string {
	if errors.Is(sentinel, domain.ErrStoreUnavailable) {
		return sentinel.Error()
	}
	msg := err.Error()
	if prefix := sentinel.Error() + ": "; strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}

func logRequestError(c *fiber.Ctx, err error) {
	rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	log.Error().
		Err(err).
		Str("request_id", rid).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error procesando petición")
}

// ErrorHandler manejador de errores de fiber: errores de ruteo (404/405) y panics recuperados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "BODY_TOO_LARGE"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}
