package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
)

// pageFrom lee ?limit y ?offset. Los valores fuera de rango los normaliza el caso de uso.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
}
