package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Pinger lo implementa *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler verifica la conectividad con PostgreSQL y, si está configurado, Redis.
type HealthHandler struct {
	db  Pinger
	rdb *redis.Client
}

// NewHealthHandler rdb puede ser nil (cache deshabilitado).
func NewHealthHandler(db Pinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// HealthResponse estado de cada dependencia.
type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Redis  string `json:"redis,omitempty"`
}

// Check godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", DB: "ok"}
	if err := h.db.Ping(ctx); err != nil {
		resp.Status, resp.DB = "degraded", "error"
	}
	if h.rdb != nil {
		resp.Redis = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			resp.Status, resp.Redis = "degraded", "error"
		}
	}
	if resp.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
