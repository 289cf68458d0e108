package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/dehaep/Project-SupzG/internal/application/analytics"
	"github.com/dehaep/Project-SupzG/internal/application/dto"
)

// DashboardHandler maneja los endpoints del panel principal.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del inventario
// @Description  Conteos globales, totales de entradas/salidas aprobadas, top 5 items por stock y últimas 5 transacciones.
// @Description  date e item_id acotan solo los agregados de transacciones.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        date     query  string  false  "YYYY-MM-DD"
// @Param        item_id  query  string  false  "Filtrar por item"
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	in := dto.DashboardFilterRequest{
		Date:   c.Query("date"),
		ItemID: c.Query("item_id"),
	}
	if err := validateStruct(&in); err != nil {
		return respondError(c, err)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
