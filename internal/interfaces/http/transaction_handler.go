package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/application/inventory"
)

// TransactionHandler maneja entradas y salidas de stock y su aprobación.
type TransactionHandler struct {
	uc *inventory.TransactionUseCase
}

// NewTransactionHandler construye el handler de transacciones.
func NewTransactionHandler(uc *inventory.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar transacción
// @Description  Staff crea la transacción en pending. Un manager la crea y aprueba en la misma operación.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTransactionRequest  true  "item_id, quantity, type (inbound|outbound), date opcional"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener transacción
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar transacciones
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        status   query  string  false  "pending | approved"
// @Param        item_id  query  string  false  "Filtrar por item"
// @Param        date     query  string  false  "YYYY-MM-DD"
// @Param        limit    query  int     false  "Máximo de resultados"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.TransactionFilterRequest{
		Page:   pageFrom(c),
		Status: c.Query("status"),
		ItemID: c.Query("item_id"),
		Date:   c.Query("date"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Aprobar transacción
// @Description  status=approved aplica el movimiento al stock una sola vez. Repetir la aprobación no vuelve a aplicarlo.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                              true  "ID de la transacción"
// @Param        body  body  dto.UpdateTransactionStatusRequest  true  "status"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTransactionStatusRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar transacción
// @Description  No revierte el stock de una transacción aprobada.
// @Tags         transactions
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la transacción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
