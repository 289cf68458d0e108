package dto

import "time"

// CreateTransactionRequest entrada para registrar un movimiento de stock.
// El estado inicial lo decide el servidor según el rol de quien la registra.
type CreateTransactionRequest struct {
	ItemID      string `json:"item_id" validate:"required,max=64"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required,oneof=inbound outbound"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	SubmittedBy string `json:"submitted_by" validate:"max=100"`
}

// UpdateTransactionStatusRequest solicitud de cambio de estado (aprobación).
type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TransactionFilterRequest filtros de query para listar transacciones.
type TransactionFilterRequest struct {
	Page   PageRequest
	Status string `query:"status"`
	ItemID string `query:"item_id"`
	Date   string `query:"date"`
}

// TransactionResponse salida de una transacción con el item resuelto (null si fue eliminado).
type TransactionResponse struct {
	ID          string       `json:"id"`
	ItemID      string       `json:"item_id"`
	Item        *ItemSummary `json:"item"`
	Quantity    int          `json:"quantity"`
	Type        string       `json:"type"`
	Date        string       `json:"date"`
	Status      string       `json:"status"`
	SubmittedBy string       `json:"submitted_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TransactionListResponse lista paginada de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
