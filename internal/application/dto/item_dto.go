package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un item. Stock es el stock inicial.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Stock       int             `json:"stock" validate:"min=0"`
	CategoryID  string          `json:"category_id" validate:"max=64"`
	LocationID  string          `json:"location_id" validate:"max=64"`
	Photo       string          `json:"photo" validate:"max=500"`
	Price       decimal.Decimal `json:"price" validate:"min=0"`
}

// UpdateItemRequest actualización parcial: solo se modifican los campos presentes.
// El stock no se edita aquí; cambia únicamente al aprobar transacciones.
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,max=64"`
	LocationID  *string          `json:"location_id" validate:"omitempty,max=64"`
	Photo       *string          `json:"photo" validate:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
}

// ItemFilterRequest filtros de query para listar items.
type ItemFilterRequest struct {
	Page       PageRequest
	CategoryID string `query:"category_id"`
	LocationID string `query:"location_id"`
	Q          string `query:"q"`
}

// ItemResponse salida de un item con categoría y ubicación resueltas (null si ya no existen).
type ItemResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Stock       int               `json:"stock"`
	CategoryID  string            `json:"category_id,omitempty"`
	Category    *CategoryResponse `json:"category"`
	LocationID  string            `json:"location_id,omitempty"`
	Location    *LocationResponse `json:"location"`
	Photo       string            `json:"photo"`
	Price       decimal.Decimal   `json:"price"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ItemSummary vista reducida de un item embebida en otras respuestas.
type ItemSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// ItemListResponse lista paginada de items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
