package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un producto almacenado con su stock actual.
// CategoryID y LocationID son referencias débiles: pueden apuntar a registros ya eliminados.
type Item struct {
	ID          string
	Name        string
	Description string
	Stock       int // nunca negativo; solo el motor de aprobación lo modifica después de crear
	CategoryID  string // vacío si no tiene categoría
	LocationID  string // vacío si no tiene ubicación
	Photo       string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
