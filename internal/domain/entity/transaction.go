package entity

import "time"

// Tipos de transacción.
const (
	TransactionInbound  = "inbound"
	TransactionOutbound = "outbound"
)

// Estados de transacción. approved es terminal.
const (
	TransactionPending  = "pending"
	TransactionApproved = "approved"
)

// TransactionDateLayout formato de la fecha de negocio (YYYY-MM-DD).
const TransactionDateLayout = "2006-01-02"

// Transaction solicitud de movimiento de stock que requiere aprobación.
type Transaction struct {
	ID          string
	ItemID      string
	Quantity    int
	Type        string // inbound, outbound
	Date        string // fecha informada por quien la registra
	Status      string // pending, approved
	SubmittedBy string // etiqueta libre, no es una referencia a User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValidTransactionType indica si t es inbound u outbound.
func IsValidTransactionType(t string) bool {
	return t == TransactionInbound || t == TransactionOutbound
}

// IsValidTransactionStatus indica si s es un estado conocido.
func IsValidTransactionStatus(s string) bool {
	return s == TransactionPending || s == TransactionApproved
}

// IsApproved indica si la transacción ya aplicó su efecto sobre el stock.
func (t *Transaction) IsApproved() bool {
	return t.Status == TransactionApproved
}
