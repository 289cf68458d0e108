package entity

import "time"

// Roles válidos para User.
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // staff, manager
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si r es un rol conocido.
func IsValidRole(r string) bool {
	return r == RoleStaff || r == RoleManager
}

// IsValidUserStatus indica si s es un estado de cuenta conocido.
func IsValidUserStatus(s string) bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// IsActive indica si el usuario puede iniciar sesión.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
