// Package access decide qué acciones puede ejecutar cada rol.
package access

import "github.com/dehaep/Project-SupzG/internal/domain/entity"

// Action operación protegida sobre un recurso.
type Action string

const (
	ReadAll Action = "read_all"

	CreateItem Action = "create_item"
	UpdateItem Action = "update_item"
	DeleteItem Action = "delete_item"

	CreateTransaction  Action = "create_transaction"
	ApproveTransaction Action = "approve_transaction"
	DeleteTransaction  Action = "delete_transaction"

	CreateCategory Action = "create_category"
	UpdateCategory Action = "update_category"
	DeleteCategory Action = "delete_category"

	CreateLocation Action = "create_location"
	UpdateLocation Action = "update_location"
	DeleteLocation Action = "delete_location"

	CreateUser Action = "create_user"
	UpdateUser Action = "update_user"
	DeleteUser Action = "delete_user"
)

// managerOnly acciones reservadas al rol manager.
var managerOnly = map[Action]bool{
	DeleteItem:         true,
	DeleteLocation:     true,
	DeleteCategory:     true,
	CreateUser:         true,
	UpdateUser:         true,
	DeleteUser:         true,
	DeleteTransaction:  true,
	ApproveTransaction: true,
}

// known acciones que cualquier rol válido puede ejecutar.
var known = map[Action]bool{
	ReadAll:           true,
	CreateItem:        true,
	UpdateItem:        true,
	CreateTransaction: true,
	CreateCategory:    true,
	UpdateCategory:    true,
	CreateLocation:    true,
	UpdateLocation:    true,
}

// Allowed indica si role puede ejecutar action. Roles o acciones desconocidos se deniegan.
func Allowed(role string, action Action) bool {
	switch role {
	case entity.RoleManager:
		return managerOnly[action] || known[action]
	case entity.RoleStaff:
		return known[action]
	default:
		return false
	}
}

// ManagerOnly indica si action está reservada al rol manager.
func ManagerOnly(action Action) bool { return managerOnly[action] }
