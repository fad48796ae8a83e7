package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleDelivery = "delivery"
	RoleCustomer = "customer"
)

// Estados válidos para User.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, staff, delivery, customer
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanManageInventory indica si el rol del usuario tiene la capacidad de
// gestionar inventario. Solo usuarios activos con rol admin o staff.
func (u *User) CanManageInventory() bool {
	if u.Status != UserStatusActive {
		return false
	}
	return u.Role == RoleAdmin || u.Role == RoleStaff
}
