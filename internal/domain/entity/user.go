package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa una cuenta de la plataforma de mensajería registrada en el sistema.
// WarehouseID es la bodega asignada (nil = sin asignar; los admin operan sobre todas).
type User struct {
	ID          string
	AccountID   int64 // id de cuenta en la plataforma de chat
	Username    string
	Name        string
	Role        string // admin, user
	WarehouseID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdmin indica si la cuenta puede ejecutar operaciones administrativas.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
