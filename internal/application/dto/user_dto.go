package dto

import "time"

// ProvisionUserRequest alta/actualización de un usuario por cuenta de chat (admin).
type ProvisionUserRequest struct {
	AccountID   int64   `json:"account_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Role        string  `json:"role" validate:"required,oneof=admin user"`
	WarehouseID *string `json:"warehouse_id"`
}

// UserResponse salida de un usuario.
type UserResponse struct {
	ID          string    `json:"id"`
	AccountID   int64     `json:"account_id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	WarehouseID *string   `json:"warehouse_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginRequest credencial del back-office.
type LoginRequest struct {
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse token JWT emitido.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
