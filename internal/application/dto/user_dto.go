package dto

import "time"

// LoginRequest body de POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest body de POST /api/auth/register. Siempre crea un cajero.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"max=100"`
}

// LoginResponse token emitido y usuario autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest body para alta de usuario por el director.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=director cashier"`
	FullName string `json:"full_name" validate:"max=100"`
}

// UpdateUserRequest actualización parcial; Password vacío no cambia la contraseña.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=80"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=director cashier"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
}

// UserResponse usuario sin hash de contraseña.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}
