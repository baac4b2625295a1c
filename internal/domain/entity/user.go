package entity

import "time"

// Roles válidos para User.
const (
	RoleDirector = "director"
	RoleCashier  = "cashier"
)

// User representa una cuenta del personal de la tienda.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt, nunca en texto plano
	Role         string // director, cashier
	FullName     string
	CreatedAt    time.Time
}

// IsDirector indica si el usuario tiene permisos administrativos.
func (u *User) IsDirector() bool {
	return u.Role == RoleDirector
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleDirector || role == RoleCashier
}
