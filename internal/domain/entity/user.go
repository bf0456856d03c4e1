package entity

import "time"

// Roles de usuario de la API.
const (
	RoleAdmin      = "admin"
	RoleFacturador = "facturador"
)

// User usuario de la API (autenticación por email + password bcrypt).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
