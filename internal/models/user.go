package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleAgente Role = "agente"
)

type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   []byte
	Role           Role
	InmobiliariaID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Inmobiliaria returns the tenant the user belongs to, or "" when the
// user is unaffiliated.
func (u User) Inmobiliaria() string {
	if u.InmobiliariaID == nil {
		return ""
	}
	return *u.InmobiliariaID
}
