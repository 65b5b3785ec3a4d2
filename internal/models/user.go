package models

import (
	"strings"
	"time"
)

// Role is the coarse authorization tag gating endpoint access
type Role string

// User roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is a known role value
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user in the system
type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	DateOfBirth  string    `json:"dateOfBirth"`
	Description  string    `json:"description"`
	Role         Role      `json:"role"`   // "user" or "admin", default "user"
	Active       bool      `json:"active"` // approximates "currently logged in"
	CreatedAt    time.Time `json:"createdAt"`
}

// DeriveUserName builds the unique username from first and last name
func DeriveUserName(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName)) + "_" + strings.ToLower(strings.TrimSpace(lastName))
}
