package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// Role is the application role stored on app_users.papel. "nenhum" is
// the state of a freshly registered account waiting for an admin to
// approve it.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendedor Role = "vendedor"
	RoleNenhum   Role = "nenhum"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVendedor, RoleNenhum:
		return true
	}
	return false
}

type AppUser struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	Papel        Role      `json:"papel"`
	PasswordHash string    `json:"-"`

	// refresh-token storage on the user row
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
