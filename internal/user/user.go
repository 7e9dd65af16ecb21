package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("email already exists")
)

// DefaultRoles are granted to every registered account.
var DefaultRoles = []string{"ROLE_USER"}

// User is a credential-bearing account. PasswordHash is never serialized.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
