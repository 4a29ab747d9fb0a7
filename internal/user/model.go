package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// User is a registered account. PasswordHash is only populated by
// Directory.FindByEmail and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"date"`
}

// Profile returns a copy of u without the password hash
func (u *User) Profile() *User {
	p := *u
	p.PasswordHash = ""
	return &p
}

// Directory is the persistent user store
type Directory interface {
	// FindByEmail returns the full record including the password hash
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByID returns the record with PasswordHash left empty
	FindByID(ctx context.Context, id string) (*User, error)
	// Create persists u and returns it with ID and CreatedAt assigned.
	// Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, u *User) (*User, error)
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
