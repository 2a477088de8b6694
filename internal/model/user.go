package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// Create returns ErrAlreadyExists when the email is already on file.
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored account. PasswordHash is nil for accounts
// created through an OAuth provider.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can sign in with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Identity is the authenticated subject carried by tokens. SessionID is
// the refresh session the identity was resolved from and is uuid.Nil for
// fresh sign-ins.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	SessionID uuid.UUID
}
