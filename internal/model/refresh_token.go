package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists one session row per issued refresh token.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByID(ctx context.Context, id uuid.UUID) (RefreshToken, error)
	// Revoke marks the row revoked. Revoking an already revoked row is not an error.
	Revoke(ctx context.Context, id uuid.UUID) error
	// RevokeActive revokes the row only if it is still active and returns
	// ErrTokenRevoked when another caller got there first.
	RevokeActive(ctx context.Context, id uuid.UUID) error
}

// RefreshToken is a refresh session row. ID equals the token's jti claim.
type RefreshToken struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	TokenHash   string
	ExpiresAt   time.Time
	RevokedAt   *time.Time
	RotatedFrom *uuid.UUID
	CreatedAt   time.Time
}

// Active reports whether the row is neither revoked nor expired at now.
func (t RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
