package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	GenerateRefreshToken(userID uuid.UUID, email string) (token string, jti uuid.UUID, expiresAt time.Time, err error)
	ParseAccessToken(token string) (TokenClaims, error)
	ParseRefreshToken(token string) (TokenClaims, error)
}

// TokenClaims are the verified claims of a token. Fields are raw claim
// values; callers decide whether a missing value is acceptable.
type TokenClaims struct {
	Subject   string
	Email     string
	JTI       string
	ExpiresAt time.Time
}

// TokenPair is returned by every successful sign-in.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Hasher produces and verifies one-way hashes of secrets.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(encoded, plaintext string) (bool, error)
}
