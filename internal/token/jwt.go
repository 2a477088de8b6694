package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/auth-server/internal/model"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims represents JWT claims with token type and email.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	TokenType string `json:"typ"`
}

// Signer signs and verifies tokens of one type with one secret and lifetime.
type Signer struct {
	secret    []byte
	ttl       time.Duration
	tokenType string
	now       func() time.Time
}

// NewSigner creates a Signer.
func NewSigner(secret string, ttl time.Duration, tokenType string) *Signer {
	return &Signer{
		secret:    []byte(secret),
		ttl:       ttl,
		tokenType: tokenType,
		now:       time.Now,
	}
}

// Sign stamps iat/exp and the token type onto claims and signs them.
// It returns the claims exactly as they were signed.
func (s *Signer) Sign(claims Claims) (string, Claims, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	claims.TokenType = s.tokenType

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to sign %s token: %w", s.tokenType, err)
	}

	return signed, claims, nil
}

// Verify checks signature, expiry and token type. Every failure is reported
// as model.ErrInvalidToken.
func (s *Signer) Verify(tokenString string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, errors.Join(model.ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, model.ErrInvalidToken
	}
	if claims.TokenType != s.tokenType {
		return Claims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrInvalidToken, claims.TokenType)
	}

	return claims, nil
}

// JWT implements model.TokenManager with independent access and refresh signers.
type JWT struct {
	access  *Signer
	refresh *Signer
}

var _ model.TokenManager = (*JWT)(nil)

// Config holds the secrets and lifetimes of both token kinds.
type Config struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// NewJWT creates a new JWT token manager.
func NewJWT(cfg Config) *JWT {
	return &JWT{
		access:  NewSigner(cfg.AccessSecret, cfg.AccessTTL, TypeAccess),
		refresh: NewSigner(cfg.RefreshSecret, cfg.RefreshTTL, TypeRefresh),
	}
}

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	signed, _, err := j.access.Sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
			ID:      uuid.NewString(),
		},
		Email: email,
	})
	if err != nil {
		return "", err
	}
	return signed, nil
}

// GenerateRefreshToken creates a long-lived refresh token and returns its
// jti and expiry.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID, email string) (string, uuid.UUID, time.Time, error) {
	jti := uuid.New()
	signed, claims, err := j.refresh.Sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
			ID:      jti.String(),
		},
		Email: email,
	})
	if err != nil {
		return "", uuid.Nil, time.Time{}, err
	}
	return signed, jti, claims.ExpiresAt.Time, nil
}

// ParseAccessToken validates an access token.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenClaims, error) {
	claims, err := j.access.Verify(tokenString)
	if err != nil {
		return model.TokenClaims{}, err
	}
	return toModel(claims), nil
}

// ParseRefreshToken validates a refresh token.
func (j *JWT) ParseRefreshToken(tokenString string) (model.TokenClaims, error) {
	claims, err := j.refresh.Verify(tokenString)
	if err != nil {
		return model.TokenClaims{}, err
	}
	return toModel(claims), nil
}

func toModel(c Claims) model.TokenClaims {
	out := model.TokenClaims{
		Subject: c.Subject,
		Email:   c.Email,
		JTI:     c.ID,
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
