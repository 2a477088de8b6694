package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/auth-server/internal/logger"
	"github.com/dtroode/auth-server/internal/model"
)

// TokenService provides high-level operations for issuing, rotating,
// and revoking tokens. It composes the TokenManager, the RefreshTokenStore
// and the Hasher used to keep refresh tokens at rest.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	users   model.UserStore
	hasher  model.Hasher
	logger  *logger.Logger
	now     func() time.Time
}

func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	users model.UserStore,
	hasher model.Hasher,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager: manager,
		store:   store,
		users:   users,
		hasher:  hasher,
		logger:  logger,
		now:     time.Now,
	}
}

// Issue mints an access/refresh pair for identity and persists a session
// row for the refresh token.
func (s *TokenService) Issue(ctx context.Context, identity model.Identity) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(identity.UserID, identity.Email)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, expiresAt, err := s.manager.GenerateRefreshToken(identity.UserID, identity.Email)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	hash, err := s.hasher.Hash(refresh)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("hash refresh: %w", err)
	}

	rt := model.RefreshToken{
		ID:        jti,
		UserID:    identity.UserID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
	}
	if identity.SessionID != uuid.Nil {
		rotatedFrom := identity.SessionID
		rt.RotatedFrom = &rotatedFrom
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return model.TokenPair{}, fmt.Errorf("persist refresh: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate consumes a refresh token and returns the identity it was issued
// to. The session row is revoked before returning, so a token can be
// rotated at most once. The returned identity carries the consumed
// session id.
func (s *TokenService) Rotate(ctx context.Context, presented string) (model.Identity, error) {
	claims, row, err := s.verifyRefresh(ctx, presented)
	if err != nil {
		return model.Identity{}, err
	}

	if err := s.store.RevokeActive(ctx, row.ID); err != nil {
		if errors.Is(err, model.ErrTokenRevoked) {
			return model.Identity{}, err
		}
		return model.Identity{}, fmt.Errorf("revoke old refresh: %w", err)
	}

	email := claims.Email
	if email == "" {
		user, err := s.users.GetByID(ctx, row.UserID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.Identity{}, fmt.Errorf("%w: user no longer exists", model.ErrInvalidToken)
			}
			return model.Identity{}, fmt.Errorf("get token owner: %w", err)
		}
		email = user.Email
	}

	return model.Identity{UserID: row.UserID, Email: email, SessionID: row.ID}, nil
}

// Revoke ends the session of a refresh token. It fails under the same
// conditions as Rotate, so a replayed or revoked token is rejected.
func (s *TokenService) Revoke(ctx context.Context, presented string) error {
	_, row, err := s.verifyRefresh(ctx, presented)
	if err != nil {
		return err
	}

	if err := s.store.Revoke(ctx, row.ID); err != nil {
		return fmt.Errorf("revoke refresh: %w", err)
	}
	return nil
}

// Authenticate resolves the identity of an access token.
func (s *TokenService) Authenticate(_ context.Context, accessToken string) (model.Identity, error) {
	claims, err := s.manager.ParseAccessToken(accessToken)
	if err != nil {
		return model.Identity{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return model.Identity{}, fmt.Errorf("%w: bad subject", model.ErrInvalidToken)
	}

	return model.Identity{UserID: userID, Email: claims.Email}, nil
}

func (s *TokenService) verifyRefresh(ctx context.Context, presented string) (model.TokenClaims, model.RefreshToken, error) {
	claims, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return model.TokenClaims{}, model.RefreshToken{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return model.TokenClaims{}, model.RefreshToken{}, fmt.Errorf("%w: bad subject", model.ErrInvalidToken)
	}
	jti, err := uuid.Parse(claims.JTI)
	if err != nil || jti == uuid.Nil {
		return model.TokenClaims{}, model.RefreshToken{}, fmt.Errorf("%w: bad jti", model.ErrInvalidToken)
	}

	row, err := s.store.GetByID(ctx, jti)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenClaims{}, model.RefreshToken{}, fmt.Errorf("%w: unknown session", model.ErrInvalidToken)
		}
		return model.TokenClaims{}, model.RefreshToken{}, fmt.Errorf("get refresh: %w", err)
	}

	if err := s.validateRecord(row, presented, userID); err != nil {
		return model.TokenClaims{}, model.RefreshToken{}, err
	}

	return claims, row, nil
}

func (s *TokenService) validateRecord(rt model.RefreshToken, presented string, subject uuid.UUID) error {
	if !rt.Active(s.now()) {
		if rt.RevokedAt != nil {
			return model.ErrTokenRevoked
		}
		return model.ErrTokenExpired
	}

	ok, err := s.hasher.Verify(rt.TokenHash, presented)
	if err != nil {
		return errors.Join(model.ErrTokenMismatch, err)
	}
	if !ok {
		return model.ErrTokenMismatch
	}

	if rt.UserID != subject {
		return model.ErrTokenOwner
	}
	return nil
}
