package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dtroode/auth-server/internal/model"
)

// Strategy resolves sign-in credentials to an identity.
type Strategy interface {
	Resolve(ctx context.Context, creds model.Credentials) (model.Identity, error)
}

const dummyPassword = "not-a-real-password"

type passwordStrategy struct {
	users  model.UserStore
	hasher model.Hasher

	dummyOnce sync.Once
	dummyHash string
}

func newPasswordStrategy(users model.UserStore, hasher model.Hasher) *passwordStrategy {
	return &passwordStrategy{users: users, hasher: hasher}
}

func (s *passwordStrategy) Resolve(ctx context.Context, creds model.Credentials) (model.Identity, error) {
	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		// burn a verification so unknown emails take as long as wrong passwords
		s.verifyDummy(creds.Password)
		if errors.Is(err, model.ErrNotFound) {
			return model.Identity{}, model.ErrInvalidCredentials
		}
		return model.Identity{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.HasPassword() {
		s.verifyDummy(creds.Password)
		return model.Identity{}, model.ErrPasswordNotSet
	}

	ok, err := s.hasher.Verify(*user.PasswordHash, creds.Password)
	if err != nil {
		return model.Identity{}, errors.Join(model.ErrInvalidCredentials, err)
	}
	if !ok {
		return model.Identity{}, model.ErrInvalidCredentials
	}

	return model.Identity{UserID: user.ID, Email: user.Email}, nil
}

func (s *passwordStrategy) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(s.dummyHash, password)
	}
}

type refreshStrategy struct {
	tokens *TokenService
}

func (s *refreshStrategy) Resolve(ctx context.Context, creds model.Credentials) (model.Identity, error) {
	return s.tokens.Rotate(ctx, creds.RefreshToken)
}

type oauthStrategy struct {
	provider string
	resolver *OAuthResolver
}

func (s *oauthStrategy) Resolve(ctx context.Context, creds model.Credentials) (model.Identity, error) {
	if creds.Profile.Provider != s.provider {
		return model.Identity{}, fmt.Errorf("%w: provider %q routed to %q", model.ErrInvalidCredentials, creds.Profile.Provider, s.provider)
	}
	return s.resolver.Resolve(ctx, creds.Profile)
}
