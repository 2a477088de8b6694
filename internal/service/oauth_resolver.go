package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/auth-server/internal/apierrors"
	"github.com/dtroode/auth-server/internal/logger"
	"github.com/dtroode/auth-server/internal/model"
)

// OAuthResolver maps a provider-verified identity to a local account.
// Email is the only join key: two providers reporting the same email
// resolve to the same user.
type OAuthResolver struct {
	users  model.UserStore
	logger *logger.Logger
}

func NewOAuthResolver(users model.UserStore, logger *logger.Logger) *OAuthResolver {
	return &OAuthResolver{users: users, logger: logger}
}

// Resolve returns the account registered under profile.Email, creating a
// password-less one when none exists.
func (r *OAuthResolver) Resolve(ctx context.Context, profile model.OAuthProfile) (model.Identity, error) {
	if err := profile.Validate(); err != nil {
		return model.Identity{}, apierrors.FromValidation(err)
	}

	user, err := r.users.GetByEmail(ctx, profile.Email)
	if err == nil {
		r.logger.Debug("OAuth resolver: linked existing account",
			"provider", profile.Provider,
			"user_id", user.ID)
		return model.Identity{UserID: user.ID, Email: user.Email}, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	user, err = r.users.Create(ctx, model.User{
		ID:    uuid.New(),
		Email: profile.Email,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		// lost a race with a concurrent sign-in for the same email
		user, err = r.users.GetByEmail(ctx, profile.Email)
	}
	if err != nil {
		r.logger.Error("OAuth resolver: failed to create account",
			"provider", profile.Provider,
			"error", err.Error())
		return model.Identity{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to create oauth user: %w", err))
	}

	r.logger.Info("OAuth resolver: created account",
		"provider", profile.Provider,
		"user_id", user.ID)

	return model.Identity{UserID: user.ID, Email: user.Email}, nil
}
