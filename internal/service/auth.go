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

// Auth is the public authentication surface. It translates every failure
// below it into an *apierrors.APIError.
type Auth struct {
	userStore    model.UserStore
	hasher       model.Hasher
	tokenService *TokenService
	strategies   map[model.Strategy]Strategy
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	refreshTokenStore model.RefreshTokenStore,
	logger *logger.Logger,
	tokenManager model.TokenManager,
	hasher model.Hasher,
) *Auth {
	tokenService := NewTokenService(tokenManager, refreshTokenStore, userStore, hasher, logger)
	resolver := NewOAuthResolver(userStore, logger)

	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		strategies: map[model.Strategy]Strategy{
			model.StrategyPassword:     newPasswordStrategy(userStore, hasher),
			model.StrategyRefreshToken: &refreshStrategy{tokens: tokenService},
			model.StrategyGoogle:       &oauthStrategy{provider: model.ProviderGoogle, resolver: resolver},
			model.StrategyGitHub:       &oauthStrategy{provider: model.ProviderGitHub, resolver: resolver},
		},
		logger: logger,
	}
}

// Register creates a password account and signs it in.
func (a *Auth) Register(ctx context.Context, req model.RegisterRequest) (model.TokenPair, error) {
	if err := req.ValidateEmail(); err != nil {
		return model.TokenPair{}, apierrors.FromValidation(err)
	}

	a.logger.Debug("Auth service: starting user registration",
		"email", req.Email)

	_, err := a.userStore.GetByEmail(ctx, req.Email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", req.Email)
		return model.TokenPair{}, apierrors.NewErrEmailIsTaken(req.Email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", req.Email,
			"error", err.Error())
		return model.TokenPair{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to get user by email: %w", err))
	}

	if err := req.Validate(); err != nil {
		return model.TokenPair{}, apierrors.FromValidation(err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", req.Email,
			"error", err.Error())
		return model.TokenPair{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to hash password: %w", err))
	}

	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: &hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			a.logger.Info("Auth service: user created concurrently",
				"email", req.Email)
			return model.TokenPair{}, apierrors.NewErrEmailIsTaken(req.Email)
		}
		a.logger.Error("Auth service: failed to create user",
			"email", req.Email,
			"error", err.Error())
		return model.TokenPair{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to create user: %w", err))
	}

	pair, err := a.issue(ctx, model.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return model.TokenPair{}, err
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", user.ID)

	return pair, nil
}

// Login signs in with email and password.
func (a *Auth) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return model.TokenPair{}, apierrors.FromValidation(err)
	}

	return a.SignIn(ctx, model.Credentials{
		Strategy: model.StrategyPassword,
		Email:    req.Email,
		Password: req.Password,
	})
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	if err := (model.RefreshRequest{RefreshToken: refreshToken}).Validate(); err != nil {
		return model.TokenPair{}, apierrors.FromValidation(err)
	}

	return a.SignIn(ctx, model.Credentials{
		Strategy:     model.StrategyRefreshToken,
		RefreshToken: refreshToken,
	})
}

// Logout revokes the session of a refresh token.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	if err := (model.RefreshRequest{RefreshToken: refreshToken}).Validate(); err != nil {
		return apierrors.FromValidation(err)
	}

	if err := a.tokenService.Revoke(ctx, refreshToken); err != nil {
		a.logger.Warn("Auth service: logout rejected",
			"error", err.Error())
		return apierrors.NewErrUnauthorized(err)
	}

	a.logger.Info("Auth service: logout completed")
	return nil
}

// LoginWithOAuth signs in a provider-verified identity.
// The profile itself is validated by the OAuth resolver.
func (a *Auth) LoginWithOAuth(ctx context.Context, profile model.OAuthProfile) (model.TokenPair, error) {
	strategy, ok := model.StrategyForProvider(profile.Provider)
	if !ok {
		return model.TokenPair{}, apierrors.NewErrInvalidArgument([]apierrors.FieldError{
			{Field: "provider", Message: fmt.Sprintf("unsupported provider %q", profile.Provider)},
		})
	}

	return a.SignIn(ctx, model.Credentials{
		Strategy: strategy,
		Profile:  profile,
	})
}

// Me returns the identity carried by an access token.
func (a *Auth) Me(ctx context.Context, accessToken string) (model.Identity, error) {
	identity, err := a.tokenService.Authenticate(ctx, accessToken)
	if err != nil {
		return model.Identity{}, apierrors.NewErrUnauthorized(err)
	}
	return identity, nil
}

// SignIn resolves creds with the strategy they name and issues a token pair.
func (a *Auth) SignIn(ctx context.Context, creds model.Credentials) (model.TokenPair, error) {
	strategy, ok := a.strategies[creds.Strategy]
	if !ok {
		return model.TokenPair{}, apierrors.NewErrInvalidArgument([]apierrors.FieldError{
			{Field: "strategy", Message: fmt.Sprintf("unsupported strategy %q", creds.Strategy)},
		})
	}

	a.logger.Debug("Auth service: starting sign-in",
		"strategy", creds.Strategy)

	identity, err := strategy.Resolve(ctx, creds)
	if err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			return model.TokenPair{}, apiErr
		}
		if isCredentialError(err) {
			a.logger.Warn("Auth service: credentials rejected",
				"strategy", creds.Strategy,
				"error", err.Error())
		} else {
			a.logger.Error("Auth service: failed to resolve credentials",
				"strategy", creds.Strategy,
				"error", err.Error())
		}
		return model.TokenPair{}, apierrors.NewErrUnauthorized(err)
	}

	pair, err := a.issue(ctx, identity)
	if err != nil {
		return model.TokenPair{}, err
	}

	a.logger.Info("Auth service: sign-in completed successfully",
		"strategy", creds.Strategy,
		"user_id", identity.UserID)

	return pair, nil
}

func (a *Auth) issue(ctx context.Context, identity model.Identity) (model.TokenPair, error) {
	pair, err := a.tokenService.Issue(ctx, identity)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", identity.UserID,
			"error", err.Error())
		return model.TokenPair{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to issue token: %w", err))
	}
	return pair, nil
}

func isCredentialError(err error) bool {
	for _, target := range []error{
		model.ErrInvalidCredentials,
		model.ErrPasswordNotSet,
		model.ErrInvalidToken,
		model.ErrTokenRevoked,
		model.ErrTokenExpired,
		model.ErrTokenMismatch,
		model.ErrTokenOwner,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
