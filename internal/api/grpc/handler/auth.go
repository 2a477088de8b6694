package handler

import (
	"context"

	"github.com/dtroode/auth-server/internal/apierrors"
	"github.com/dtroode/auth-server/internal/logger"
	"github.com/dtroode/auth-server/internal/model"
)

// AuthService defines registration, sign-in and session operations.
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.TokenPair, error)
	Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

var _ AuthServer = (*Auth)(nil)

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates a password account and returns its first token pair.
func (h *Auth) Register(ctx context.Context, req *RegisterRequest) (*TokenPairResponse, error) {
	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	pair, err := h.authService.Register(ctx, model.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: registration completed",
		"email", req.Email)

	return toTokenPairResponse(pair), nil
}

// Login verifies email and password.
func (h *Auth) Login(ctx context.Context, req *LoginRequest) (*TokenPairResponse, error) {
	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	pair, err := h.authService.Login(ctx, model.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: login completed",
		"email", req.Email)

	return toTokenPairResponse(pair), nil
}

// Refresh exchanges a refresh token for a new pair.
func (h *Auth) Refresh(ctx context.Context, req *RefreshTokenRequest) (*TokenPairResponse, error) {
	h.logger.Debug("Auth handler: processing token refresh request")

	pair, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: token refresh successful")

	return toTokenPairResponse(pair), nil
}

// Logout revokes a refresh token.
func (h *Auth) Logout(ctx context.Context, req *RefreshTokenRequest) (*Empty, error) {
	h.logger.Debug("Auth handler: processing logout request")

	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		h.logger.Error("Auth handler: logout failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: logout successful")

	return &Empty{}, nil
}

// Me returns the identity established by the authentication interceptor.
func (h *Auth) Me(ctx context.Context, _ *Empty) (*MeResponse, error) {
	identity, ok := h.contextManager.GetIdentityFromContext(ctx)
	if !ok {
		return nil, handleError(apierrors.NewErrUnauthorized(nil))
	}

	return &MeResponse{
		UserID: identity.UserID.String(),
		Email:  identity.Email,
	}, nil
}

func toTokenPairResponse(pair model.TokenPair) *TokenPairResponse {
	return &TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
