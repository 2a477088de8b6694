package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/dtroode/auth-server/internal/apierrors"
	"github.com/dtroode/auth-server/internal/logger"
	"github.com/dtroode/auth-server/internal/model"
)

const bearerPrefix = "Bearer "

var errMissingToken = errors.New("missing bearer token")

// Authenticator resolves the identity behind an access token.
type Authenticator interface {
	Me(ctx context.Context, accessToken string) (model.Identity, error)
}

// Authenticate validates bearer tokens and injects the identity into context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the access token and
// returns a context carrying the caller's identity.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 && strings.HasPrefix(authHeaders[0], bearerPrefix) {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeaders[0], bearerPrefix))
		}
	}

	if tokenString == "" {
		m.logger.Debug("Authenticate middleware: no bearer token")
		return nil, apierrors.NewErrUnauthorized(errMissingToken).GRPCStatus().Err()
	}

	identity, err := m.authenticator.Me(ctx, tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"error", err.Error())
		var apiErr *apierrors.APIError
		if !errors.As(err, &apiErr) {
			apiErr = apierrors.NewErrUnauthorized(err)
		}
		return nil, apiErr.GRPCStatus().Err()
	}

	return m.contextManager.SetIdentityToContext(ctx, identity), nil
}
