package context

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/dtroode/auth-server/internal/model"
)

// CorrelationIDHeader is the metadata key carrying the request correlation id
// in both directions.
const CorrelationIDHeader = "x-correlation-id"

type identityKey struct{}

type correlationIDKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager stores request-scoped values set by interceptors.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext returns a context carrying the authenticated identity.
// Values live in the context itself, never in client-supplied metadata.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentityFromContext returns the identity set by the auth interceptor.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(model.Identity)
	return identity, ok
}

func (m *Manager) SetCorrelationIDToContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationIDFromContext returns the correlation id or "" when none was set.
func (m *Manager) GetCorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// CorrelationIDFromMetadata reads the correlation id from request or
// response metadata.
func CorrelationIDFromMetadata(md metadata.MD) (string, bool) {
	ids := md.Get(CorrelationIDHeader)
	if len(ids) == 0 || ids[0] == "" {
		return "", false
	}
	return ids[0], true
}
