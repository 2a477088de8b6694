package model

import "context"

// ContextManager stores request-scoped values set by interceptors.
type ContextManager interface {
	SetIdentityToContext(ctx context.Context, identity Identity) context.Context
	GetIdentityFromContext(ctx context.Context) (Identity, bool)
	SetCorrelationIDToContext(ctx context.Context, id string) context.Context
	GetCorrelationIDFromContext(ctx context.Context) string
}
