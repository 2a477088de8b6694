package middleware

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	grpccontext "github.com/dtroode/auth-server/internal/api/grpc/context"
	"github.com/dtroode/auth-server/internal/model"
)

const maxCorrelationIDLength = 128

// Correlation propagates the x-correlation-id header, generating one when
// the caller did not send it, and echoes it in the response header.
type Correlation struct {
	contextManager model.ContextManager
}

func NewCorrelation(contextManager model.ContextManager) *Correlation {
	return &Correlation{contextManager: contextManager}
}

func (c *Correlation) HandleGRPC(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v, ok := grpccontext.CorrelationIDFromMetadata(md); ok && len(v) <= maxCorrelationIDLength {
			id = v
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	ctx = c.contextManager.SetCorrelationIDToContext(ctx, id)
	// fails only outside a real server stream, e.g. in unit tests
	_ = grpc.SetHeader(ctx, metadata.Pairs(grpccontext.CorrelationIDHeader, id))

	return handler(ctx, req)
}
