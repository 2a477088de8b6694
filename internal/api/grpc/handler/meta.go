package handler

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/dtroode/auth-server/internal/model"
)

var _ MetaServer = (*Meta)(nil)

// Meta serves build and liveness information.
type Meta struct {
	version        string
	environment    string
	contextManager model.ContextManager
	now            func() time.Time
}

func NewMeta(version, environment string, contextManager model.ContextManager) *Meta {
	return &Meta{
		version:        version,
		environment:    environment,
		contextManager: contextManager,
		now:            time.Now,
	}
}

func (h *Meta) Version(_ context.Context, _ *Empty) (*VersionResponse, error) {
	return &VersionResponse{
		Version:     h.version,
		Environment: h.environment,
	}, nil
}

func (h *Meta) Status(ctx context.Context, _ *Empty) (*StatusResponse, error) {
	resp := &StatusResponse{
		Status:        "ok",
		Version:       h.version,
		Time:          h.now().UTC().Format(time.RFC3339),
		CorrelationID: h.contextManager.GetCorrelationIDFromContext(ctx),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		resp.TraceID = sc.TraceID().String()
	}
	return resp, nil
}
