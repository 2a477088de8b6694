package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/auth-server/internal/logger"
	"github.com/dtroode/auth-server/internal/model"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger         *logger.Logger
	contextManager model.ContextManager
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger, contextManager model.ContextManager) *Logging {
	return &Logging{logger: logger, contextManager: contextManager}
}

// HandleGRPC logs method name, duration, status and correlation id for each
// unary request.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	log := l.logger.With(
		"method", info.FullMethod,
		"correlation_id", l.contextManager.GetCorrelationIDFromContext(ctx),
	)

	log.Debug("gRPC request started")

	resp, err := handler(ctx, req)

	statusCode := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			statusCode = st.Code()
		} else {
			statusCode = codes.Internal
		}
	}

	args := []any{
		"duration_ms", time.Since(start).Milliseconds(),
		"status", statusCode.String(),
	}

	switch statusCode {
	case codes.OK:
		log.Info("gRPC request completed", args...)
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
		log.Error("gRPC request failed", append(args, "error", err.Error())...)
	default:
		log.Warn("gRPC request rejected", append(args, "error", err.Error())...)
	}

	return resp, err
}
