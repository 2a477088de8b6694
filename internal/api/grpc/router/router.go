package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/dtroode/auth-server/internal/api/grpc/codec"
	"github.com/dtroode/auth-server/internal/api/grpc/handler"
	"github.com/dtroode/auth-server/internal/api/grpc/middleware"
	"github.com/dtroode/auth-server/internal/logger"
	"github.com/dtroode/auth-server/internal/model"
)

// AuthService is the authentication surface served over gRPC.
type AuthService interface {
	handler.AuthService
	middleware.Authenticator
}

// BuildInfo is reported by the Meta service.
type BuildInfo struct {
	Version     string
	Environment string
}

// Router builds the gRPC server with every service and interceptor.
type Router struct {
	authService    AuthService
	contextManager model.ContextManager
	buildInfo      BuildInfo
	logger         *logger.Logger
	health         *health.Server
}

// New creates new gRPC Router instance.
func New(
	authService AuthService,
	contextManager model.ContextManager,
	buildInfo BuildInfo,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		contextManager: contextManager,
		buildInfo:      buildInfo,
		logger:         logger,
		health:         health.NewServer(),
	}
}

// authRequired selects the methods that need a bearer access token.
func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return c.FullMethod() == handler.AuthMeFullMethod
}

// Register registers all gRPC services and middleware and returns the
// configured server.
func (r *Router) Register() *grpc.Server {
	recoverer := middleware.NewRecovery(r.logger)
	correlation := middleware.NewCorrelation(r.contextManager)
	logging := middleware.NewLogging(r.logger, r.contextManager)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(recoverer.HandlePanic)),
			correlation.HandleGRPC,
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)
	r.registerAuthRoutes(s)
	r.registerMetaRoutes(s)
	r.registerHealth(s)

	return s
}

// Shutdown marks every service as not serving so health probes fail
// before the listener closes.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	handler.RegisterAuthServer(server, authHandler)
}

func (r *Router) registerMetaRoutes(server *grpc.Server) {
	metaHandler := handler.NewMeta(r.buildInfo.Version, r.buildInfo.Environment, r.contextManager)
	handler.RegisterMetaServer(server, metaHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, r.health)
	r.health.SetServingStatus(handler.AuthServiceName, healthpb.HealthCheckResponse_SERVING)
	r.health.SetServingStatus(handler.MetaServiceName, healthpb.HealthCheckResponse_SERVING)
}
