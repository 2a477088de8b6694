package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/auth-server/internal/api/grpc/context"
	"github.com/dtroode/auth-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/auth-server/internal/api/grpc/server"
	"github.com/dtroode/auth-server/internal/config"
	"github.com/dtroode/auth-server/internal/logger"
	"github.com/dtroode/auth-server/internal/model"
	"github.com/dtroode/auth-server/internal/password"
	"github.com/dtroode/auth-server/internal/repository/memory"
	"github.com/dtroode/auth-server/internal/repository/postgres"
	"github.com/dtroode/auth-server/internal/server"
	"github.com/dtroode/auth-server/internal/service"
	"github.com/dtroode/auth-server/internal/telemetry"
	"github.com/dtroode/auth-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type stores struct {
	users         model.UserStore
	refreshTokens model.RefreshTokenStore
	close         func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)
	if cfg.UsesDefaultSecrets() {
		logger.Warn("using development token secrets", "environment", cfg.App.Environment)
	}

	version := cfg.App.Version
	if buildVersion != "N/A" {
		version = buildVersion
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName, version)
	if err != nil {
		logger.Fatal("failed to initialize telemetry", "error", err)
	}

	st, err := newStores(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	hasher := password.NewArgon2(password.KDFParams{
		Time:   cfg.KDF.Time,
		MemKiB: cfg.KDF.MemKiB,
		Par:    cfg.KDF.Par,
	})
	tokenManager := token.NewJWT(token.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshSecret: cfg.JWT.RefreshSecret,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})

	authService := service.NewAuth(st.users, st.refreshTokens, logger, tokenManager, hasher)
	ctxMgr := grpcctx.NewManager()

	r := router.New(authService, ctxMgr, router.BuildInfo{
		Version:     version,
		Environment: cfg.App.Environment,
	}, logger)
	s := r.Register()
	reflection.Register(s)

	grpcServer := grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port))
	sl := server.NewSecurityLayer(cfg.GRPC)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "tls", cfg.GRPC.EnableHTTPS)
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	r.Shutdown()
	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}

	wg.Wait()

	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}
	logger.Info("shutdown complete")
}

func newStores(ctx context.Context, cfg config.Database, logger *logger.Logger) (stores, error) {
	if cfg.InMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return stores{
			users:         memory.NewUserRepository(),
			refreshTokens: memory.NewRefreshTokenRepository(),
			close:         func() error { return nil },
		}, nil
	}

	db, err := postgres.NewConection(ctx, cfg.DSN)
	if err != nil {
		return stores{}, err
	}

	return stores{
		users:         postgres.NewUserRepository(db),
		refreshTokens: postgres.NewRefreshTokenRepository(db),
		close:         db.Close,
	}, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
