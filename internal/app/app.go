package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/godilite/feedback-metrics/internal/analyzer"
	"github.com/godilite/feedback-metrics/internal/config"
	handler "github.com/godilite/feedback-metrics/internal/grpc"
	"github.com/godilite/feedback-metrics/internal/insights"
	"github.com/godilite/feedback-metrics/internal/normalizer"
	"github.com/godilite/feedback-metrics/internal/repository"
	"github.com/godilite/feedback-metrics/internal/service"
	"github.com/godilite/feedback-metrics/pkg/cache"
	dbbuilder "github.com/godilite/feedback-metrics/pkg/database"
	grpcsrv "github.com/godilite/feedback-metrics/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      handler.Cacher
	grpcServer *grpcsrv.Server
}

// NewApp wires storage, cache, the analysis backend, the insight generator
// and the gRPC server from cfg.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...grpcsrv.Option) (*App, error) {
	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	analysisRepo := repository.NewAnalysisRepository(dbPool)
	if err := analysisRepo.Migrate(ctx); err != nil {
		_ = dbPool.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	cacheClient, err := newCache(ctx, cfg, logger)
	if err != nil {
		_ = dbPool.Close()
		return nil, fmt.Errorf("cache init failed: %w", err)
	}

	backend, err := analyzer.New(
		analyzer.WithURL(cfg.AnalyzerURL),
		analyzer.WithTimeout(cfg.AnalyzerTimeout),
		analyzer.WithLogger(logger),
	)
	if err != nil {
		_ = cacheClient.Close()
		_ = dbPool.Close()
		return nil, fmt.Errorf("analyzer init failed: %w", err)
	}

	normOpts := []normalizer.Option{normalizer.WithLogger(logger)}
	if cfg.JitterSeed != 0 {
		normOpts = append(normOpts, normalizer.WithSeed(cfg.JitterSeed))
	}

	dashboard := service.NewDashboardService(service.Dependencies{
		Repository:     analysisRepo,
		Analyzer:       backend,
		Insights:       insights.NewGenerator(cfg.InsightProvider, cfg.InsightModel, logger),
		Normalizer:     normalizer.New(normOpts...),
		Logger:         logger,
		MaxUploadBytes: cfg.UploadMaxBytes,
	})

	grpcHandlers := handler.NewGRPCHandlers(dashboard, cacheClient, logger, cfg.CacheTTL)

	serverOpts := []grpcsrv.Option{
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRecovery(true),
		grpcsrv.WithMaxRecvMsgSize(maxRecvMsgSize(cfg.UploadMaxBytes)),
	}
	grpcServer, err := grpcsrv.New(append(serverOpts, opts...)...)
	if err != nil {
		_ = cacheClient.Close()
		_ = dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(handler.ServiceName, func(s *grpc.Server) {
		handler.RegisterFeedbackMetricsServer(s, grpcHandlers)
	})

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
	}, nil
}

// newCache connects to redis, or falls back to an in-process cache when no
// address is configured.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (handler.Cacher, error) {
	if cfg.RedisAddr == "" || cfg.RedisAddr == "memory" {
		logger.Info("Using in-memory cache")
		return cache.NewMemory(), nil
	}

	c, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
	if err != nil {
		return nil, err
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	return c, nil
}

// maxRecvMsgSize leaves room for base64 expansion of the largest upload.
func maxRecvMsgSize(uploadMaxBytes int64) int {
	return int(uploadMaxBytes/3*4) + 1<<20
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return a.Shutdown(ctx)
}

// Shutdown stops the server and releases the cache and database.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.grpcServer.Shutdown(ctx)
	if err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}

	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("cache shutdown error", zap.Error(cerr))
	}
	if derr := a.dbPool.Close(); derr != nil {
		a.logger.Error("database shutdown error", zap.Error(derr))
	}

	if err == nil {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return err
}

// Start serves in the background. Used by tests that drive the app directly.
func (a *App) Start() {
	a.grpcServer.Start()
}
