package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/radiusdt/vector-insights/internal/config"
	"github.com/radiusdt/vector-insights/internal/database"
	"github.com/radiusdt/vector-insights/internal/httpserver"
	"github.com/radiusdt/vector-insights/internal/metrics"
	"github.com/radiusdt/vector-insights/internal/middleware"
	"github.com/radiusdt/vector-insights/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	defer logger.Sync()

	logger.Info("starting Vector-Insights",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Server.Addr),
	)

	m := metrics.NewMetrics("vector_insights")

	ctx := context.Background()

	// Try to connect to PostgreSQL; reports fall back to memory without it.
	db, err := database.NewPostgresDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Warn("PostgreSQL not available, saved reports are in-memory only", zap.Error(err))
		db = nil
	} else {
		defer db.Close()
		if err := storage.NewPostgresReportRepo(db.Pool).Migrate(ctx); err != nil {
			logger.Error("report table migration failed", zap.Error(err))
			db.Close()
			db = nil
		}
	}

	// Try to connect to Redis; without it payloads are recomputed per request.
	redisDB, err := database.NewRedisDB(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis not available, analysis caching disabled", zap.Error(err))
		redisDB = nil
	} else {
		defer redisDB.Close()
	}

	// Warehouse is opt-in.
	var warehouseDB *database.ClickHouseDB
	if cfg.Warehouse.Enabled {
		warehouseDB, err = database.NewClickHouseDB(ctx, cfg.Warehouse, logger)
		if err != nil {
			logger.Warn("ClickHouse not available, warehouse sync disabled", zap.Error(err))
			warehouseDB = nil
		} else {
			defer warehouseDB.Close()
		}
	}

	deps := &httpserver.Dependencies{
		DB:        db,
		Redis:     redisDB,
		Warehouse: warehouseDB,
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
	}

	handler := buildHandler(httpserver.NewServer(deps), cfg, logger, m)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Periodically export connection pool stats.
	if db != nil {
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				stat := db.Stats()
				m.UpdateDBStats(int(stat.IdleConns()), int(stat.AcquiredConns()), int(stat.TotalConns()))
			}
		}()
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// buildHandler wraps the route mux with the middleware chain, outermost
// first: recovery, logging, rate limiting, auth.
func buildHandler(mux http.Handler, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) http.Handler {
	auth := middleware.NewAuthMiddleware(cfg.Auth, logger)
	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimit, logger)
	rateLimit.SetMetrics(m)
	logging := middleware.NewLoggingMiddleware(logger)
	recovery := middleware.NewRecoveryMiddleware(logger)

	handler := auth.Handler(mux)
	handler = rateLimit.Handler(handler)
	handler = logging.Handler(handler)
	handler = recovery.Handler(handler)
	return handler
}

func setupLogger(cfg *config.Config) *zap.Logger {
	var zapCfg zap.Config

	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	switch cfg.Log.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}

	return logger
}
