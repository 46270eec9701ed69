package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/array/applications-console/internal/cache"
	"github.com/array/applications-console/internal/config"
	"github.com/array/applications-console/internal/database"
	"github.com/array/applications-console/internal/handlers"
	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/array/applications-console/internal/metrics"
	"github.com/array/applications-console/internal/repositories"
	"github.com/array/applications-console/internal/router"
	"github.com/array/applications-console/internal/services"
	"github.com/array/applications-console/internal/validation"
	"github.com/array/applications-console/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	m := metrics.New("console")

	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.AutoMigrate(); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	if err := db.CreateIndexes(); err != nil {
		logger.Warn("Failed to create indexes", "error", err)
	}

	var appCache *cache.Client
	if cfg.Redis.Enabled {
		appCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL,
			cache.WithLogger(logger),
			cache.WithPrefix("console:"),
			cache.WithObserver(m.CacheHit, m.CacheMiss),
		)
		defer appCache.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := appCache.Ping(pingCtx); err != nil {
			logger.Warn("Redis unavailable, serving without cache", "error", err)
		}
		cancel()
	}

	client := accountapi.NewClient(cfg.Upstream.BaseURL,
		accountapi.WithAPIKey(cfg.Upstream.APIKey),
		accountapi.WithTimeout(cfg.Upstream.Timeout),
		accountapi.WithRetry(cfg.Upstream.MaxRetries, cfg.Upstream.RetryInitialBackoffMs),
		accountapi.WithMetrics(m),
		accountapi.WithValidator(validation.GetValidator().GetValidate()),
	)

	snapshotRepo := repositories.NewAnalyticsSnapshotRepository(db.DB)
	appService := services.NewApplicationService(client, appCache, cfg.Analytics.PageSize, logger)
	analyticsService := services.NewAnalyticsService(appService, client, snapshotRepo, cfg.Analytics.ClampDiversity, m, logger)

	e := router.New(cfg, router.Handlers{
		Applications: handlers.NewApplicationHandler(appService),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
		Health:       handlers.NewHealthHandler(db, appCache),
	}, m, logger)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Analytics.SnapshotEnabled {
		scheduler := worker.NewScheduler(analyticsService, cfg.Analytics.SnapshotInterval, cfg.Analytics.SnapshotRetention, logger)
		go scheduler.Start(ctx)
	}

	go func() {
		logger.Info("Starting applications console",
			"addr", cfg.Addr(),
			"environment", cfg.Server.Environment,
			"upstream", cfg.Upstream.BaseURL,
			"auth_enabled", cfg.Security.AuthEnabled,
		)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	format := strings.ToLower(cfg.Logging.Format)
	if format == "" && cfg.IsProduction() {
		format = "json"
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
