package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"seasonpulse/internal/aggregation"
	"seasonpulse/internal/basket"
	"seasonpulse/internal/config"
	"seasonpulse/internal/infrastructure"
	"seasonpulse/internal/pattern"
	"seasonpulse/internal/persistence"
	"seasonpulse/internal/persistence/postgres"
	"seasonpulse/internal/persistence/rediscache"
	"seasonpulse/internal/services"
	"seasonpulse/internal/stats"
	transport "seasonpulse/internal/transport/http"
	"seasonpulse/pkg/contracts"
)

// startupTimeout bounds dependency dialing and schema migration at boot.
const startupTimeout = 30 * time.Second

// Application holds all wired components of the SeasonPulse server.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server

	db    *sqlx.DB
	cache *redis.Client
	otel  *infrastructure.OTelProviders
}

// NewApplication loads configuration and wires every component. The
// returned application owns its resources until Stop.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	otelProviders, err := infrastructure.InitializeOTel(logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	var snapshotCache persistence.SnapshotCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = rediscache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		snapshotCache = rediscache.New(redisClient, logger)
	} else {
		logger.Warn("snapshot cache disabled, statistics recompute on every request")
	}

	timeout := cfg.Database.QueryTimeout
	barRepo := postgres.NewBarRepo(db, timeout)
	timeframeRepo := postgres.NewTimeframeRepo(db, timeout, logger)
	patternRepo := postgres.NewPatternRepo(db, timeout)
	politicalRepo := postgres.NewPoliticalRepo(db, timeout)

	pipeline := services.NewPipelineService(
		barRepo, timeframeRepo, patternRepo,
		aggregation.NewAggregator(logger),
		pattern.NewAnalyzer(logger),
		otelProviders.Metrics,
		logger,
		cfg.Pipeline.Concurrency,
	)
	statistics := services.NewStatisticsService(
		timeframeRepo, patternRepo, snapshotCache,
		stats.NewEngine(logger, stats.EngineConfig{RiskFreeRate: cfg.Pipeline.RiskFreeRate}),
		logger, cfg.Pipeline.SnapshotTTL,
	)
	baskets := basket.NewAnalyzer(patternRepo, politicalRepo, logger)

	router := transport.NewRouter(cfg, logger, transport.RouterDeps{
		Seasonality: transport.NewSeasonalityHandler(timeframeRepo, patternRepo, statistics, logger),
		Basket:      transport.NewBasketHandler(baskets, cfg.Pipeline.BasketMaxSymbols, logger),
		Pipeline:    transport.NewPipelineHandler(pipeline, logger),
		Metrics:     otelProviders.PrometheusHTTP,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config: cfg,
		Logger: logger,
		Server: server,
		db:     db,
		cache:  redisClient,
		otel:   otelProviders,
	}, nil
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("version", contracts.Version))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		a.Logger.Info("shutdown signal received",
			slog.String("signal", sig.String()))
	}

	return a.Stop(context.Background())
}

// Stop shuts the server down and releases all resources.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
		firstErr = err
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.otel.Shutdown(shutdownCtx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}

	a.Logger.Info("shutdown complete")
	return firstErr
}
