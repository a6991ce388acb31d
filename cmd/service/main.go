// Package main is the entry point for the fuel quote service.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/fuelquote/internal/adapters/clients"
	"github.com/jsamuelsen/fuelquote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/fuelquote/internal/adapters/flags"
	"github.com/jsamuelsen/fuelquote/internal/adapters/http"
	"github.com/jsamuelsen/fuelquote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/fuelquote/internal/adapters/storage/memory"
	"github.com/jsamuelsen/fuelquote/internal/adapters/storage/postgres"
	"github.com/jsamuelsen/fuelquote/internal/app"
	"github.com/jsamuelsen/fuelquote/internal/domain/pricing"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
	"github.com/jsamuelsen/fuelquote/internal/platform/logging"
	"github.com/jsamuelsen/fuelquote/internal/platform/metrics"
	"github.com/jsamuelsen/fuelquote/internal/platform/telemetry"
	"github.com/jsamuelsen/fuelquote/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Database.Driver),
		slog.String("pricing_engine", cfg.Pricing.Engine),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,

		Store:         cfg.Database.Driver,
		PricingEngine: cfg.Pricing.Engine,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Open the quote and profile stores
	stores, err := openStores(ctx, cfg, healthRegistry)
	if err != nil {
		return err
	}
	defer stores.Close()

	// 7. Build the pricing engine, remote with local fallback when configured
	featureFlags := flags.NewStatic(cfg.Features, logger)

	engine, err := newPricingEngine(cfg, featureFlags, healthRegistry, logger)
	if err != nil {
		return err
	}

	// 8. Create application services
	executor := app.NewExecutor(logger, func(operation string, step app.ExecutionStep, took time.Duration, err error) {
		metrics.StepCompleted(operation, string(step), took, err != nil)
	})

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Quotes:    stores.quotes,
		Profiles:  stores.profiles,
		Pricing:   engine,
		Flags:     featureFlags,
		Validator: app.NewQuoteValidator(app.WithLocation(cfg.Quotes.Location())),
		Executor:  executor,
		Logger:    logger,
	})
	profileService := app.NewProfileService(stores.profiles, logger)

	// 9. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)

	// 10. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		AppConfig:       &cfg.App,
		ServerConfig:    &cfg.Server,
		AuthConfig:      &cfg.Auth,
		RateLimitConfig: &cfg.RateLimit,
		HealthHandler:   healthHandler,
		QuoteHandler:    handlers.NewQuoteHandler(quoteService),
		ProfileHandler:  handlers.NewProfileHandler(profileService),
	})

	// 11. Start server (non-blocking)
	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	// 12. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// storeSet holds the repositories and whatever must be closed with them.
type storeSet struct {
	quotes   ports.QuoteRepository
	profiles ports.ProfileRepository
	closer   io.Closer
}

func (s *storeSet) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func openStores(ctx context.Context, cfg *config.Config, registry ports.HealthRegistry) (*storeSet, error) {
	if cfg.Database.Driver == config.DriverMemory {
		if err := registry.Register(memory.HealthChecker{}); err != nil {
			return nil, fmt.Errorf("registering store health check: %w", err)
		}

		return &storeSet{quotes: memory.NewQuoteStore(), profiles: memory.NewProfileStore()}, nil
	}

	db, err := postgres.Open(ctx, postgres.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	if err := registry.Register(postgres.NewHealthChecker(db)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registering store health check: %w", err)
	}

	return &storeSet{
		quotes:   postgres.NewQuoteStore(db),
		profiles: postgres.NewProfileStore(db),
		closer:   db,
	}, nil
}

func newPricingEngine(
	cfg *config.Config,
	featureFlags ports.FeatureFlags,
	registry ports.HealthRegistry,
	logger *slog.Logger,
) (ports.PricingEngine, error) {
	local := pricing.NewMarginEngine(marginFactors(cfg.Pricing))
	if cfg.Pricing.Engine != config.EngineRemote {
		return local, nil
	}

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Pricing.Remote.BaseURL,
		ServiceName: cfg.Pricing.Remote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating pricing client: %w", err)
	}

	remote := acl.NewPricingClient(httpClient, cfg.Pricing.Remote.Name)
	if err := registry.Register(remote); err != nil {
		return nil, fmt.Errorf("registering pricing health check: %w", err)
	}

	return app.NewFallbackPricer(remote, local, featureFlags, logger), nil
}

func marginFactors(c config.PricingConfig) pricing.Factors {
	return pricing.Factors{
		BasePrice:            decimalOf(c.BasePrice),
		HomeState:            c.HomeState,
		InStateFactor:        decimalOf(c.InStateFactor),
		OutOfStateFactor:     decimalOf(c.OutOfStateFactor),
		HistoryFactor:        decimalOf(c.HistoryFactor),
		BulkThresholdGallons: c.BulkThresholdGallons,
		BulkFactor:           decimalOf(c.BulkFactor),
		StandardFactor:       decimalOf(c.StandardFactor),
		ProfitFactor:         decimalOf(c.ProfitFactor),
		Scale:                c.Scale,
	}
}

// decimalOf converts a configured factor. NewFromFloat keeps the shortest
// decimal form, so 0.02 stays 0.02.
func decimalOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serverErr:
		if !ok {
			return nil
		}

		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
