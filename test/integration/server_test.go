//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	fqhttp "github.com/jsamuelsen/fuelquote/internal/adapters/http"
	"github.com/jsamuelsen/fuelquote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/fuelquote/internal/adapters/storage/memory"
	"github.com/jsamuelsen/fuelquote/internal/app"
	"github.com/jsamuelsen/fuelquote/internal/domain/pricing"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
	"github.com/jsamuelsen/fuelquote/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startService serves the full API over in-memory stores with header auth
// and returns its base URL.
func startService(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := discardLogger()
	quotes := memory.NewQuoteStore()
	profiles := memory.NewProfileStore()

	registry := ports.NewHealthRegistry()
	if err := registry.Register(memory.HealthChecker{}); err != nil {
		t.Fatal(err)
	}

	srv := fqhttp.New(&config.ServerConfig{
		Host:            "127.0.0.1",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		RequestTimeout:  5 * time.Second,
		MaxRequestSize:  1 << 20,
	}, logger)

	fqhttp.SetupRouter(srv.Engine(), fqhttp.RouterConfig{
		AppConfig:     &config.AppConfig{Name: "fuelquote-it", Version: "test", Environment: "test"},
		ServerConfig:  srv.Config(),
		AuthConfig:    &config.AuthConfig{Mode: config.AuthModeHeader, SubjectHeader: "X-User-ID", TokenTTL: time.Hour},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "")),
		QuoteHandler: handlers.NewQuoteHandler(app.NewQuoteService(app.QuoteServiceConfig{
			Quotes:   quotes,
			Profiles: profiles,
			Pricing:  pricing.NewMarginEngine(pricing.DefaultFactors()),
			Logger:   logger,
		})),
		ProfileHandler: handlers.NewProfileHandler(app.NewProfileService(profiles, logger)),
	})

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)

	return ts.URL
}
