package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/fuelquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
	"github.com/jsamuelsen/fuelquote/internal/platform/telemetry"
)

// RouterConfig contains the handlers and settings the router is built from.
type RouterConfig struct {
	AppConfig       *config.AppConfig
	ServerConfig    *config.ServerConfig
	AuthConfig      *config.AuthConfig
	RateLimitConfig *config.RateLimitConfig

	HealthHandler  *handlers.HealthHandler
	QuoteHandler   *handlers.QuoteHandler
	ProfileHandler *handlers.ProfileHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and request metrics
//  5. Logging (skips /-/)
//
// The /api/v1 group adds, in order, the request timeout, authentication and
// the per-caller rate limit. Internal /-/ endpoints need no auth.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(middleware.Recovery(), middleware.RequestID(), middleware.CorrelationID())
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")

	if cfg.ServerConfig != nil && cfg.ServerConfig.RequestTimeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.ServerConfig.RequestTimeout))
	}

	apiV1.Use(middleware.RequireAuth(cfg.AuthConfig))

	if rl := cfg.RateLimitConfig; rl != nil && rl.Enabled {
		apiV1.Use(middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst).Handler())
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}

	if cfg.ProfileHandler != nil {
		cfg.ProfileHandler.RegisterProfileRoutes(apiV1)
	}
}
