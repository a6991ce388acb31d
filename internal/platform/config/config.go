// Package config loads the fuel quote service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	DefaultDBMaxOpenConns = 10
	DefaultDBMaxIdleConns = 5

	DefaultRateLimitRPS   = 10
	DefaultRateLimitBurst = 20

	// DefaultConfigDir is where Load looks for YAML files.
	DefaultConfigDir = "configs"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Pricing engines.
const (
	EngineLocal  = "local"
	EngineRemote = "remote"
)

// Auth modes.
const (
	AuthModeHeader = "header"
	AuthModeJWT    = "jwt"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"        validate:"required"`
	Server    ServerConfig    `koanf:"server"     validate:"required"`
	Log       LogConfig       `koanf:"log"        validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"       validate:"required"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Client    ClientConfig    `koanf:"client"     validate:"required"`
	Database  DatabaseConfig  `koanf:"database"   validate:"required"`
	Pricing   PricingConfig   `koanf:"pricing"    validate:"required"`
	Quotes    QuotesConfig    `koanf:"quotes"`
	Features  FeaturesConfig  `koanf:"features"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig selects how callers are identified. In header mode a gateway
// has already authenticated the caller and forwards the user id; in jwt mode
// the service verifies an HS256 bearer token itself.
type AuthConfig struct {
	Mode          string        `koanf:"mode"           validate:"required,oneof=header jwt"`
	JWTSecret     string        `koanf:"jwt_secret"     validate:"required_if=Mode jwt,omitempty,min=32"`
	Issuer        string        `koanf:"issuer"`
	Audience      string        `koanf:"audience"`
	TokenTTL      time.Duration `koanf:"token_ttl"      validate:"required,min=1m"`
	SubjectHeader string        `koanf:"subject_header" validate:"required_if=Mode header"`
}

// RateLimitConfig bounds per-caller request rates on the API.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"required_if=Enabled true,omitempty,gt=0"`
	Burst             int     `koanf:"burst"               validate:"required_if=Enabled true,omitempty,min=1"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// DatabaseConfig selects and tunes the quote store.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=memory postgres"`
	DSN             string        `koanf:"dsn"               validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	MigrateOnStart  bool          `koanf:"migrate_on_start"`
}

// PricingConfig selects the pricing engine and holds the margin factors.
type PricingConfig struct {
	Engine               string                `koanf:"engine"                 validate:"required,oneof=local remote"`
	BasePrice            float64               `koanf:"base_price"             validate:"gt=0"`
	HomeState            string                `koanf:"home_state"             validate:"omitempty,len=2"`
	InStateFactor        float64               `koanf:"in_state_factor"        validate:"min=0,max=1"`
	OutOfStateFactor     float64               `koanf:"out_of_state_factor"    validate:"min=0,max=1"`
	HistoryFactor        float64               `koanf:"history_factor"         validate:"min=0,max=1"`
	BulkThresholdGallons int64                 `koanf:"bulk_threshold_gallons" validate:"min=1"`
	BulkFactor           float64               `koanf:"bulk_factor"            validate:"min=0,max=1"`
	StandardFactor       float64               `koanf:"standard_factor"        validate:"min=0,max=1"`
	ProfitFactor         float64               `koanf:"profit_factor"          validate:"min=0,max=1"`
	Scale                int32                 `koanf:"scale"                  validate:"min=0,max=4"`
	Remote               ServiceEndpointConfig `koanf:"remote"`
}

// ServiceEndpointConfig describes a downstream HTTP service.
type ServiceEndpointConfig struct {
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	Name    string `koanf:"name"`
}

// QuotesConfig holds quote submission rules.
type QuotesConfig struct {
	// Timezone decides which calendar day counts as "today" for delivery dates.
	Timezone string `koanf:"timezone" validate:"required"`
}

// FeaturesConfig holds static feature flag values.
type FeaturesConfig struct {
	Enabled map[string]bool `koanf:"enabled"`
	Values  map[string]int  `koanf:"values"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "fuelquote",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "15s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/fuelquote.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "fuelquote",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.mode":           AuthModeHeader,
		"auth.jwt_secret":     "",
		"auth.issuer":         "fuelquote",
		"auth.audience":       "fuelquote-api",
		"auth.token_ttl":      "1h",
		"auth.subject_header": "X-User-ID",

		"rate_limit.enabled":             true,
		"rate_limit.requests_per_second": DefaultRateLimitRPS,
		"rate_limit.burst":               DefaultRateLimitBurst,

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"database.driver":            DriverMemory,
		"database.dsn":               "",
		"database.max_open_conns":    DefaultDBMaxOpenConns,
		"database.max_idle_conns":    DefaultDBMaxIdleConns,
		"database.conn_max_lifetime": "30m",
		"database.migrate_on_start":  true,

		"pricing.engine":                 EngineLocal,
		"pricing.base_price":             1.50,
		"pricing.home_state":             "TX",
		"pricing.in_state_factor":        0.02,
		"pricing.out_of_state_factor":    0.04,
		"pricing.history_factor":         0.01,
		"pricing.bulk_threshold_gallons": 1000,
		"pricing.bulk_factor":            0.02,
		"pricing.standard_factor":        0.03,
		"pricing.profit_factor":          0.10,
		"pricing.scale":                  4,
		"pricing.remote.base_url":        "",
		"pricing.remote.name":            "pricing-service",

		"quotes.timezone": "America/Chicago",

		"features.enabled.verify-submitted-price": true,
		"features.enabled.pricing-fallback-local": true,
		"features.values.history-page-size":       20,
	}
}

// Load loads configuration from DefaultConfigDir. Precedence, highest first:
//  1. Environment variables (APP_ prefix)
//  2. Profile config file ({dir}/{profile}.yaml)
//  3. Base config file ({dir}/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadFrom(DefaultConfigDir, profile)
}

// LoadFrom loads configuration from the given directory.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, filepath.Join(dir, "base.yaml")); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml")); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := k.Load(env.Provider("APP_", ".", envKeyMapper(k)), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_DATABASE_MAX_OPEN_CONNS onto the known key
// database.max_open_conns. Unknown names nest on double underscores.
func envKeyMapper(k *koanf.Koanf) func(string) string {
	known := make(map[string]string)
	for _, key := range k.Keys() {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := known[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "__", ".")
	}
}

// loadFileIfExists loads a YAML file, ignoring a missing one.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
