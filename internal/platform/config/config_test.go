package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues verifies the built-in defaults produce a valid configuration.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "fuelquote", cfg.App.Name)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, EngineLocal, cfg.Pricing.Engine)
	assert.InDelta(t, 1.50, cfg.Pricing.BasePrice, 1e-9)
	assert.Equal(t, "TX", cfg.Pricing.HomeState)
	assert.Equal(t, int64(1000), cfg.Pricing.BulkThresholdGallons)
	assert.Equal(t, AuthModeHeader, cfg.Auth.Mode)
	assert.Equal(t, "X-User-ID", cfg.Auth.SubjectHeader)
	assert.True(t, cfg.Features.Enabled["verify-submitted-price"])
	assert.Equal(t, 20, cfg.Features.Values["history-page-size"])
}

// TestLoad_EnvVarOverrides verifies APP_ variables reach snake_case keys.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "trace")
	t.Setenv("APP_DATABASE_MAX_OPEN_CONNS", "42")
	t.Setenv("APP_PRICING_HOME_STATE", "OK")
	t.Setenv("APP_RATE_LIMIT_ENABLED", "false")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "trace", cfg.Log.Level)
	assert.Equal(t, 42, cfg.Database.MaxOpenConns)
	assert.Equal(t, "OK", cfg.Pricing.HomeState)
	assert.False(t, cfg.RateLimit.Enabled)
}

// TestLoad_ProfileOverridesBase verifies file layering.
func TestLoad_ProfileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
log:
  format: text
pricing:
  base_price: 2.10
`)
	writeFile(t, dir, "prod.yaml", `
log:
  format: json
database:
  driver: postgres
  dsn: postgres://fuel:fuel@db:5432/fuel
`)

	cfg, err := LoadFrom(dir, "prod")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "json", cfg.Log.Format)
	assert.InDelta(t, 2.10, cfg.Pricing.BasePrice, 1e-9)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
}

func TestLoad_MissingProfileIsIgnored(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "fuelquote", cfg.App.Name)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "log: [unclosed")

	_, err := LoadFrom(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

// TestValidate verifies configuration rules, including cross-field ones.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "postgres requires dsn",
			mutate:  func(c *Config) { c.Database.Driver = DriverPostgres },
			wantErr: "database.dsn is required when Driver postgres",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "sqlite" },
			wantErr: "database.driver must be one of: memory postgres",
		},
		{
			name:    "jwt mode requires secret",
			mutate:  func(c *Config) { c.Auth.Mode = AuthModeJWT },
			wantErr: "auth.jwtsecret is required when Mode jwt",
		},
		{
			name: "jwt secret must be long enough",
			mutate: func(c *Config) {
				c.Auth.Mode = AuthModeJWT
				c.Auth.JWTSecret = "short"
			},
			wantErr: "auth.jwtsecret must be at least 32",
		},
		{
			name:    "remote pricing requires base url",
			mutate:  func(c *Config) { c.Pricing.Engine = EngineRemote },
			wantErr: "pricing.remote.base_url is required",
		},
		{
			name:    "home state is two letters",
			mutate:  func(c *Config) { c.Pricing.HomeState = "Texas" },
			wantErr: "pricing.homestate must be exactly 2 characters",
		},
		{
			name:    "base price must be positive",
			mutate:  func(c *Config) { c.Pricing.BasePrice = 0 },
			wantErr: "pricing.baseprice must be greater than 0",
		},
		{
			name:    "scale beyond stored precision",
			mutate:  func(c *Config) { c.Pricing.Scale = 6 },
			wantErr: "pricing.scale must be at most 4",
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Quotes.Timezone = "Mars/Olympus" },
			wantErr: "quotes.timezone",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port must be at most 65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(t.TempDir(), "")
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuotesConfig_Location(t *testing.T) {
	assert.Equal(t, "America/Chicago", QuotesConfig{Timezone: "America/Chicago"}.Location().String())
	assert.Equal(t, time.UTC, QuotesConfig{Timezone: "nope"}.Location())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// TestLoad_ShippedProfiles verifies the files under configs/ load and validate.
func TestLoad_ShippedProfiles(t *testing.T) {
	dir := filepath.Join("..", "..", "..", DefaultConfigDir)

	t.Run("local", func(t *testing.T) {
		cfg, err := LoadFrom(dir, "local")
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "pretty", cfg.Log.Format)
		assert.False(t, cfg.RateLimit.Enabled)
	})

	t.Run("production", func(t *testing.T) {
		t.Setenv("APP_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("APP_DATABASE_DSN", "postgres://fuelquote@db/fuelquote")

		cfg, err := LoadFrom(dir, "production")
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, EngineRemote, cfg.Pricing.Engine)
		assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Auth.JWTSecret)
	})
}
