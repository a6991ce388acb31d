// Package flags evaluates feature flags from static configuration.
package flags

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/fuelquote/internal/platform/config"
)

// Static implements ports.FeatureFlags over the features section of the
// configuration. Unknown flags resolve to the caller's default.
type Static struct {
	enabled map[string]bool
	values  map[string]int

	logger *slog.Logger
	warned sync.Map
}

// NewStatic creates flags from configuration.
func NewStatic(cfg config.FeaturesConfig, logger *slog.Logger) *Static {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Static{
		enabled: make(map[string]bool, len(cfg.Enabled)),
		values:  make(map[string]int, len(cfg.Values)),
		logger:  logger,
	}

	for k, v := range cfg.Enabled {
		s.enabled[k] = v
	}

	for k, v := range cfg.Values {
		s.values[k] = v
	}

	return s
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	if v, ok := s.enabled[flag]; ok {
		return v
	}

	s.unknown(ctx, flag)

	return defaultValue
}

// GetInt implements ports.FeatureFlags.
func (s *Static) GetInt(ctx context.Context, flag string, defaultValue int) int {
	if v, ok := s.values[flag]; ok {
		return v
	}

	s.unknown(ctx, flag)

	return defaultValue
}

// unknown logs the first lookup of an unconfigured flag.
func (s *Static) unknown(ctx context.Context, flag string) {
	if _, seen := s.warned.LoadOrStore(flag, struct{}{}); !seen {
		s.logger.DebugContext(ctx, "feature flag not configured, using default", slog.String("flag", flag))
	}
}
