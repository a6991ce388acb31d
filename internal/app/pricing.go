package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/fuelquote/internal/domain"
	"github.com/jsamuelsen/fuelquote/internal/platform/metrics"
	"github.com/jsamuelsen/fuelquote/internal/ports"
)

// FallbackPricer asks the primary engine first and, when it is unavailable and
// the pricing-fallback-local flag is on, prices with the fallback engine.
type FallbackPricer struct {
	primary  ports.PricingEngine
	fallback ports.PricingEngine
	flags    ports.FeatureFlags
	logger   *slog.Logger
}

// NewFallbackPricer wires a primary and a fallback engine.
func NewFallbackPricer(primary, fallback ports.PricingEngine, flags ports.FeatureFlags, logger *slog.Logger) *FallbackPricer {
	if logger == nil {
		logger = slog.Default()
	}

	return &FallbackPricer{primary: primary, fallback: fallback, flags: flags, logger: logger}
}

// Compute implements ports.PricingEngine.
func (p *FallbackPricer) Compute(ctx context.Context, req domain.PriceRequest) (domain.Price, error) {
	price, err := p.primary.Compute(ctx, req)
	if err == nil || !domain.IsUnavailable(err) {
		return price, err
	}

	if p.flags == nil || !p.flags.IsEnabled(ctx, ports.FlagPricingFallbackLocal, true) {
		return price, err
	}

	p.logger.WarnContext(ctx, "primary pricing engine unavailable, pricing locally",
		slog.Any("error", err),
	)
	metrics.PricingFellBack()

	return p.fallback.Compute(ctx, req)
}
