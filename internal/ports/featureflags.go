package ports

import (
	"context"
)

// Flags consulted by the quote service.
const (
	// FlagVerifySubmittedPrice rejects submissions whose prices differ from the engine's.
	FlagVerifySubmittedPrice = "verify-submitted-price"

	// FlagPricingFallbackLocal prices locally when the remote engine is unavailable.
	FlagPricingFallbackLocal = "pricing-fallback-local"

	// FlagHistoryPageSize overrides the default page size of quote history.
	FlagHistoryPageSize = "history-page-size"
)

// FeatureFlags evaluates feature flags. Implementations must fall back to the
// supplied default when a flag is unknown.
//
//	if flags.IsEnabled(ctx, ports.FlagVerifySubmittedPrice, true) {
//	    return verify(submitted, computed)
//	}
type FeatureFlags interface {
	// IsEnabled checks a boolean flag.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool

	// GetInt retrieves an integer flag.
	GetInt(ctx context.Context, flag string, defaultValue int) int
}
