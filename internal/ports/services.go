// Package ports defines the contracts the fuel quote application depends on.
// Adapters (Postgres, in-memory, remote pricing) implement them; the app
// layer only ever sees these interfaces and domain types.
//
// Conventions:
//   - Context is always the first parameter
//   - Only domain types cross the boundary
//   - Failures are reported with domain errors (ErrNotFound, ErrUnavailable, ...)
package ports

import (
	"context"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// QuoteStore persists validated quotes. Records are append-only: there is no
// update or delete path.
type QuoteStore interface {
	// Insert stores the quote and returns the record with its id and creation time.
	// Two inserts of identical data produce two distinct records.
	// Returns domain.ErrUnavailable when the backing store cannot be reached.
	Insert(ctx context.Context, data *domain.FuelQuoteData) (*domain.FuelQuote, error)
}

// QuoteReader is the read side of quote history.
type QuoteReader interface {
	// GetByID returns one of the user's quotes.
	// Returns domain.ErrNotFound when it does not exist or belongs to someone else.
	GetByID(ctx context.Context, userID, id string) (*domain.FuelQuote, error)

	// ListByUser returns the user's quotes newest first, starting after page.After.
	ListByUser(ctx context.Context, userID string, page domain.PageQuery) ([]*domain.FuelQuote, error)

	// CountByUser returns how many quotes the user has stored.
	CountByUser(ctx context.Context, userID string) (int, error)
}

// QuoteRepository combines both sides of quote storage.
type QuoteRepository interface {
	QuoteStore
	QuoteReader
}

// ProfileRepository stores delivery profiles, one per user.
type ProfileRepository interface {
	// GetByUserID returns domain.ErrNotFound when the user has no profile yet.
	GetByUserID(ctx context.Context, userID string) (*domain.DeliveryProfile, error)

	// Save creates or replaces the user's profile.
	Save(ctx context.Context, profile *domain.DeliveryProfile) (*domain.DeliveryProfile, error)
}

// PricingEngine computes a price for a request. Implementations may be local
// or remote; remote failures are reported as domain.ErrUnavailable.
type PricingEngine interface {
	Compute(ctx context.Context, req domain.PriceRequest) (domain.Price, error)
}
