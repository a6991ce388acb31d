// Package memory provides in-process quote and profile stores for local runs
// and tests. Data does not survive a restart.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// QuoteStore implements ports.QuoteRepository in memory.
type QuoteStore struct {
	mu     sync.RWMutex
	byUser map[string][]*domain.FuelQuote
	now    func() time.Time
}

// NewQuoteStore creates an empty quote store.
func NewQuoteStore() *QuoteStore {
	return &QuoteStore{
		byUser: make(map[string][]*domain.FuelQuote),
		now:    time.Now,
	}
}

// Insert stores a copy of data under a new id.
func (s *QuoteStore) Insert(ctx context.Context, data *domain.FuelQuoteData) (*domain.FuelQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewUnavailableError("memory", err.Error())
	}

	record := &domain.FuelQuote{
		FuelQuoteData: *data,
		ID:            uuid.NewString(),
		CreatedAt:     s.now().UTC(),
	}

	s.mu.Lock()
	s.byUser[data.UserID] = append(s.byUser[data.UserID], record)
	s.mu.Unlock()

	stored := *record

	return &stored, nil
}

// GetByID returns a copy of the user's quote.
func (s *QuoteStore) GetByID(_ context.Context, userID, id string) (*domain.FuelQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, q := range s.byUser[userID] {
		if q.ID == id {
			found := *q

			return &found, nil
		}
	}

	return nil, domain.NewNotFoundError("fuel quote", id)
}

// ListByUser returns the user's quotes newest first, after page.After.
func (s *QuoteStore) ListByUser(_ context.Context, userID string, page domain.PageQuery) ([]*domain.FuelQuote, error) {
	s.mu.RLock()
	quotes := slices.Clone(s.byUser[userID])
	s.mu.RUnlock()

	slices.SortFunc(quotes, func(a, b *domain.FuelQuote) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	out := make([]*domain.FuelQuote, 0, max(0, min(page.Limit, len(quotes))))

	for _, q := range quotes {
		if page.After != nil && !before(q, page.After) {
			continue
		}

		if page.Limit > 0 && len(out) == page.Limit {
			break
		}

		c := *q
		out = append(out, &c)
	}

	return out, nil
}

// CountByUser returns the number of quotes the user has stored.
func (s *QuoteStore) CountByUser(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byUser[userID]), nil
}

// before reports whether q sorts after the cursor in newest-first order.
func before(q *domain.FuelQuote, c *domain.QuoteCursor) bool {
	if !q.CreatedAt.Equal(c.CreatedAt) {
		return q.CreatedAt.Before(c.CreatedAt)
	}

	return q.ID < c.ID
}

// ProfileStore implements ports.ProfileRepository in memory.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.DeliveryProfile
}

// NewProfileStore creates an empty profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]domain.DeliveryProfile)}
}

// GetByUserID returns a copy of the user's profile.
func (s *ProfileStore) GetByUserID(_ context.Context, userID string) (*domain.DeliveryProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.NewNotFoundError("delivery profile", "")
	}

	return &p, nil
}

// Save replaces the user's profile.
func (s *ProfileStore) Save(_ context.Context, profile *domain.DeliveryProfile) (*domain.DeliveryProfile, error) {
	s.mu.Lock()
	s.profiles[profile.UserID] = *profile
	s.mu.Unlock()

	saved := *profile

	return &saved, nil
}

// HealthChecker reports the in-memory store as always healthy.
type HealthChecker struct{}

// Name implements ports.HealthChecker.
func (HealthChecker) Name() string { return "memory" }

// Check implements ports.HealthChecker.
func (HealthChecker) Check(context.Context) error { return nil }
