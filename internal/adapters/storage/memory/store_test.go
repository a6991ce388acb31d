package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

func quoteData(user string, gallons int64) *domain.FuelQuoteData {
	return &domain.FuelQuoteData{
		UserID:           user,
		GallonsRequested: gallons,
		DeliveryDate:     time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		DeliveryAddress:  "123 Main St, Austin, TX, 73301",
		SuggestedPrice:   decimal.RequireFromString("1.695"),
		TotalPrice:       decimal.NewFromInt(gallons).Mul(decimal.RequireFromString("1.695")),
	}
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	)

	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		t = t.Add(time.Second)

		return t
	}
}

func TestQuoteStore_InsertKeepsValues(t *testing.T) {
	store := NewQuoteStore()
	ctx := context.Background()
	data := quoteData("user-1", 1000)

	first, err := store.Insert(ctx, data)
	require.NoError(t, err)

	second, err := store.Insert(ctx, data)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "identical submissions get distinct records")
	assert.Equal(t, *data, first.FuelQuoteData)

	got, err := store.GetByID(ctx, "user-1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	count, err := store.CountByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQuoteStore_InsertHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewQuoteStore().Insert(ctx, quoteData("user-1", 1))
	assert.True(t, domain.IsUnavailable(err))
}

func TestQuoteStore_GetByID_ScopedToUser(t *testing.T) {
	store := NewQuoteStore()

	record, err := store.Insert(context.Background(), quoteData("user-1", 10))
	require.NoError(t, err)

	_, err = store.GetByID(context.Background(), "user-2", record.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestQuoteStore_ListByUser_Pages(t *testing.T) {
	store := NewQuoteStore()
	store.now = steppingClock()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		_, err := store.Insert(ctx, quoteData("user-1", i))
		require.NoError(t, err)
	}

	_, err := store.Insert(ctx, quoteData("user-2", 99))
	require.NoError(t, err)

	page1, err := store.ListByUser(ctx, "user-1", domain.PageQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, int64(5), page1[0].GallonsRequested)
	assert.Equal(t, int64(4), page1[1].GallonsRequested)

	last := page1[1]
	page2, err := store.ListByUser(ctx, "user-1", domain.PageQuery{
		After: &domain.QuoteCursor{CreatedAt: last.CreatedAt, ID: last.ID},
		Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, page2, 3)
	assert.Equal(t, int64(3), page2[0].GallonsRequested)
	assert.Equal(t, int64(1), page2[2].GallonsRequested)
}

func TestProfileStore(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()

	_, err := store.GetByUserID(ctx, "user-1")
	assert.True(t, domain.IsNotFound(err))

	in := &domain.DeliveryProfile{UserID: "user-1", Address1: "1 Main", City: "Austin", State: "TX", Zipcode: "73301"}
	_, err = store.Save(ctx, in)
	require.NoError(t, err)

	in.City = "mutated after save"

	got, err := store.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Austin", got.City)
}

func TestHealthChecker(t *testing.T) {
	assert.Equal(t, "memory", HealthChecker{}.Name())
	assert.NoError(t, HealthChecker{}.Check(context.Background()))
}
