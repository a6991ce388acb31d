package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

func priceRequest(gallons int64, state string, history bool) domain.PriceRequest {
	return domain.PriceRequest{
		UserID:           "user-1",
		GallonsRequested: gallons,
		DeliveryDate:     time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		DeliveryAddress:  "1 Main St, Houston, TX, 77001",
		ClientState:      state,
		HasHistory:       history,
	}
}

// TestMarginEngine_Compute verifies the margin formula against hand-computed prices.
func TestMarginEngine_Compute(t *testing.T) {
	engine := NewMarginEngine(DefaultFactors())

	tests := []struct {
		name          string
		req           domain.PriceRequest
		wantSuggested string
		wantTotal     string
	}{
		{
			name:          "in state, first quote, standard volume",
			req:           priceRequest(500, "TX", false),
			wantSuggested: "1.725",
			wantTotal:     "862.5",
		},
		{
			name:          "out of state, first quote, standard volume",
			req:           priceRequest(500, "CA", false),
			wantSuggested: "1.755",
			wantTotal:     "877.5",
		},
		{
			name:          "in state, returning client, bulk volume",
			req:           priceRequest(1500, "tx", true),
			wantSuggested: "1.695",
			wantTotal:     "2542.5",
		},
		{
			name:          "unknown state prices as out of state",
			req:           priceRequest(1000, "", false),
			wantSuggested: "1.755",
			wantTotal:     "1755",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := engine.Compute(context.Background(), tt.req)
			require.NoError(t, err)

			assert.True(t, decimal.RequireFromString(tt.wantSuggested).Equal(price.SuggestedPrice),
				"suggested: got %s", price.SuggestedPrice)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(price.TotalPrice),
				"total: got %s", price.TotalPrice)
		})
	}
}

// TestMarginEngine_TotalIsExactProduct verifies total = suggested * gallons with no rounding drift.
func TestMarginEngine_TotalIsExactProduct(t *testing.T) {
	engine := NewMarginEngine(DefaultFactors())

	for _, gallons := range []int64{1, 7, 999, 1001, 123_457, domain.MaxGallons} {
		price, err := engine.Compute(context.Background(), priceRequest(gallons, "TX", false))
		require.NoError(t, err)

		assert.True(t, price.SuggestedPrice.Mul(decimal.NewFromInt(gallons)).Equal(price.TotalPrice))
		assert.True(t, price.SuggestedPrice.IsPositive())
	}
}

// TestMarginEngine_Deterministic verifies identical inputs produce identical prices.
func TestMarginEngine_Deterministic(t *testing.T) {
	engine := NewMarginEngine(DefaultFactors())
	req := priceRequest(500, "TX", false)

	first, err := engine.Compute(context.Background(), req)
	require.NoError(t, err)

	second, err := engine.Compute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestMarginEngine_RejectsIncompleteInput(t *testing.T) {
	engine := NewMarginEngine(DefaultFactors())

	req := priceRequest(0, "TX", false)
	req.DeliveryAddress = " "
	req.DeliveryDate = time.Time{}

	_, err := engine.Compute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
}

func TestMarginEngine_Scale(t *testing.T) {
	factors := DefaultFactors()
	factors.BasePrice = decimal.RequireFromString("1.333")
	factors.Scale = 2

	price, err := NewMarginEngine(factors).Compute(context.Background(), priceRequest(3, "TX", false))
	require.NoError(t, err)

	// 1.333 * 1.15 = 1.53295 -> 1.53
	assert.Equal(t, "1.53", price.SuggestedPrice.StringFixed(2))
	assert.True(t, decimal.RequireFromString("4.59").Equal(price.TotalPrice))
	assert.Equal(t, EngineName, NewMarginEngine(factors).Name())
}

func TestMarginEngine_ScaleIsCappedAtStoragePrecision(t *testing.T) {
	factors := DefaultFactors()
	factors.BasePrice = decimal.RequireFromString("1.333333")
	factors.Scale = 8

	price, err := NewMarginEngine(factors).Compute(context.Background(), priceRequest(1000, "TX", false))
	require.NoError(t, err)

	// 1.333333 * 1.15 = 1.53333295 -> 1.5333
	assert.Equal(t, "1.5333", price.SuggestedPrice.String())
	assert.Equal(t, "1533.3", price.TotalPrice.String())
}
