package app

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

func TestQuoteValidator_Validate(t *testing.T) {
	validator := NewQuoteValidator(WithClock(fixedClock))

	tests := []struct {
		name       string
		sub        domain.QuoteSubmission
		wantFields []string
	}{
		{
			name: "valid future date",
			sub:  validSubmission(),
		},
		{
			name: "today is allowed",
			sub:  domain.QuoteSubmission{GallonsRequested: 1, DeliveryDate: "2026-10-16", DeliveryAddress: "a"},
		},
		{
			name: "upper bound is inclusive",
			sub:  domain.QuoteSubmission{GallonsRequested: domain.MaxGallons, DeliveryDate: "2026-10-16", DeliveryAddress: "a"},
		},
		{
			name:       "zero gallons",
			sub:        domain.QuoteSubmission{GallonsRequested: 0, DeliveryDate: "2026-11-01", DeliveryAddress: "a"},
			wantFields: []string{"gallonsRequested"},
		},
		{
			name:       "too many gallons",
			sub:        domain.QuoteSubmission{GallonsRequested: domain.MaxGallons + 1, DeliveryDate: "2026-11-01", DeliveryAddress: "a"},
			wantFields: []string{"gallonsRequested"},
		},
		{
			name:       "past date",
			sub:        domain.QuoteSubmission{GallonsRequested: 10, DeliveryDate: "2026-10-15", DeliveryAddress: "a"},
			wantFields: []string{"deliveryDate"},
		},
		{
			name:       "malformed date",
			sub:        domain.QuoteSubmission{GallonsRequested: 10, DeliveryDate: "2026-13-01", DeliveryAddress: "a"},
			wantFields: []string{"deliveryDate"},
		},
		{
			name:       "every failing field is reported",
			sub:        domain.QuoteSubmission{DeliveryAddress: "   ", SuggestedPrice: dec("-1")},
			wantFields: []string{"gallonsRequested", "deliveryDate", "deliveryAddress", "suggestedPrice"},
		},
		{
			name: "address too long",
			sub: domain.QuoteSubmission{
				GallonsRequested: 10, DeliveryDate: "2026-11-01",
				DeliveryAddress: string(make([]byte, domain.MaxDeliveryAddressLength+1)),
			},
			wantFields: []string{"deliveryAddress"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := validator.Validate(tt.sub)

			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				require.NotNil(t, data)

				return
			}

			require.Error(t, err)
			assert.Nil(t, data)
			assert.True(t, domain.IsValidation(err))

			var verrs domain.ValidationErrors
			require.ErrorAs(t, err, &verrs)

			fields := verrs.Fields()
			assert.Len(t, fields, len(tt.wantFields))

			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestQuoteValidator_NormalizesData(t *testing.T) {
	validator := NewQuoteValidator(WithClock(fixedClock))

	sub := domain.QuoteSubmission{
		GallonsRequested: 1000,
		DeliveryDate:     " 2026-11-01 ",
		DeliveryAddress:  "  123 Main St, Austin, TX, 73301 ",
		SuggestedPrice:   dec("1.695"),
		TotalPrice:       dec("1695"),
	}

	data, err := validator.Validate(sub)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), data.GallonsRequested)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), data.DeliveryDate)
	assert.Equal(t, "123 Main St, Austin, TX, 73301", data.DeliveryAddress)
	assert.True(t, data.SuggestedPrice.Equal(*sub.SuggestedPrice))
	assert.True(t, data.TotalPrice.Equal(*sub.TotalPrice))
	assert.Empty(t, data.UserID)
}

func TestQuoteValidator_TodayFollowsLocation(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// 03:00 UTC on the 17th is still the 16th in Chicago.
	now := func() time.Time { return time.Date(2026, 10, 17, 3, 0, 0, 0, time.UTC) }

	sub := domain.QuoteSubmission{GallonsRequested: 5, DeliveryDate: "2026-10-16", DeliveryAddress: "a"}

	_, err = NewQuoteValidator(WithClock(now), WithLocation(chicago)).Validate(sub)
	require.NoError(t, err)

	_, err = NewQuoteValidator(WithClock(now)).Validate(sub)
	assert.True(t, domain.IsValidation(err))
}
