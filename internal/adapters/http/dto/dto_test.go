package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMapDomainError(t *testing.T) {
	multi := func() error {
		var errs domain.ValidationErrors
		errs.Add("gallonsRequested", "must be at least 1", int64(0))
		errs.Add("deliveryDate", "is required", "")

		return errs.ErrOrNil()
	}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails map[string]string
	}{
		{
			name:       "not found",
			err:        domain.NewNotFoundError("fuel quote", "q-1"),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrorCodeNotFound,
		},
		{
			name:       "conflict",
			err:        domain.NewConflictError("quote submission", "a submission is already in progress"),
			wantStatus: http.StatusConflict,
			wantCode:   ErrorCodeConflict,
		},
		{
			name:        "single field",
			err:         domain.NewValidationError("userId", "is required"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantDetails: map[string]string{"userId": "is required"},
		},
		{
			name:       "every field is reported through wrapping",
			err:        fmt.Errorf("validate failed: %w", multi()),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
			wantDetails: map[string]string{
				"gallonsRequested": "must be at least 1",
				"deliveryDate":     "is required",
			},
		},
		{
			name:       "unavailable",
			err:        fmt.Errorf("archive: %w", domain.NewUnavailableError("postgres", "connection reset")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeUnavailable,
		},
		{
			name:       "unknown errors are hidden",
			err:        errors.New("pq: secret detail"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
			assert.NotContains(t, resp.Error.Message, "secret")
		})
	}
}

func TestHTTPStatusFromCode(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatusFromCode(ErrorCodeRateLimited))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatusFromCode(ErrorCodeUnauthorized))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromCode(ErrorCodeBadRequest))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromCode("SOMETHING_ELSE"))
}

func TestHandleError_WritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil)

	HandleError(c, domain.NewConflictError("quote submission", "busy"))

	assert.Equal(t, http.StatusConflict, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorCodeConflict, body.Error.Code)
}

func TestAbort(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Abort(c, ErrorCodeUnauthorized, "authentication required")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":{"code":"UNAUTHORIZED","message":"authentication required"}}`, w.Body.String())
}

func TestAmount_JSON(t *testing.T) {
	resp := NewPriceResponse(domain.Price{
		SuggestedPrice: decimal.RequireFromString("1.695"),
		TotalPrice:     decimal.RequireFromString("1695"),
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pricingResult":{"suggestedPrice":1.695,"totalPrice":1695}}`, string(raw))

	var req CreateQuoteRequest
	require.NoError(t, json.Unmarshal([]byte(`{"gallonsRequested":10,"suggestedPrice":1.725,"totalPrice":"17.25"}`), &req))
	require.NotNil(t, req.SuggestedPrice)
	assert.Equal(t, "1.725", req.SuggestedPrice.String())
	assert.Equal(t, "17.25", req.TotalPrice.String())

	require.NoError(t, json.Unmarshal([]byte(`{"gallonsRequested":10}`), &req))
}

func TestNewQuoteResponse(t *testing.T) {
	created := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	q := &domain.FuelQuote{
		FuelQuoteData: domain.FuelQuoteData{
			GallonsRequested: 1000,
			DeliveryDate:     time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			DeliveryAddress:  "123 Main St, Austin, TX, 73301",
			SuggestedPrice:   decimal.RequireFromString("1.695"),
			TotalPrice:       decimal.RequireFromString("1695"),
		},
		ID:        "q-1",
		CreatedAt: created,
	}

	resp := NewQuoteResponse(q)
	assert.Equal(t, "2026-11-01", resp.DeliveryDate)
	assert.Equal(t, "q-1", resp.ID)
	assert.Equal(t, created, resp.CreatedAt)
}

func TestPagination(t *testing.T) {
	created := time.Date(2026, 10, 16, 9, 0, 0, 123, time.UTC)
	items := []QuoteResponse{
		{ID: "a", CreatedAt: created.Add(2 * time.Second)},
		{ID: "b", CreatedAt: created.Add(time.Second)},
		{ID: "c", CreatedAt: created},
	}

	t.Run("extra item signals another page", func(t *testing.T) {
		page := NewPaginatedResponse(items, 2, QuoteCursor)
		assert.True(t, page.HasMore)
		assert.Len(t, page.Items, 2)
		require.NotEmpty(t, page.NextCursor)

		cursor, err := DecodeCursor(page.NextCursor)
		require.NoError(t, err)

		query, err := PageQuery(cursor, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, query.Limit)
		require.NotNil(t, query.After)
		assert.Equal(t, "b", query.After.ID)
		assert.True(t, query.After.CreatedAt.Equal(items[1].CreatedAt))
	})

	t.Run("last page", func(t *testing.T) {
		page := NewPaginatedResponse(items, 5, QuoteCursor)
		assert.False(t, page.HasMore)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("empty page encodes as empty list", func(t *testing.T) {
		raw, err := json.Marshal(NewPaginatedResponse[QuoteResponse](nil, 5, QuoteCursor))
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[],"hasMore":false}`, string(raw))
	})

	t.Run("first page has no cursor", func(t *testing.T) {
		req := PaginationRequest{}
		cursor, err := req.DecodeCursor()
		require.NoError(t, err)
		assert.Nil(t, cursor)

		query, err := PageQuery(nil, 20)
		require.NoError(t, err)
		assert.Nil(t, query.After)
	})

	t.Run("garbage cursor", func(t *testing.T) {
		_, err := DecodeCursor("!!!")
		require.ErrorIs(t, err, ErrInvalidCursor)

		_, err = PageQuery(NewCursor("name", "x", "a"), 5)
		require.ErrorIs(t, err, ErrInvalidCursor)
	})
}

func TestBindQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantErr   bool
		wantField string
	}{
		{name: "defaults", query: ""},
		{name: "in range", query: "?limit=50"},
		{name: "too large", query: "?limit=500", wantErr: true, wantField: "limit"},
		{name: "not a number", query: "?limit=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/quotes"+tt.query, nil)

			var req PaginationRequest

			err := BindQuery(c, &req)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)

			if tt.wantField != "" {
				assert.Contains(t, ValidationErrors(err), tt.wantField)
			}
		})
	}
}
