package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// Amount is a currency amount written to JSON as a bare number with no
// float rounding. It accepts both numbers and strings on input.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// PriceRequest is the body of POST /price.
type PriceRequest struct {
	GallonsRequested int64  `json:"gallonsRequested"`
	DeliveryDate     string `json:"deliveryDate"`
	DeliveryAddress  string `json:"deliveryAddress"`
}

// ToSubmission converts the request into a domain submission without prices.
func (r PriceRequest) ToSubmission() domain.QuoteSubmission {
	return domain.QuoteSubmission{
		GallonsRequested: r.GallonsRequested,
		DeliveryDate:     r.DeliveryDate,
		DeliveryAddress:  r.DeliveryAddress,
	}
}

// PricingResult carries the computed amounts.
type PricingResult struct {
	SuggestedPrice Amount `json:"suggestedPrice"`
	TotalPrice     Amount `json:"totalPrice"`
}

// PriceResponse is the body returned by POST /price.
type PriceResponse struct {
	PricingResult PricingResult `json:"pricingResult"`
}

// NewPriceResponse wraps a domain price.
func NewPriceResponse(p domain.Price) PriceResponse {
	return PriceResponse{PricingResult: PricingResult{
		SuggestedPrice: Amount{p.SuggestedPrice},
		TotalPrice:     Amount{p.TotalPrice},
	}}
}

// CreateQuoteRequest is the body of POST /quotes. Prices are optional; when
// given they must match the current price.
type CreateQuoteRequest struct {
	GallonsRequested int64            `json:"gallonsRequested"`
	DeliveryDate     string           `json:"deliveryDate"`
	DeliveryAddress  string           `json:"deliveryAddress"`
	SuggestedPrice   *decimal.Decimal `json:"suggestedPrice,omitempty"`
	TotalPrice       *decimal.Decimal `json:"totalPrice,omitempty"`
}

// ToSubmission converts the request into a domain submission.
func (r CreateQuoteRequest) ToSubmission() domain.QuoteSubmission {
	return domain.QuoteSubmission{
		GallonsRequested: r.GallonsRequested,
		DeliveryDate:     r.DeliveryDate,
		DeliveryAddress:  r.DeliveryAddress,
		SuggestedPrice:   r.SuggestedPrice,
		TotalPrice:       r.TotalPrice,
	}
}

// QuoteResponse is a stored fuel quote.
type QuoteResponse struct {
	ID               string    `json:"id"`
	GallonsRequested int64     `json:"gallonsRequested"`
	DeliveryDate     string    `json:"deliveryDate"`
	DeliveryAddress  string    `json:"deliveryAddress"`
	SuggestedPrice   Amount    `json:"suggestedPrice"`
	TotalPrice       Amount    `json:"totalPrice"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewQuoteResponse converts a domain record.
func NewQuoteResponse(q *domain.FuelQuote) QuoteResponse {
	return QuoteResponse{
		ID:               q.ID,
		GallonsRequested: q.GallonsRequested,
		DeliveryDate:     q.DeliveryDate.Format(domain.DateLayout),
		DeliveryAddress:  q.DeliveryAddress,
		SuggestedPrice:   Amount{q.SuggestedPrice},
		TotalPrice:       Amount{q.TotalPrice},
		CreatedAt:        q.CreatedAt,
	}
}

// QuoteCursor builds the pagination cursor for a quote.
func QuoteCursor(q QuoteResponse) *CursorData {
	return NewCursor("created_at", q.CreatedAt.Format(time.RFC3339Nano), q.ID)
}

// PageQuery converts pagination input into a domain page query.
func PageQuery(cursor *CursorData, limit int) (domain.PageQuery, error) {
	page := domain.PageQuery{Limit: limit}
	if cursor == nil {
		return page, nil
	}

	createdAt, err := time.Parse(time.RFC3339Nano, cursor.Value)
	if err != nil || cursor.Field != "created_at" || cursor.ID == "" {
		return domain.PageQuery{}, ErrInvalidCursor
	}

	page.After = &domain.QuoteCursor{CreatedAt: createdAt, ID: cursor.ID}

	return page, nil
}
