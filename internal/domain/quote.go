package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for delivery dates on the wire and in storage.
const DateLayout = "2006-01-02"

// Quote request limits.
const (
	MinGallons = 1
	MaxGallons = 10_000_000

	// MaxDeliveryAddressLength bounds the composed delivery address.
	MaxDeliveryAddressLength = 255

	// PriceScale is the number of decimal places a per-gallon price keeps.
	// It matches the scale of the stored price columns.
	PriceScale = 4
)

// PriceRequest is the input to a pricing computation.
// ClientState and HasHistory are enrichment gathered by the service; a
// pricing engine must still answer when they are empty.
type PriceRequest struct {
	UserID           string
	GallonsRequested int64
	DeliveryDate     time.Time
	DeliveryAddress  string

	ClientState string
	HasHistory  bool
}

// Price is the result of a pricing computation.
type Price struct {
	// SuggestedPrice is the per-gallon price.
	SuggestedPrice decimal.Decimal

	// TotalPrice is SuggestedPrice multiplied by the requested gallons.
	TotalPrice decimal.Decimal
}

// NewPrice rounds suggested to PriceScale and derives the total from it.
func NewPrice(suggested decimal.Decimal, gallons int64) Price {
	suggested = suggested.Round(PriceScale)

	return Price{
		SuggestedPrice: suggested,
		TotalPrice:     suggested.Mul(decimal.NewFromInt(gallons)),
	}
}

// Equal reports whether two prices carry the same amounts, ignoring representation.
func (p Price) Equal(other Price) bool {
	return p.SuggestedPrice.Equal(other.SuggestedPrice) && p.TotalPrice.Equal(other.TotalPrice)
}

// IsZero reports whether no price has been computed.
func (p Price) IsZero() bool {
	return p.SuggestedPrice.IsZero() && p.TotalPrice.IsZero()
}

// QuoteSubmission is what a user submits. Prices are optional: when present
// they must match the engine's current result.
type QuoteSubmission struct {
	GallonsRequested int64
	DeliveryDate     string
	DeliveryAddress  string
	SuggestedPrice   *decimal.Decimal
	TotalPrice       *decimal.Decimal
}

// FuelQuoteData is a quote that passed validation and is ready to persist.
type FuelQuoteData struct {
	UserID           string
	GallonsRequested int64
	DeliveryDate     time.Time
	DeliveryAddress  string
	SuggestedPrice   decimal.Decimal
	TotalPrice       decimal.Decimal
}

// Price returns the amounts attached to the quote.
func (d *FuelQuoteData) Price() Price {
	return Price{SuggestedPrice: d.SuggestedPrice, TotalPrice: d.TotalPrice}
}

// FuelQuote is a persisted quote record. Records are immutable once stored.
type FuelQuote struct {
	FuelQuoteData

	ID        string
	CreatedAt time.Time
}

// QuoteCursor positions a page in a user's quote history (newest first).
type QuoteCursor struct {
	CreatedAt time.Time
	ID        string
}

// PageQuery selects one page of quote history.
type PageQuery struct {
	After *QuoteCursor
	Limit int
}
