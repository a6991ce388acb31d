// Package pricing computes fuel prices from a base price and a set of margin factors.
package pricing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// EngineName identifies the local engine in logs and metrics.
const EngineName = "margin"

// Factors parameterizes the margin formula:
//
//	margin    = base * (location - history + volume + profit)
//	suggested = round(base + margin, scale)
//	total     = suggested * gallons
type Factors struct {
	BasePrice            decimal.Decimal
	HomeState            string
	InStateFactor        decimal.Decimal
	OutOfStateFactor     decimal.Decimal
	HistoryFactor        decimal.Decimal
	BulkThresholdGallons int64
	BulkFactor           decimal.Decimal
	StandardFactor       decimal.Decimal
	ProfitFactor         decimal.Decimal
	Scale                int32
}

// DefaultFactors returns the stock factor set.
func DefaultFactors() Factors {
	return Factors{
		BasePrice:            decimal.RequireFromString("1.50"),
		HomeState:            "TX",
		InStateFactor:        decimal.RequireFromString("0.02"),
		OutOfStateFactor:     decimal.RequireFromString("0.04"),
		HistoryFactor:        decimal.RequireFromString("0.01"),
		BulkThresholdGallons: 1000,
		BulkFactor:           decimal.RequireFromString("0.02"),
		StandardFactor:       decimal.RequireFromString("0.03"),
		ProfitFactor:         decimal.RequireFromString("0.10"),
		Scale:                4,
	}
}

// MarginEngine is the in-process pricing engine. It is pure: the same request
// always yields the same price.
type MarginEngine struct {
	factors Factors
}

// NewMarginEngine creates an engine using the given factors. Scale is
// clamped to [0, domain.PriceScale].
func NewMarginEngine(factors Factors) *MarginEngine {
	factors.HomeState = strings.ToUpper(strings.TrimSpace(factors.HomeState))
	factors.Scale = min(max(factors.Scale, 0), domain.PriceScale)

	return &MarginEngine{factors: factors}
}

// Name returns the engine identifier.
func (e *MarginEngine) Name() string {
	return EngineName
}

// Compute prices a request. Gallons must be positive and the address and
// date present; the date is not required to be in the future here.
func (e *MarginEngine) Compute(_ context.Context, req domain.PriceRequest) (domain.Price, error) {
	var errs domain.ValidationErrors
	if req.GallonsRequested <= 0 {
		errs.Add("gallonsRequested", "must be greater than 0", req.GallonsRequested)
	}

	if req.DeliveryDate.IsZero() {
		errs.Add("deliveryDate", "is required", nil)
	}

	if strings.TrimSpace(req.DeliveryAddress) == "" {
		errs.Add("deliveryAddress", "is required", req.DeliveryAddress)
	}

	if err := errs.ErrOrNil(); err != nil {
		return domain.Price{}, err
	}

	f := e.factors

	location := f.OutOfStateFactor
	if f.HomeState != "" && strings.EqualFold(strings.TrimSpace(req.ClientState), f.HomeState) {
		location = f.InStateFactor
	}

	history := decimal.Zero
	if req.HasHistory {
		history = f.HistoryFactor
	}

	volume := f.StandardFactor
	if req.GallonsRequested > f.BulkThresholdGallons {
		volume = f.BulkFactor
	}

	margin := f.BasePrice.Mul(location.Sub(history).Add(volume).Add(f.ProfitFactor))
	suggested := f.BasePrice.Add(margin).Round(f.Scale)

	return domain.NewPrice(suggested, req.GallonsRequested), nil
}
