package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/fuelquote/internal/adapters/clients"
	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// Doer sends requests. *clients.Client implements it.
type Doer interface {
	Get(ctx context.Context, path string) (*http.Response, error)
	Post(ctx context.Context, path string, body any) (*http.Response, error)
	Put(ctx context.Context, path string, body any) (*http.Response, error)
}

var _ Doer = (*clients.Client)(nil)

// BaseAdapter holds what every adapter needs: a client and the name of the
// service behind it.
type BaseAdapter struct {
	client      Doer
	serviceName string
}

// NewBaseAdapter creates a base adapter.
func NewBaseAdapter(client Doer, serviceName string) BaseAdapter {
	return BaseAdapter{client: client, serviceName: serviceName}
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// target names what a request is about, for not-found errors.
type target struct {
	entity string
	id     string
}

// call runs a request and decodes a 2xx JSON body into out. Failures come
// back as domain errors.
func call[T any](a *BaseAdapter, send func() (*http.Response, error), about target) (*T, error) {
	resp, err := send()
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, about.entity, about.id)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if mapped := MapHTTPError(resp, nil, a.serviceName, about.entity, about.id); mapped != nil {
		return nil, mapped
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, domain.NewUnavailableError(a.serviceName, fmt.Sprintf("undecodable response: %v", err))
	}

	return &out, nil
}

// Translator converts an external DTO into a domain value, rejecting data the
// domain cannot accept.
type Translator[External any, Domain any] func(ext *External) (*Domain, error)

// TranslateSlice applies translate to every item and stops at the first failure.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) ([]*D, error) {
	result := make([]*D, 0, len(items))

	for i := range items {
		translated, err := translate(&items[i])
		if err != nil {
			return nil, fmt.Errorf("translating item %d: %w", i, err)
		}

		result = append(result, translated)
	}

	return result, nil
}

// pricingResultDTO is the price body shared by the pricing engine and /price.
type pricingResultDTO struct {
	PricingResult *struct {
		SuggestedPrice *decimal.Decimal `json:"suggestedPrice"`
		TotalPrice     *decimal.Decimal `json:"totalPrice"`
	} `json:"pricingResult"`
}

// translatePrice checks that both amounts are present and not negative. The
// suggested price is rounded to domain.PriceScale and the total recomputed
// from it for the given gallons.
func translatePrice(serviceName string, gallons int64) Translator[pricingResultDTO, domain.Price] {
	return func(ext *pricingResultDTO) (*domain.Price, error) {
		r := ext.PricingResult
		if r == nil || r.SuggestedPrice == nil || r.TotalPrice == nil {
			return nil, domain.NewUnavailableError(serviceName, "response has no pricing result")
		}

		if r.SuggestedPrice.IsNegative() || r.TotalPrice.IsNegative() {
			return nil, domain.NewUnavailableError(serviceName, "response has a negative price")
		}

		price := domain.NewPrice(*r.SuggestedPrice, gallons)

		return &price, nil
	}
}
