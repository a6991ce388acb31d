package acl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// Paths under the API base URL (e.g. http://localhost:8080/api/v1).
const (
	profilePath = "/profile"
	quotesPath  = "/quotes"
)

// profileDTO is the wire shape of a delivery profile.
type profileDTO struct {
	FullName  string    `json:"fullName,omitempty"`
	Address1  string    `json:"address1"`
	Address2  string    `json:"address2,omitempty"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zipcode   string    `json:"zipcode"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// submissionDTO is the body of POST /price and POST /quotes.
type submissionDTO struct {
	GallonsRequested int64            `json:"gallonsRequested"`
	DeliveryDate     string           `json:"deliveryDate"`
	DeliveryAddress  string           `json:"deliveryAddress"`
	SuggestedPrice   *decimal.Decimal `json:"suggestedPrice,omitempty"`
	TotalPrice       *decimal.Decimal `json:"totalPrice,omitempty"`
}

// quoteDTO is the wire shape of a stored quote.
type quoteDTO struct {
	ID               string           `json:"id"`
	GallonsRequested int64            `json:"gallonsRequested"`
	DeliveryDate     string           `json:"deliveryDate"`
	DeliveryAddress  string           `json:"deliveryAddress"`
	SuggestedPrice   *decimal.Decimal `json:"suggestedPrice"`
	TotalPrice       *decimal.Decimal `json:"totalPrice"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type quotePageDTO struct {
	Items      []quoteDTO `json:"items"`
	NextCursor string     `json:"nextCursor"`
	HasMore    bool       `json:"hasMore"`
}

// QuotePage is one page of the caller's quote history.
type QuotePage struct {
	Quotes     []*domain.FuelQuote
	NextCursor string
	HasMore    bool
}

// FuelQuoteAPI is a client of the fuel quote API. Requests are made as
// whoever the underlying client authenticates as.
type FuelQuoteAPI struct {
	BaseAdapter

	submitter Doer
}

// APIOption configures a FuelQuoteAPI.
type APIOption func(*FuelQuoteAPI)

// WithSubmitClient sends quote submissions through client instead of the
// shared one. Submissions create a record, so this is normally a client
// that does not retry.
func WithSubmitClient(client Doer) APIOption {
	return func(a *FuelQuoteAPI) {
		if client != nil {
			a.submitter = client
		}
	}
}

// NewFuelQuoteAPI creates an API client.
func NewFuelQuoteAPI(client Doer, serviceName string, opts ...APIOption) *FuelQuoteAPI {
	a := &FuelQuoteAPI{BaseAdapter: NewBaseAdapter(client, serviceName), submitter: client}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// GetProfile returns the caller's delivery profile.
func (a *FuelQuoteAPI) GetProfile(ctx context.Context) (*domain.DeliveryProfile, error) {
	resp, err := call[profileDTO](&a.BaseAdapter, func() (*http.Response, error) {
		return a.client.Get(ctx, profilePath)
	}, target{entity: "delivery profile"})
	if err != nil {
		return nil, err
	}

	return translateProfile(resp)
}

// SaveProfile creates or replaces the caller's delivery profile.
func (a *FuelQuoteAPI) SaveProfile(ctx context.Context, p domain.DeliveryProfile) (*domain.DeliveryProfile, error) {
	body := profileDTO{
		FullName: p.FullName,
		Address1: p.Address1,
		Address2: p.Address2,
		City:     p.City,
		State:    p.State,
		Zipcode:  p.Zipcode,
	}

	resp, err := call[profileDTO](&a.BaseAdapter, func() (*http.Response, error) {
		return a.client.Put(ctx, profilePath, body)
	}, target{entity: "delivery profile"})
	if err != nil {
		return nil, err
	}

	return translateProfile(resp)
}

// Price asks for the current price of a submission without storing it.
func (a *FuelQuoteAPI) Price(ctx context.Context, sub domain.QuoteSubmission) (domain.Price, error) {
	resp, err := call[pricingResultDTO](&a.BaseAdapter, func() (*http.Response, error) {
		return a.client.Post(ctx, pricePath, toSubmissionDTO(sub))
	}, target{entity: "price"})
	if err != nil {
		return domain.Price{}, err
	}

	price, err := translatePrice(a.serviceName, sub.GallonsRequested)(resp)
	if err != nil {
		return domain.Price{}, err
	}

	return *price, nil
}

// Submit stores a quote and returns the record.
func (a *FuelQuoteAPI) Submit(ctx context.Context, sub domain.QuoteSubmission) (*domain.FuelQuote, error) {
	resp, err := call[quoteDTO](&a.BaseAdapter, func() (*http.Response, error) {
		return a.submitter.Post(ctx, quotesPath, toSubmissionDTO(sub))
	}, target{entity: "fuel quote"})
	if err != nil {
		return nil, err
	}

	return a.translateQuote(resp)
}

// Get returns one of the caller's quotes.
func (a *FuelQuoteAPI) Get(ctx context.Context, id string) (*domain.FuelQuote, error) {
	resp, err := call[quoteDTO](&a.BaseAdapter, func() (*http.Response, error) {
		return a.client.Get(ctx, quotesPath+"/"+url.PathEscape(id))
	}, target{entity: "fuel quote", id: id})
	if err != nil {
		return nil, err
	}

	return a.translateQuote(resp)
}

// History returns a page of the caller's quotes, newest first. An empty
// cursor starts at the newest quote; a zero limit uses the server default.
func (a *FuelQuoteAPI) History(ctx context.Context, cursor string, limit int) (*QuotePage, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := quotesPath
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := call[quotePageDTO](&a.BaseAdapter, func() (*http.Response, error) {
		return a.client.Get(ctx, path)
	}, target{entity: "fuel quote"})
	if err != nil {
		return nil, err
	}

	quotes, err := TranslateSlice(resp.Items, a.translateQuote)
	if err != nil {
		return nil, err
	}

	return &QuotePage{Quotes: quotes, NextCursor: resp.NextCursor, HasMore: resp.HasMore}, nil
}

func toSubmissionDTO(sub domain.QuoteSubmission) submissionDTO {
	return submissionDTO{
		GallonsRequested: sub.GallonsRequested,
		DeliveryDate:     sub.DeliveryDate,
		DeliveryAddress:  sub.DeliveryAddress,
		SuggestedPrice:   sub.SuggestedPrice,
		TotalPrice:       sub.TotalPrice,
	}
}

func translateProfile(ext *profileDTO) (*domain.DeliveryProfile, error) {
	return &domain.DeliveryProfile{
		FullName:  ext.FullName,
		Address1:  ext.Address1,
		Address2:  ext.Address2,
		City:      ext.City,
		State:     ext.State,
		Zipcode:   ext.Zipcode,
		UpdatedAt: ext.UpdatedAt,
	}, nil
}

// translateQuote rejects records missing an id, a parsable delivery date or
// either amount.
func (a *FuelQuoteAPI) translateQuote(ext *quoteDTO) (*domain.FuelQuote, error) {
	if ext.ID == "" || ext.SuggestedPrice == nil || ext.TotalPrice == nil {
		return nil, domain.NewUnavailableError(a.serviceName, "incomplete quote record")
	}

	date, err := time.Parse(domain.DateLayout, ext.DeliveryDate)
	if err != nil {
		return nil, domain.NewUnavailableError(a.serviceName, "quote record has an invalid delivery date")
	}

	return &domain.FuelQuote{
		FuelQuoteData: domain.FuelQuoteData{
			GallonsRequested: ext.GallonsRequested,
			DeliveryDate:     date,
			DeliveryAddress:  ext.DeliveryAddress,
			SuggestedPrice:   *ext.SuggestedPrice,
			TotalPrice:       *ext.TotalPrice,
		},
		ID:        ext.ID,
		CreatedAt: ext.CreatedAt,
	}, nil
}
