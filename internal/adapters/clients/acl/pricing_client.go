package acl

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/fuelquote/internal/domain"
	"github.com/jsamuelsen/fuelquote/internal/ports"
)

const (
	pricePath  = "/price"
	healthPath = "/-/ready"
)

// remotePriceRequest is the body sent to the pricing engine.
type remotePriceRequest struct {
	GallonsRequested int64  `json:"gallonsRequested"`
	DeliveryDate     string `json:"deliveryDate"`
	DeliveryAddress  string `json:"deliveryAddress"`
	ClientState      string `json:"clientState,omitempty"`
	HasHistory       bool   `json:"hasHistory"`
}

// PricingClient prices requests on a remote pricing engine.
type PricingClient struct {
	BaseAdapter
}

var (
	_ ports.PricingEngine      = (*PricingClient)(nil)
	_ ports.HealthChecker      = (*PricingClient)(nil)
	_ ports.OptionalDependency = (*PricingClient)(nil)
)

// NewPricingClient creates a pricing client.
func NewPricingClient(client Doer, serviceName string) *PricingClient {
	return &PricingClient{BaseAdapter: NewBaseAdapter(client, serviceName)}
}

// Compute implements ports.PricingEngine.
func (p *PricingClient) Compute(ctx context.Context, req domain.PriceRequest) (domain.Price, error) {
	body := remotePriceRequest{
		GallonsRequested: req.GallonsRequested,
		DeliveryDate:     req.DeliveryDate.Format(domain.DateLayout),
		DeliveryAddress:  req.DeliveryAddress,
		ClientState:      req.ClientState,
		HasHistory:       req.HasHistory,
	}

	resp, err := call[pricingResultDTO](&p.BaseAdapter, func() (*http.Response, error) {
		return p.client.Post(ctx, pricePath, body)
	}, target{entity: "price"})
	if err != nil {
		return domain.Price{}, err
	}

	price, err := translatePrice(p.serviceName, req.GallonsRequested)(resp)
	if err != nil {
		return domain.Price{}, err
	}

	return *price, nil
}

// Name implements ports.HealthChecker.
func (p *PricingClient) Name() string {
	return p.serviceName
}

// Check implements ports.HealthChecker.
func (p *PricingClient) Check(ctx context.Context) error {
	resp, err := p.client.Get(ctx, healthPath)
	if err != nil {
		return MapHTTPError(nil, err, p.serviceName, "", "")
	}
	defer resp.Body.Close()

	return MapHTTPError(resp, nil, p.serviceName, "", "")
}

// Optional reports that the service keeps running without the remote
// engine; the local fallback can take over.
func (p *PricingClient) Optional() bool {
	return true
}
