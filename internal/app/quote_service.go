// Package app contains the fuel quote use cases. Services coordinate the
// pricing engine, validator and stores through ports and never touch HTTP
// or SQL directly.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jsamuelsen/fuelquote/internal/domain"
	"github.com/jsamuelsen/fuelquote/internal/platform/metrics"
	"github.com/jsamuelsen/fuelquote/internal/platform/telemetry"
	"github.com/jsamuelsen/fuelquote/internal/ports"
)

// History page sizes.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// QuoteService prices, submits and lists fuel quotes.
type QuoteService struct {
	quotes    ports.QuoteRepository
	profiles  ports.ProfileRepository
	pricing   ports.PricingEngine
	flags     ports.FeatureFlags
	validator *QuoteValidator
	executor  *Executor
	guard     *SubmissionGuard
	logger    *slog.Logger
}

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	Quotes    ports.QuoteRepository
	Profiles  ports.ProfileRepository
	Pricing   ports.PricingEngine
	Flags     ports.FeatureFlags
	Validator *QuoteValidator
	Executor  *Executor
	Logger    *slog.Logger
}

// NewQuoteService creates a quote service. It panics when a store or the
// pricing engine is missing.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Quotes == nil || cfg.Profiles == nil || cfg.Pricing == nil {
		panic("app: quote service requires quote store, profile repository and pricing engine")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Validator == nil {
		cfg.Validator = NewQuoteValidator()
	}

	if cfg.Executor == nil {
		cfg.Executor = NewExecutor(cfg.Logger, nil)
	}

	return &QuoteService{
		quotes:    cfg.Quotes,
		profiles:  cfg.Profiles,
		pricing:   cfg.Pricing,
		flags:     cfg.Flags,
		validator: cfg.Validator,
		executor:  cfg.Executor,
		guard:     NewSubmissionGuard(),
		logger:    cfg.Logger,
	}
}

// Price computes the current price for the user's request without storing anything.
func (s *QuoteService) Price(ctx context.Context, userID string, sub domain.QuoteSubmission) (domain.Price, error) {
	req, err := priceRequest(userID, sub)
	if err != nil {
		return domain.Price{}, err
	}

	return s.computePrice(ctx, req)
}

// Submit validates, prices and stores a quote. Only one submission per user
// runs at a time; a concurrent one fails with a conflict.
func (s *QuoteService) Submit(ctx context.Context, userID string, sub domain.QuoteSubmission) (*domain.FuelQuote, error) {
	release, ok := s.guard.TryAcquire(userID)
	if !ok {
		metrics.QuoteSubmitted(metrics.OutcomeConflict)

		return nil, domain.NewConflictError("quote submission", "a submission is already in progress")
	}
	defer release()

	var data *domain.FuelQuoteData

	op := Operation[domain.QuoteSubmission, domain.Price, *domain.FuelQuote, *domain.FuelQuote]{
		Name: "submit_quote",
		Validate: func(_ context.Context, in domain.QuoteSubmission) error {
			if strings.TrimSpace(userID) == "" {
				return domain.NewValidationError("userId", "is required")
			}

			validated, err := s.validator.Validate(in)
			if err != nil {
				return err
			}

			validated.UserID = userID
			data = validated

			return nil
		},
		Perform: func(ctx context.Context, _ domain.QuoteSubmission) (domain.Price, error) {
			return s.computePrice(ctx, domain.PriceRequest{
				UserID:           userID,
				GallonsRequested: data.GallonsRequested,
				DeliveryDate:     data.DeliveryDate,
				DeliveryAddress:  data.DeliveryAddress,
			})
		},
		Verify: func(ctx context.Context, in domain.QuoteSubmission, current domain.Price) (*domain.FuelQuote, error) {
			if s.flagEnabled(ctx, ports.FlagVerifySubmittedPrice, true) {
				if err := verifySubmittedPrice(in, current); err != nil {
					return nil, err
				}
			}

			data.SuggestedPrice = current.SuggestedPrice
			data.TotalPrice = current.TotalPrice

			return &domain.FuelQuote{FuelQuoteData: *data}, nil
		},
		Archive: func(ctx context.Context, _ domain.QuoteSubmission, verified *domain.FuelQuote) (*domain.FuelQuote, error) {
			return s.quotes.Insert(ctx, &verified.FuelQuoteData)
		},
		Respond: func(_ context.Context, _ domain.QuoteSubmission, stored *domain.FuelQuote) (*domain.FuelQuote, error) {
			return stored, nil
		},
	}

	record, err := Execute(ctx, s.executor, op, sub)
	metrics.QuoteSubmitted(outcome(err))

	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fuel quote stored",
		slog.String("quote_id", record.ID),
		slog.Int64("gallons", record.GallonsRequested),
		slog.String("total_price", record.TotalPrice.String()),
	)

	return record, nil
}

// Get returns one of the user's stored quotes.
func (s *QuoteService) Get(ctx context.Context, userID, id string) (*domain.FuelQuote, error) {
	return s.quotes.GetByID(ctx, userID, id)
}

// PageSize resolves the history page size: requested when positive, else the
// history-page-size flag, capped at MaxPageSize.
func (s *QuoteService) PageSize(ctx context.Context, requested int) int {
	size := requested
	if size <= 0 {
		size = DefaultPageSize
		if s.flags != nil {
			size = s.flags.GetInt(ctx, ports.FlagHistoryPageSize, DefaultPageSize)
		}
	}

	return max(1, min(size, MaxPageSize))
}

// History returns the user's quotes newest first, starting after page.After.
// Up to one quote more than the resolved page size is returned; its presence
// means another page exists.
func (s *QuoteService) History(ctx context.Context, userID string, page domain.PageQuery) ([]*domain.FuelQuote, error) {
	page.Limit = s.PageSize(ctx, page.Limit) + 1

	return s.quotes.ListByUser(ctx, userID, page)
}

// computePrice enriches the request with the user's state and quote history
// and asks the pricing engine.
func (s *QuoteService) computePrice(ctx context.Context, req domain.PriceRequest) (price domain.Price, err error) {
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "quote.compute_price",
		attribute.Int64("fuelquote.gallons", req.GallonsRequested),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "pricing failed")
		}
		span.End()
	}()

	profile, count, err := Parallel2(ctx,
		func(ctx context.Context) (*domain.DeliveryProfile, error) {
			p, err := s.profiles.GetByUserID(ctx, req.UserID)
			if domain.IsNotFound(err) {
				return nil, nil
			}

			return p, err
		},
		func(ctx context.Context) (int, error) {
			return s.quotes.CountByUser(ctx, req.UserID)
		},
	)
	if err != nil {
		metrics.PricingComputed(metrics.OutcomeUnavailable, time.Since(start))

		return domain.Price{}, asUnavailable("pricing", err)
	}

	req.ClientState = profile.NormalizedState()
	req.HasHistory = count > 0

	price, err = s.pricing.Compute(ctx, req)
	metrics.PricingComputed(outcome(err), time.Since(start))

	if err != nil {
		if domain.IsValidation(err) {
			return domain.Price{}, err
		}

		s.logger.ErrorContext(ctx, "pricing failed", slog.Any("error", err))

		return domain.Price{}, asUnavailable("pricing", err)
	}

	s.logger.DebugContext(ctx, "price computed",
		slog.String("suggested_price", price.SuggestedPrice.String()),
		slog.String("total_price", price.TotalPrice.String()),
		slog.String("client_state", req.ClientState),
		slog.Bool("has_history", req.HasHistory),
	)

	return price, nil
}

func (s *QuoteService) flagEnabled(ctx context.Context, flag string, def bool) bool {
	if s.flags == nil {
		return def
	}

	return s.flags.IsEnabled(ctx, flag, def)
}

func priceRequest(userID string, sub domain.QuoteSubmission) (domain.PriceRequest, error) {
	req := domain.PriceRequest{
		UserID:           userID,
		GallonsRequested: sub.GallonsRequested,
		DeliveryAddress:  strings.TrimSpace(sub.DeliveryAddress),
	}

	var errs domain.ValidationErrors

	if d := strings.TrimSpace(sub.DeliveryDate); d == "" {
		errs.Add("deliveryDate", "is required", d)
	} else if parsed, err := time.Parse(domain.DateLayout, d); err != nil {
		errs.Add("deliveryDate", "must be a date in YYYY-MM-DD format", d)
	} else {
		req.DeliveryDate = parsed
	}

	if req.GallonsRequested <= 0 {
		errs.Add("gallonsRequested", "must be at least 1", req.GallonsRequested)
	}

	if req.DeliveryAddress == "" {
		errs.Add("deliveryAddress", "is required", req.DeliveryAddress)
	}

	return req, errs.ErrOrNil()
}

// verifySubmittedPrice rejects submitted amounts that differ from the current price.
func verifySubmittedPrice(in domain.QuoteSubmission, current domain.Price) error {
	var errs domain.ValidationErrors

	if in.SuggestedPrice != nil && !in.SuggestedPrice.Equal(current.SuggestedPrice) {
		errs.Add("suggestedPrice",
			fmt.Sprintf("does not match the current price %s", current.SuggestedPrice.String()),
			in.SuggestedPrice.String())
	}

	if in.TotalPrice != nil && !in.TotalPrice.Equal(current.TotalPrice) {
		errs.Add("totalPrice",
			fmt.Sprintf("does not match the current total %s", current.TotalPrice.String()),
			in.TotalPrice.String())
	}

	return errs.ErrOrNil()
}

func asUnavailable(service string, err error) error {
	if domain.IsUnavailable(err) {
		return err
	}

	return fmt.Errorf("%w: %w", domain.NewUnavailableError(service, "computation failed"), err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case domain.IsValidation(err):
		return metrics.OutcomeInvalid
	case domain.IsConflict(err):
		return metrics.OutcomeConflict
	case domain.IsUnavailable(err):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}
