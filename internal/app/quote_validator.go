package app

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// quoteRules carries the structural constraints of a quote submission.
type quoteRules struct {
	GallonsRequested int64  `json:"gallonsRequested" validate:"gte=1,lte=10000000"`
	DeliveryDate     string `json:"deliveryDate"     validate:"required,datetime=2006-01-02"`
	DeliveryAddress  string `json:"deliveryAddress"  validate:"required,max=255"`
}

// QuoteValidator checks a submission and turns it into FuelQuoteData. It either
// accepts the whole quote or reports every failing field; it never returns
// partial data.
type QuoteValidator struct {
	validate *validator.Validate
	now      func() time.Time
	location *time.Location
}

// ValidatorOption configures a QuoteValidator.
type ValidatorOption func(*QuoteValidator)

// WithClock sets the clock used to decide what "today" is.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *QuoteValidator) {
		v.now = now
	}
}

// WithLocation sets the time zone delivery dates are interpreted in.
func WithLocation(loc *time.Location) ValidatorOption {
	return func(v *QuoteValidator) {
		if loc != nil {
			v.location = loc
		}
	}
}

// NewQuoteValidator creates a validator. Delivery dates default to the UTC calendar.
func NewQuoteValidator(opts ...ValidatorOption) *QuoteValidator {
	v := &QuoteValidator{
		validate: newStructValidator(),
		now:      time.Now,
		location: time.UTC,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate checks gallons, delivery date, delivery address and, when present,
// the prices. The returned data has no user id; callers attach it.
func (v *QuoteValidator) Validate(sub domain.QuoteSubmission) (*domain.FuelQuoteData, error) {
	rules := quoteRules{
		GallonsRequested: sub.GallonsRequested,
		DeliveryDate:     strings.TrimSpace(sub.DeliveryDate),
		DeliveryAddress:  strings.TrimSpace(sub.DeliveryAddress),
	}

	errs := fieldErrors(v.validate.Struct(rules))

	var deliveryDate time.Time
	if _, failed := errs.Fields()["deliveryDate"]; !failed {
		deliveryDate, _ = time.ParseInLocation(domain.DateLayout, rules.DeliveryDate, v.location)

		today := v.now().In(v.location).Format(domain.DateLayout)
		if rules.DeliveryDate < today {
			errs.Add("deliveryDate", "must be today or later", rules.DeliveryDate)
		}
	}

	checkAmount(&errs, "suggestedPrice", sub.SuggestedPrice)
	checkAmount(&errs, "totalPrice", sub.TotalPrice)

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	data := &domain.FuelQuoteData{
		GallonsRequested: rules.GallonsRequested,
		DeliveryDate:     time.Date(deliveryDate.Year(), deliveryDate.Month(), deliveryDate.Day(), 0, 0, 0, 0, time.UTC),
		DeliveryAddress:  rules.DeliveryAddress,
	}

	if sub.SuggestedPrice != nil {
		data.SuggestedPrice = *sub.SuggestedPrice
	}

	if sub.TotalPrice != nil {
		data.TotalPrice = *sub.TotalPrice
	}

	return data, nil
}

func checkAmount(errs *domain.ValidationErrors, field string, amount *decimal.Decimal) {
	if amount != nil && amount.IsNegative() {
		errs.Add(field, "must not be negative", amount.String())
	}
}

// newStructValidator returns a validator that reports fields by their json names.
func newStructValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	return v
}

// fieldErrors converts validator output into domain validation errors.
func fieldErrors(err error) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("", err.Error(), nil)

		return errs
	}

	for _, fe := range verrs {
		errs.Add(fe.Field(), ruleMessage(fe), fe.Value())
	}

	return errs
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "alpha":
		return "must contain only letters"
	case "numeric":
		return "must contain only digits"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
