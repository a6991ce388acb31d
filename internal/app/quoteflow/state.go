package quoteflow

import (
	"errors"
	"fmt"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// State is where the flow is in the quote lifecycle.
type State int

const (
	StateIdle State = iota
	StatePricing
	StateReadyToSubmit
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePricing:
		return "pricing"
	case StateReadyToSubmit:
		return "ready_to_submit"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Kind classifies a failure shown to the user.
type Kind int

const (
	KindValidationFailed Kind = iota + 1
	KindPricingUnavailable
	KindPersistenceFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "validation_failed"
	case KindPricingUnavailable:
		return "pricing_unavailable"
	case KindPersistenceFailed:
		return "persistence_failed"
	default:
		return "unknown"
	}
}

// PromptInputIncomplete is shown instead of a price until the form has enough
// input to price.
const PromptInputIncomplete = "Input requested gallon and date"

var (
	// ErrSubmissionInProgress is returned when the form is used while a
	// submission is in flight.
	ErrSubmissionInProgress = errors.New("submission already in progress")

	// ErrClosed is returned by every method after Close.
	ErrClosed = errors.New("quote flow closed")

	errNoPrice = errors.New("no current price for this input")
)

// Error is a classified failure. It is retained in the snapshot until the
// next successful step.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fields returns per-field messages for validation failures.
func (e *Error) Fields() map[string]string {
	var errs domain.ValidationErrors
	if errors.As(e.Err, &errs) {
		return errs.Fields()
	}

	var single *domain.ValidationError
	if errors.As(e.Err, &single) && single.Field != "" {
		return map[string]string{single.Field: single.Message}
	}

	return nil
}

// Notification is the transient message shown after a successful submission.
type Notification struct {
	Message string
	Visible bool
	Fading  bool
}

// Snapshot is a copy of the flow's state for display.
type Snapshot struct {
	// Version grows with every change. A consumer that sees snapshots from
	// several sources keeps the highest one.
	Version uint64

	State State

	GallonsRequested int64
	DeliveryDate     string
	DeliveryAddress  string

	// Price is zero while no price applies to the current input.
	Price  domain.Price
	Prompt string
	Err    *Error

	Notification Notification

	// LastQuote is the record stored by the most recent successful submission.
	LastQuote *domain.FuelQuote
}
