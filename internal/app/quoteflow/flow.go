// Package quoteflow drives one user's quote form: it prices input as it
// changes, submits the priced quote once, and reports the outcome.
package quoteflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// Notification timing defaults.
const (
	DefaultFadeAfter  = 4 * time.Second
	DefaultClearAfter = 5 * time.Second
)

// Pricer prices a submission without storing it.
type Pricer interface {
	Price(ctx context.Context, sub domain.QuoteSubmission) (domain.Price, error)
}

// Submitter stores a priced submission.
type Submitter interface {
	Submit(ctx context.Context, sub domain.QuoteSubmission) (*domain.FuelQuote, error)
}

// ProfileSource supplies the user's delivery profile.
type ProfileSource interface {
	GetProfile(ctx context.Context) (*domain.DeliveryProfile, error)
}

// Validator is the gate every submission passes before it is sent.
type Validator interface {
	Validate(sub domain.QuoteSubmission) (*domain.FuelQuoteData, error)
}

// Config wires a Flow.
type Config struct {
	Pricer    Pricer
	Submitter Submitter
	Profiles  ProfileSource
	Validator Validator

	// FadeAfter and ClearAfter time the success notification.
	FadeAfter  time.Duration
	ClearAfter time.Duration

	// OnChange, when set, receives a snapshot after every change. Calls are
	// serialized and arrive in Version order; a snapshot overtaken by a newer
	// one before delivery is skipped. OnChange may read Snapshot but must not
	// change the flow.
	OnChange func(Snapshot)

	Logger *slog.Logger
}

// Flow owns the state of one quote form. All changes go through its methods.
type Flow struct {
	cfg    Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu     sync.Mutex
	closed bool
	state  State

	gallons int64
	date    string
	address string

	price     domain.Price
	err       *Error
	lastQuote *domain.FuelQuote

	// seq is the number of the latest pricing request; older results are dropped.
	seq uint64

	// inflight counts running pricing calls; idle is closed when it drops to zero.
	inflight int
	idle     chan struct{}

	submitting bool

	notice       Notification
	noticeID     uint64
	noticeCancel context.CancelFunc

	// version counts published changes.
	version uint64

	// deliverMu orders OnChange calls; delivered is the last version sent.
	deliverMu sync.Mutex
	delivered uint64
}

// New creates a flow in the Idle state.
func New(cfg Config) (*Flow, error) {
	if cfg.Pricer == nil || cfg.Submitter == nil || cfg.Validator == nil {
		return nil, errors.New("quoteflow: pricer, submitter and validator are required")
	}

	if cfg.FadeAfter <= 0 {
		cfg.FadeAfter = DefaultFadeAfter
	}

	if cfg.ClearAfter <= cfg.FadeAfter {
		cfg.ClearAfter = cfg.FadeAfter + (DefaultClearAfter - DefaultFadeAfter)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	idle := make(chan struct{})
	close(idle)

	return &Flow{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "quoteflow")),
		ctx:    ctx,
		cancel: cancel,
		idle:   idle,
	}, nil
}

// Snapshot returns the current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() Snapshot {
	s := Snapshot{
		Version:          f.version,
		State:            f.state,
		GallonsRequested: f.gallons,
		DeliveryDate:     f.date,
		DeliveryAddress:  f.address,
		Price:            f.price,
		Err:              f.err,
		Notification:     f.notice,
		LastQuote:        f.lastQuote,
	}

	if !f.inputComplete() {
		s.Prompt = PromptInputIncomplete
	}

	return s
}

// publishLocked records a change and returns the snapshot to deliver.
func (f *Flow) publishLocked() Snapshot {
	f.version++

	return f.snapshotLocked()
}

// LoadProfile fills the delivery address from the user's profile.
func (f *Flow) LoadProfile(ctx context.Context) error {
	if f.cfg.Profiles == nil {
		return errors.New("quoteflow: no profile source configured")
	}

	profile, err := f.cfg.Profiles.GetProfile(ctx)
	if err != nil {
		return err
	}

	return f.SetDeliveryAddress(profile.DeliveryAddress())
}

// SetGallons changes the requested gallons and reprices when possible.
func (f *Flow) SetGallons(gallons int64) error {
	return f.edit(func() { f.gallons = gallons })
}

// SetDeliveryDate changes the delivery date (YYYY-MM-DD) and reprices when possible.
func (f *Flow) SetDeliveryDate(date string) error {
	return f.edit(func() { f.date = strings.TrimSpace(date) })
}

// SetDeliveryAddress changes the delivery address and reprices when possible.
func (f *Flow) SetDeliveryAddress(address string) error {
	return f.edit(func() { f.address = strings.TrimSpace(address) })
}

// Reset clears the gallons and date, keeping the delivery address.
func (f *Flow) Reset() error {
	return f.edit(func() {
		f.gallons = 0
		f.date = ""
	})
}

func (f *Flow) edit(apply func()) error {
	f.mu.Lock()

	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}

	if f.submitting {
		f.mu.Unlock()
		return ErrSubmissionInProgress
	}

	apply()
	f.inputChangedLocked()

	snap := f.publishLocked()
	f.mu.Unlock()

	f.changed(snap)

	return nil
}

func (f *Flow) inputComplete() bool {
	return f.gallons > 0 && f.date != "" && f.address != ""
}

// inputChangedLocked drops the current price and starts pricing the new
// input if it is complete.
func (f *Flow) inputChangedLocked() {
	f.seq++
	f.price = domain.Price{}
	f.err = nil

	if !f.inputComplete() {
		f.state = StateIdle
		return
	}

	f.state = StatePricing
	f.startPricingLocked(f.seq, f.submissionLocked())
}

func (f *Flow) submissionLocked() domain.QuoteSubmission {
	sub := domain.QuoteSubmission{
		GallonsRequested: f.gallons,
		DeliveryDate:     f.date,
		DeliveryAddress:  f.address,
	}

	if !f.price.IsZero() {
		suggested, total := f.price.SuggestedPrice, f.price.TotalPrice
		sub.SuggestedPrice = &suggested
		sub.TotalPrice = &total
	}

	return sub
}

func (f *Flow) startPricingLocked(seq uint64, sub domain.QuoteSubmission) {
	if f.inflight == 0 {
		f.idle = make(chan struct{})
	}

	f.inflight++
	f.tasks.Add(1)

	go func() {
		defer f.tasks.Done()

		price, err := f.cfg.Pricer.Price(f.ctx, sub)
		f.pricingDone(seq, price, err)
	}()
}

func (f *Flow) pricingDone(seq uint64, price domain.Price, err error) {
	f.mu.Lock()

	f.inflight--
	if f.inflight == 0 {
		close(f.idle)
	}

	if f.closed || seq != f.seq {
		f.mu.Unlock()
		f.logger.Debug("discarding stale price", slog.Uint64("seq", seq))

		return
	}

	switch {
	case f.submitting:
		// Submit owns the state until it finishes; keep only the price.
		if err == nil {
			f.price = price
		}
	case err != nil:
		f.state = StateIdle
		f.err = classify(err, KindPricingUnavailable)
	default:
		f.state = StateReadyToSubmit
		f.price = price
		f.err = nil
	}

	snap := f.publishLocked()
	f.mu.Unlock()

	f.changed(snap)
}

// Settle blocks until no pricing call is running.
func (f *Flow) Settle(ctx context.Context) error {
	f.mu.Lock()
	idle := f.idle
	f.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit validates the form and stores the priced quote. Only one submission
// runs at a time; a second call fails with ErrSubmissionInProgress. Failures
// are also kept in the snapshot, and the user may submit again.
func (f *Flow) Submit(ctx context.Context) (*domain.FuelQuote, error) {
	f.mu.Lock()

	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}

	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}

	priced := !f.price.IsZero() && (f.state == StateReadyToSubmit || f.state == StateFailed)
	sub := f.submissionLocked()
	f.submitting = true
	f.state = StateSubmitting
	f.err = nil
	snap := f.publishLocked()
	f.mu.Unlock()

	f.changed(snap)

	if _, err := f.cfg.Validator.Validate(sub); err != nil {
		return nil, f.submitFailed(classify(err, KindValidationFailed))
	}

	if !priced {
		return nil, f.submitFailed(&Error{Kind: KindPricingUnavailable, Err: errNoPrice})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(f.ctx, cancel)
	defer stop()

	record, err := f.cfg.Submitter.Submit(ctx, sub)
	if err != nil {
		failure := classify(err, KindPersistenceFailed)
		if priceRejected(failure) {
			return nil, f.submitFailedRepricing(failure)
		}

		return nil, f.submitFailed(failure)
	}

	f.mu.Lock()

	f.submitting = false
	if f.closed {
		f.mu.Unlock()
		return record, nil
	}

	f.state = StateSucceeded
	f.lastQuote = record
	f.gallons = 0
	f.date = ""
	f.price = domain.Price{}
	f.seq++
	f.showNotificationLocked("Fuel quote submitted")

	snap = f.publishLocked()
	f.mu.Unlock()

	f.changed(snap)

	return record, nil
}

func (f *Flow) submitFailed(failure *Error) error {
	f.mu.Lock()

	f.submitting = false
	if f.closed {
		f.mu.Unlock()
		return failure
	}

	f.state = StateFailed
	f.err = failure
	snap := f.publishLocked()
	f.mu.Unlock()

	f.changed(snap)

	return failure
}

// submitFailedRepricing records a failure caused by an outdated price, drops
// that price and asks for a fresh one so the next Submit can succeed.
func (f *Flow) submitFailedRepricing(failure *Error) error {
	f.mu.Lock()

	f.submitting = false
	if f.closed {
		f.mu.Unlock()
		return failure
	}

	f.state = StateFailed
	f.err = failure
	f.seq++
	f.price = domain.Price{}
	f.startPricingLocked(f.seq, f.submissionLocked())

	snap := f.publishLocked()
	f.mu.Unlock()

	f.changed(snap)

	return failure
}

// priceRejected reports whether the server refused the submitted amounts.
func priceRejected(failure *Error) bool {
	if failure.Kind != KindValidationFailed {
		return false
	}

	fields := failure.Fields()
	_, suggested := fields["suggestedPrice"]
	_, total := fields["totalPrice"]

	return suggested || total
}

// Close cancels in-flight work and the notification timer, then waits for
// them to stop. It is safe to call more than once.
func (f *Flow) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}

	f.closed = true
	f.cancel()
	f.mu.Unlock()

	f.tasks.Wait()
}

func (f *Flow) changed(s Snapshot) {
	if f.cfg.OnChange == nil {
		return
	}

	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()

	if s.Version <= f.delivered {
		return
	}

	f.delivered = s.Version
	f.cfg.OnChange(s)
}

// classify maps an error to the kind the user sees. Validation errors stay
// validation failures wherever they come from.
func classify(err error, fallback Kind) *Error {
	if domain.IsValidation(err) {
		return &Error{Kind: KindValidationFailed, Err: err}
	}

	return &Error{Kind: fallback, Err: err}
}
