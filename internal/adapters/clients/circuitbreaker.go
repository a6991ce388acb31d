package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/fuelquote/internal/platform/config"
)

// State is the state of a circuit breaker.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the open timeout has passed.
	StateOpen

	// StateHalfOpen lets a limited number of probe requests through.
	StateHalfOpen
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calls to a failing downstream service.
//
//   - Closed → Open after MaxFailures consecutive failures
//   - Open → HalfOpen once Timeout has passed since the last failure
//   - HalfOpen → Closed after HalfOpenLimit consecutive successful probes
//   - HalfOpen → Open on any failed probe
type CircuitBreaker struct {
	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	probes      int
	lastFailure time.Time
	cfg         config.CircuitBreakerConfig

	onStateChange func(from, to State)
	now           func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.HalfOpenLimit = max(cfg.HalfOpenLimit, 1)

	return &CircuitBreaker{
		state: StateClosed,
		cfg:   cfg,
		now:   time.Now,
	}
}

// OnStateChange registers fn to be called after every transition. fn runs
// without the breaker's lock held.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onStateChange = fn
}

// Allow reports whether a request may proceed. An open breaker whose timeout
// has passed moves to half-open and admits the first probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	notify := cb.noop

	defer func() {
		cb.mu.Unlock()
		notify()
	}()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if cb.now().Sub(cb.lastFailure) < cb.cfg.Timeout {
			return false
		}

		notify = cb.transitionLocked(StateHalfOpen)
		cb.probes = 1

		return true

	case StateHalfOpen:
		if cb.probes >= cb.cfg.HalfOpenLimit {
			return false
		}

		cb.probes++

		return true

	default:
		return false
	}
}

// RecordSuccess records a successful request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	notify := cb.noop

	defer func() {
		cb.mu.Unlock()
		notify()
	}()

	switch cb.state {
	case StateClosed:
		cb.failures = 0

	case StateHalfOpen:
		cb.probes = max(cb.probes-1, 0)
		cb.successes++

		if cb.successes >= cb.cfg.HalfOpenLimit {
			notify = cb.transitionLocked(StateClosed)
		}
	}
}

// RecordFailure records a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	notify := cb.noop

	defer func() {
		cb.mu.Unlock()
		notify()
	}()

	cb.lastFailure = cb.now()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			notify = cb.transitionLocked(StateOpen)
		}

	case StateHalfOpen:
		notify = cb.transitionLocked(StateOpen)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// transitionLocked changes state and returns the notification to run once
// the lock is released.
func (cb *CircuitBreaker) transitionLocked(to State) func() {
	from := cb.state
	if from == to {
		return cb.noop
	}

	cb.state = to
	cb.failures = 0
	cb.successes = 0
	cb.probes = 0

	fn := cb.onStateChange
	if fn == nil {
		return cb.noop
	}

	return func() { fn(from, to) }
}

func (cb *CircuitBreaker) noop() {}
