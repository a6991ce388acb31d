// Package metrics holds the Prometheus business metrics of the quote service.
// HTTP-level metrics come from OpenTelemetry; these count what the service does.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fuelquote"

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

var (
	quotesSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_submitted_total",
		Help:      "Quote submissions by outcome.",
	}, []string{"outcome"})

	pricingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pricing_requests_total",
		Help:      "Pricing computations by outcome.",
	}, []string{"outcome"})

	pricingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pricing_duration_seconds",
		Help:      "Time spent computing a price, enrichment included.",
		Buckets:   prometheus.DefBuckets,
	})

	pricingFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pricing_fallbacks_total",
		Help:      "Prices computed locally because the remote engine was unavailable.",
	})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_step_duration_seconds",
		Help:      "Duration of each step of a write operation.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "step", "failed"})

	circuitTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_transitions_total",
		Help:      "Circuit breaker state changes per downstream service.",
	}, []string{"service", "to"})
)

// QuoteSubmitted counts a submission outcome.
func QuoteSubmitted(outcome string) {
	quotesSubmitted.WithLabelValues(outcome).Inc()
}

// PricingComputed counts a pricing outcome and observes its duration.
func PricingComputed(outcome string, took time.Duration) {
	pricingRequests.WithLabelValues(outcome).Inc()
	pricingDuration.Observe(took.Seconds())
}

// PricingFellBack counts a local fallback.
func PricingFellBack() {
	pricingFallbacks.Inc()
}

// StepCompleted observes a write-operation step.
func StepCompleted(operation, step string, took time.Duration, failed bool) {
	f := "false"
	if failed {
		f = "true"
	}

	stepDuration.WithLabelValues(operation, step, f).Observe(took.Seconds())
}

// CircuitTransitioned counts a circuit breaker moving to state to.
func CircuitTransitioned(service, to string) {
	circuitTransitions.WithLabelValues(service, to).Inc()
}
