// Package clients provides the instrumented HTTP client used for downstream
// services such as the remote pricing engine.
package clients

import (
	"errors"
	"fmt"
)

// Transport-level failures. Adapters in acl translate them into domain errors.
var (
	// ErrCircuitOpen means the breaker rejected the call without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError is a 5xx answer that survived every retry.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}
