package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/jsamuelsen/fuelquote/internal/adapters/clients"
	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// ErrUnauthorized is returned when a service rejects our credentials.
var ErrUnauthorized = errors.New("unauthorized")

// maxErrorBody bounds how much of an error body is read.
const maxErrorBody = 64 << 10

// ErrorResponse is an error body. Both the nested {"error":{...}} envelope and
// a flat {"code","message"} shape are understood.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the nested part of an error envelope.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// GetCode returns the error code from either shape.
func (e *ErrorResponse) GetCode() string {
	if e.Error.Code != "" {
		return e.Error.Code
	}

	return e.Code
}

// GetMessage returns the error message from either shape.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse decodes an error body, or returns nil when there is
// nothing useful in it.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetCode() == "" && errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError converts a transport error or a non-2xx response into a domain
// error. entity and id name what was asked for, for not-found errors.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, entity, id string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	return mapStatusCode(resp.StatusCode, ParseErrorResponse(resp.Body), serviceName, entity, id)
}

func mapClientError(err error, serviceName string) error {
	var reason string

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		reason = "circuit breaker open"
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		reason = "retries exhausted"
	default:
		reason = err.Error()
	}

	return fmt.Errorf("%w: %w", domain.NewUnavailableError(serviceName, reason), err)
}

func mapStatusCode(status int, errResp *ErrorResponse, serviceName, entity, id string) error {
	message := http.StatusText(status)
	if errResp != nil && errResp.GetMessage() != "" {
		message = errResp.GetMessage()
	}

	switch {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(entity, id)

	case status == http.StatusConflict:
		return domain.NewConflictError(entity, message)

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)

	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return validationError(errResp, message)

	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, message)

	default:
		return domain.NewValidationError("", fmt.Sprintf("unexpected status %d: %s", status, message))
	}
}

// validationError keeps every field the service reported, in a stable order.
func validationError(errResp *ErrorResponse, message string) error {
	if errResp == nil || len(errResp.Error.Details) == 0 {
		return domain.NewValidationError("", message)
	}

	fields := make([]string, 0, len(errResp.Error.Details))
	for field := range errResp.Error.Details {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	var errs domain.ValidationErrors
	for _, field := range fields {
		errs.Add(field, errResp.Error.Details[field], nil)
	}

	return errs.ErrOrNil()
}
