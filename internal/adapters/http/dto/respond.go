package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/fuelquote/internal/domain"
	"github.com/jsamuelsen/fuelquote/internal/platform/logging"
)

// MapDomainError maps a domain error to an HTTP status and error envelope.
// Unknown errors become a generic 500 so internals do not leak.
func MapDomainError(err error) (int, *ErrorResponse) {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation, "request validation failed", validationDetails(err),
		)

	case domain.IsUnavailable(err):
		var unavailable *domain.UnavailableError
		msg := "a dependency is unavailable, try again later"

		if errors.As(err, &unavailable) {
			msg = "service " + unavailable.Service + " is unavailable, try again later"
		}

		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, msg)

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

func validationDetails(err error) map[string]string {
	var many domain.ValidationErrors
	if errors.As(err, &many) {
		return many.Fields()
	}

	var one *domain.ValidationError
	if errors.As(err, &one) && one.Field != "" {
		return map[string]string{one.Field: one.Message}
	}

	return nil
}

// HandleError writes err as an error envelope. Server-side failures are logged
// with the full cause.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}

	c.JSON(status, resp)
}

// Abort stops the handler chain with the given error code.
func Abort(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondBadRequest writes a 400 for requests that could not be decoded.
func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, message).WithTraceID(GetTraceID(c)))
}

// GetTraceID returns the trace id of the request span, if any.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}
