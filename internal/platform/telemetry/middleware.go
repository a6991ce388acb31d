package telemetry

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/fuelquote"

// Tracer returns the service tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a child span on the service tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// httpMetrics holds HTTP server instruments.
type httpMetrics struct {
	requestDuration metric.Float64Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics() (*httpMetrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{requestDuration: requestDuration, activeRequests: activeRequests}, nil
}

// Middleware returns the tracing middleware followed by request metrics. The
// trace id is echoed in X-Trace-ID so error envelopes can be correlated.
func Middleware(serviceName string) []gin.HandlerFunc {
	m, err := newHTTPMetrics()
	if err != nil {
		otel.Handle(err)
	}

	record := func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.request.method", c.Request.Method)

		if m != nil {
			m.activeRequests.Add(ctx, 1, metric.WithAttributes(method, route))
			defer m.activeRequests.Add(ctx, -1, metric.WithAttributes(method, route))
		}

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header("X-Trace-ID", sc.TraceID().String())
		}

		c.Next()

		if m != nil {
			m.requestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				method, route, attribute.Int("http.response.status_code", c.Writer.Status()),
			))
		}
	}

	return []gin.HandlerFunc{otelgin.Middleware(serviceName), record}
}
