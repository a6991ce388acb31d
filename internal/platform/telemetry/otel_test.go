package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))

	_, span := StartSpan(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}

func TestNewResource(t *testing.T) {
	res, err := newResource(&Config{
		ServiceName:   "fuelquote",
		Version:       "1.2.3",
		Environment:   "test",
		Store:         "postgres",
		PricingEngine: "remote",
	})
	require.NoError(t, err)

	got := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		got[kv.Key] = kv.Value.Emit()
	}

	assert.Equal(t, "fuelquote", got["service.name"])
	assert.Equal(t, "1.2.3", got["service.version"])
	assert.Equal(t, "postgres", got["fuelquote.store"])
	assert.Equal(t, "remote", got["fuelquote.pricing_engine"])
}
