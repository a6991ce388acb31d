package clients

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
)

func defaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL:     baseURL,
		ServiceName: "pricing-service",
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tweak func(*Config)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := defaultConfig(server.URL)
	if tweak != nil {
		tweak(cfg)
	}

	client, err := New(cfg)
	require.NoError(t, err)

	return client
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()
	require.NoError(t, resp.Body.Close())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.ErrorContains(t, err, "config is required")

	cfg := defaultConfig("")
	cfg.ServiceName = ""
	_, err = New(cfg)
	require.ErrorContains(t, err, "service name is required")
}

func TestClient_HeaderPropagation(t *testing.T) {
	var got http.Header

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}, func(cfg *Config) {
		cfg.AuthFunc = func(r *http.Request) { r.Header.Set("Authorization", "Bearer svc-token") }
	})

	ctx := middleware.ContextWithRequestID(context.Background(), "req-123")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-456")

	resp, err := client.Get(ctx, "/price")
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, "req-123", got.Get(middleware.HeaderRequestID))
	assert.Equal(t, "corr-456", got.Get(middleware.HeaderCorrelationID))
	assert.Equal(t, "Bearer svc-token", got.Get("Authorization"))
}

func TestClient_Retries(t *testing.T) {
	tests := []struct {
		name         string
		failures     int32
		failStatus   int
		wantAttempts int32
		wantStatus   int
		wantErr      error
	}{
		{name: "recovers after server errors", failures: 2, failStatus: http.StatusInternalServerError, wantAttempts: 3, wantStatus: http.StatusOK},
		{name: "client errors are not retried", failures: 100, failStatus: http.StatusBadRequest, wantAttempts: 1, wantStatus: http.StatusBadRequest},
		{name: "gives up after max attempts", failures: 100, failStatus: http.StatusServiceUnavailable, wantAttempts: 3, wantErr: ErrMaxRetriesExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32

			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				if attempts.Add(1) <= tt.failures {
					w.WriteHeader(tt.failStatus)
					return
				}

				w.WriteHeader(http.StatusOK)
			}, nil)

			resp, err := client.Get(context.Background(), "/price")
			assert.Equal(t, tt.wantAttempts, attempts.Load())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.failStatus, statusErr.StatusCode)

				return
			}

			require.NoError(t, err)
			closeBody(t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestClient_PostBodyIsResentOnRetry(t *testing.T) {
	var (
		attempts atomic.Int32
		bodies   = make(chan string, 3)
	)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- string(body)

		if r.Header.Get("Content-Type") != "application/json" || attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.WriteHeader(http.StatusOK)
	}, nil)

	resp, err := client.Post(context.Background(), "/price", map[string]int{"gallonsRequested": 10})
	require.NoError(t, err)
	closeBody(t, resp)

	close(bodies)

	for body := range bodies {
		assert.JSONEq(t, `{"gallonsRequested":10}`, body)
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *Config) {
		cfg.Retry.MaxAttempts = 1
		cfg.Circuit.MaxFailures = 2
	})

	_, err := client.Get(context.Background(), "/price")
	require.Error(t, err)
	assert.Equal(t, StateClosed, client.CircuitState())

	_, err = client.Get(context.Background(), "/price")
	require.Error(t, err)
	assert.Equal(t, StateOpen, client.CircuitState())

	_, err = client.Get(context.Background(), "/price")
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load(), "open circuit never reaches the server")
}

func TestClient_Deadlines(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}

		w.WriteHeader(http.StatusOK)
	}

	t.Run("per-attempt timeout", func(t *testing.T) {
		client := newTestClient(t, slow, func(cfg *Config) {
			cfg.Timeout = 20 * time.Millisecond
			cfg.Retry.MaxAttempts = 1
		})

		_, err := client.Get(context.Background(), "/price")
		require.Error(t, err)
	})

	t.Run("caller deadline is not wrapped as retries", func(t *testing.T) {
		client := newTestClient(t, slow, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := client.Get(ctx, "/price")
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, ErrMaxRetriesExceeded)
	})
}

func TestClient_AuthFuncCalledOnRetry(t *testing.T) {
	var authCalls, requests atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
	}, func(cfg *Config) {
		cfg.Retry.MaxAttempts = 2
		cfg.AuthFunc = func(r *http.Request) {
			authCalls.Add(1)
			r.Header.Set("Authorization", "Bearer svc-token")
		}
	})

	resp, err := client.Get(context.Background(), "/price")
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, int32(2), authCalls.Load())
}

func TestClient_Put(t *testing.T) {
	var method string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusOK)
	}, nil)

	resp, err := client.Put(context.Background(), "/api/v1/profile", struct{}{})
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, http.MethodPut, method)
}

func TestClient_BuildURL(t *testing.T) {
	for _, base := range []string{"https://pricing.internal", "https://pricing.internal/"} {
		client, err := New(defaultConfig(base))
		require.NoError(t, err)

		assert.Equal(t, "https://pricing.internal/price", client.buildURL("/price"))
		assert.Equal(t, "https://pricing.internal/price", client.buildURL("price"))
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := defaultConfig("")
	cfg.Retry.InitialInterval = 100 * time.Millisecond
	cfg.Retry.MaxInterval = time.Second
	cfg.Retry.JitterFactor = 0.1

	client, err := New(cfg)
	require.NoError(t, err)

	assert.InDelta(t, float64(100*time.Millisecond), float64(client.calculateBackoff(0)), float64(10*time.Millisecond))
	assert.InDelta(t, float64(200*time.Millisecond), float64(client.calculateBackoff(1)), float64(20*time.Millisecond))
	assert.InDelta(t, float64(400*time.Millisecond), float64(client.calculateBackoff(2)), float64(40*time.Millisecond))
	assert.LessOrEqual(t, client.calculateBackoff(10), cfg.Retry.MaxInterval+cfg.Retry.MaxInterval/10)
}

type testNetError struct {
	timeout bool
}

func (e testNetError) Error() string   { return "test net error" }
func (e testNetError) Timeout() bool   { return e.timeout }
func (e testNetError) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline exceeded", context.DeadlineExceeded, false},
		{"net error with timeout", testNetError{timeout: true}, true},
		{"net error without timeout", testNetError{timeout: false}, false},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableError(tt.err))
		})
	}
}
