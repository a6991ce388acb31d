package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuelquote/internal/adapters/storage/memory"
	"github.com/jsamuelsen/fuelquote/internal/app"
	"github.com/jsamuelsen/fuelquote/internal/domain/pricing"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// testAPI wires the handlers to real services over in-memory stores.
type testAPI struct {
	engine *gin.Engine
	quotes *memory.QuoteStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	quotes := memory.NewQuoteStore()
	profiles := memory.NewProfileStore()

	quoteSvc := app.NewQuoteService(app.QuoteServiceConfig{
		Quotes:    quotes,
		Profiles:  profiles,
		Pricing:   pricing.NewMarginEngine(pricing.DefaultFactors()),
		Validator: app.NewQuoteValidator(app.WithClock(func() time.Time { return testNow })),
		Logger:    logger,
	})

	engine := gin.New()
	api := engine.Group("/api/v1")
	api.Use(middleware.RequireAuth(&config.AuthConfig{Mode: config.AuthModeHeader, SubjectHeader: "X-User-ID"}))

	NewQuoteHandler(quoteSvc).RegisterQuoteRoutes(api)
	NewProfileHandler(app.NewProfileService(profiles, logger)).RegisterProfileRoutes(api)

	return &testAPI{engine: engine, quotes: quotes}
}

// do sends a request as user and returns the recorder.
func (a *testAPI) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if user != "" {
		req.Header.Set("X-User-ID", user)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())

	return body
}

func texasProfile() map[string]any {
	return map[string]any{
		"fullName": "Jo Customer",
		"address1": "1 Main St",
		"city":     "Houston",
		"state":    "tx",
		"zipcode":  "77001",
	}
}

func quoteRequest(gallons int64) map[string]any {
	return map[string]any{
		"gallonsRequested": gallons,
		"deliveryDate":     "2026-11-01",
		"deliveryAddress":  "1 Main St, Houston, TX, 77001",
	}
}
