package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
	"github.com/jsamuelsen/fuelquote/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "0123456789abcdef0123456789abcdef"

func jwtConfig() *config.AuthConfig {
	return &config.AuthConfig{
		Mode:      config.AuthModeJWT,
		JWTSecret: testSecret,
		Issuer:    "fuelquote",
		Audience:  "fuelquote-api",
		TokenTTL:  time.Hour,
	}
}

func headerConfig() *config.AuthConfig {
	return &config.AuthConfig{Mode: config.AuthModeHeader, SubjectHeader: "X-User-ID", TokenTTL: time.Hour}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func TestIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromGin    func(*gin.Context) string
		fromCtx    func(context.Context) string
	}{
		{"request id", RequestID(), HeaderRequestID, GetRequestID, RequestIDFromContext},
		{"correlation id", CorrelationID(), HeaderCorrelationID, GetCorrelationID, CorrelationIDFromContext},
	}

	for _, tt := range tests {
		for _, incoming := range []string{"", "upstream-123"} {
			t.Run(tt.name+"/"+incoming, func(t *testing.T) {
				var ginID, ctxID string

				router := gin.New()
				router.Use(tt.middleware)
				router.GET("/test", func(c *gin.Context) {
					ginID = tt.fromGin(c)
					ctxID = tt.fromCtx(c.Request.Context())
					c.Status(http.StatusOK)
				})

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				if incoming != "" {
					req.Header.Set(tt.header, incoming)
				}

				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				require.NotEmpty(t, ginID)
				assert.Equal(t, ginID, ctxID)
				assert.Equal(t, ginID, w.Header().Get(tt.header))

				if incoming != "" {
					assert.Equal(t, incoming, ginID)
				}
			})
		}
	}
}

func TestContextHelpers_NilSafe(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	assert.Empty(t, RequestIDFromContext(nil))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestRequireAuth_HeaderMode(t *testing.T) {
	router := gin.New()
	router.Use(RequireAuth(headerConfig()))
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	t.Run("forwarded user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, w).Error.Code)
	})
}

func TestExtractClaims(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.AuthConfig
		headers map[string]string
		want    *Claims
	}{
		{
			name:    "default header, trimmed",
			cfg:     &config.AuthConfig{},
			headers: map[string]string{"X-User-ID": " user-1 "},
			want:    &Claims{Subject: "user-1"},
		},
		{
			name:    "configured header",
			cfg:     &config.AuthConfig{SubjectHeader: "X-Forwarded-User"},
			headers: map[string]string{"X-Forwarded-User": "user-2", "X-User-ID": "someone-else"},
			want:    &Claims{Subject: "user-2"},
		},
		{
			name:    "other identity headers are ignored",
			cfg:     &config.AuthConfig{},
			headers: map[string]string{"X-User-ID": "user-3", "X-User-Roles": "admin"},
			want:    &Claims{Subject: "user-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, ExtractClaims(c, tt.cfg))
		})
	}
}

func TestRequireAuth_JWTMode(t *testing.T) {
	cfg := jwtConfig()
	now := time.Now()

	valid, err := IssueToken(cfg, "user-1", now)
	require.NoError(t, err)

	expired, err := IssueToken(cfg, "user-1", now.Add(-2*time.Hour))
	require.NoError(t, err)

	otherSecret := *cfg
	otherSecret.JWTSecret = strings.Repeat("x", 32)
	forged, err := IssueToken(&otherSecret, "user-1", now)
	require.NoError(t, err)

	otherAudience := *cfg
	otherAudience.Audience = "someone-else"
	wrongAudience, err := IssueToken(&otherAudience, "user-1", now)
	require.NoError(t, err)

	noSubject, err := IssueToken(cfg, "", now)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"scheme is case-insensitive", "bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"bad signature", "Bearer " + forged, http.StatusUnauthorized},
		{"wrong audience", "Bearer " + wrongAudience, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	router := gin.New()
	router.Use(RequireAuth(cfg))
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
			}
		})
	}
}

func TestParseToken_Claims(t *testing.T) {
	cfg := jwtConfig()

	token, err := IssueToken(cfg, "user-7", time.Now())
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, &Claims{Subject: "user-7"}, claims)
}

func TestRateLimiter(t *testing.T) {
	t.Run("per caller buckets", func(t *testing.T) {
		rl := NewRateLimiter(1, 2)
		frozen := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return frozen }

		assert.True(t, rl.Allow("user-1"))
		assert.True(t, rl.Allow("user-1"))
		assert.False(t, rl.Allow("user-1"), "burst exhausted")
		assert.True(t, rl.Allow("user-2"), "other callers unaffected")

		frozen = frozen.Add(time.Second)
		assert.True(t, rl.Allow("user-1"), "refilled after a second")
	})

	t.Run("idle callers are swept", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return now }

		rl.Allow("old")
		now = now.Add(time.Hour)
		rl.sweepLocked(now)

		assert.Empty(t, rl.limiters)
	})

	t.Run("middleware answers 429", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 1)

		router := gin.New()
		router.Use(rl.Handler())
		router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		first := httptest.NewRecorder()
		router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "1", second.Header().Get("Retry-After"))
		assert.Equal(t, dto.ErrorCodeRateLimited, decodeError(t, second).Error.Code)
	})
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeInternal, decodeError(t, w).Error.Code)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hasDeadline bool

	router := gin.New()
	router.Use(Timeout(time.Second))
	router.GET("/x", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.True(t, hasDeadline)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	})
	router.Use(Logging())
	router.GET("/api/v1/quotes", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/-/live", nil))
	assert.Empty(t, buf.String(), "internal endpoints are not logged")

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/quotes?limit=5", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/api/v1/quotes?limit=5", entry["path"])
	assert.InDelta(t, 400, entry["status"], 0)
}
