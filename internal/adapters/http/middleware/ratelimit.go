package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuelquote/internal/platform/logging"
)

// maxTrackedCallers bounds the limiter map; beyond it idle callers are swept.
const maxTrackedCallers = 10_000

type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per caller: the authenticated user when
// known, otherwise the client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*callerLimiter
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with the given burst.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*callerLimiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether key may make a request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	entry, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxTrackedCallers {
			rl.sweepLocked(now)
		}

		entry = &callerLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}

	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// sweepLocked drops callers idle for longer than rl.idle.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.idle {
			delete(rl.limiters, key)
		}
	}
}

// Handler returns the gin middleware. It must run after RequireAuth so
// callers are keyed by user id.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := UserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		if !rl.Allow(key) {
			logging.FromContext(c.Request.Context()).WarnContext(c.Request.Context(), "rate limit exceeded",
				slog.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", "1")
			dto.Abort(c, dto.ErrorCodeRateLimited, "too many requests")

			return
		}

		c.Next()
	}
}
