package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// idMiddlewareConfig configures an ID-propagating middleware.
type idMiddlewareConfig struct {
	headerName string
	contextKey string
	enrichers  []func(ctx context.Context, id string) context.Context
}

// createIDMiddleware reads the ID from the request header, or generates one,
// and makes it available to handlers, logs, outbound calls and the response.
func createIDMiddleware(cfg idMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(cfg.headerName)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(cfg.contextKey, id)
		c.Header(cfg.headerName, id)

		ctx := c.Request.Context()
		for _, enrich := range cfg.enrichers {
			ctx = enrich(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func getIDFromContext(c *gin.Context, key string) string {
	return c.GetString(key)
}
