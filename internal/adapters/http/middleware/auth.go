package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
	"github.com/jsamuelsen/fuelquote/internal/platform/logging"
)

const (
	// ContextKeyClaims is the gin context key for the caller's claims.
	ContextKeyClaims = "claims"

	defaultSubjectHeader = "X-User-ID"
)

var (
	errMissingCredentials = errors.New("missing credentials")
	errMissingSubject     = errors.New("token has no subject")
)

// Claims identifies the caller. Every authenticated caller may use every
// endpoint, for their own data only.
type Claims struct {
	// Subject is the user id quotes and profiles are stored under.
	Subject string
}

// IssueToken signs an HS256 token for subject, valid for cfg.TokenTTL.
func IssueToken(cfg *config.AuthConfig, subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
	}

	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// ParseToken verifies signature, expiry, issuer and audience.
func ParseToken(cfg *config.AuthConfig, raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}

	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	tc := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(raw, tc, func(*jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if tc.Subject == "" {
		return nil, errMissingSubject
	}

	return &Claims{Subject: tc.Subject}, nil
}

// ExtractClaims reads the gateway-forwarded user id header.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := cmpOr(cfg.SubjectHeader, defaultSubjectHeader)

	return &Claims{Subject: strings.TrimSpace(c.GetHeader(subjectHeader))}
}

// GetClaims retrieves claims from the gin context, or nil.
func GetClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ContextKeyClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}

	return nil
}

// UserID returns the authenticated caller's id, or "".
func UserID(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Subject
	}

	return ""
}

// RequireAuth returns middleware that identifies the caller according to
// cfg.Mode and rejects anonymous requests with 401.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, cfg)
		if err != nil {
			logging.FromContext(c.Request.Context()).DebugContext(c.Request.Context(), "authentication failed",
				slog.String("mode", cfg.Mode),
				slog.Any("error", err),
			)
			dto.Abort(c, dto.ErrorCodeUnauthorized, "authentication required")

			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Request = c.Request.WithContext(logging.WithUserID(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg *config.AuthConfig) (*Claims, error) {
	if cfg.Mode == config.AuthModeJWT {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			return nil, errMissingCredentials
		}

		return ParseToken(cfg, raw)
	}

	claims := ExtractClaims(c, cfg)
	if claims.Subject == "" {
		return nil, errMissingCredentials
	}

	return claims, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

func cmpOr(value, fallback string) string {
	if value != "" {
		return value
	}

	return fallback
}
