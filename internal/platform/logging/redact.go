package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// secretFields never reach a sink: credentials for the API, the token
// signing key and the database connection string.
var secretFields = []string{
	"password", "secret", "token", "jwt_secret", "authorization", "cookie",
	"access_token", "refresh_token", "api_key", "credentials", "dsn", "database_url",
}

// customerFields hold delivery profile PII. Quote records log the composed
// delivery address, never the profile parts.
var customerFields = []string{"full_name", "fullName", "address1", "address2", "zipcode"}

var (
	jwtValue    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerValue = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`)
	postgresURL = regexp.MustCompile(`^postgres(ql)?://[^:/@]+:[^@]+@`)
)

// DefaultRedactOptions returns the masq options applied to every sink.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(secretFields)+len(customerFields)+4)

	for _, name := range secretFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, name := range customerFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(jwtValue),
		masq.WithRegex(bearerValue),
		masq.WithRegex(postgresURL),
	)
}

// NewReplaceAttr returns a redacting slog ReplaceAttr hook. Extra options are
// applied on top of the defaults.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), extra...)...)
}
