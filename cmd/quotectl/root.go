package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/fuelquote/internal/adapters/clients"
	"github.com/jsamuelsen/fuelquote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
	"github.com/jsamuelsen/fuelquote/internal/platform/logging"
)

const (
	defaultAPIURL  = "http://localhost:8080/api/v1"
	apiServiceName = "fuelquote-api"
)

// options are the flags shared by every subcommand.
type options struct {
	apiURL   string
	user     string
	token    string
	timeout  time.Duration
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "quotectl",
		Short:         "Price and submit fuel quotes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", envOr("FUELQUOTE_API_URL", defaultAPIURL), "base URL of the fuel quote API")
	flags.StringVar(&opts.user, "user", os.Getenv("FUELQUOTE_USER"), "user id sent as X-User-ID (header auth)")
	flags.StringVar(&opts.token, "token", os.Getenv("FUELQUOTE_TOKEN"), "bearer token (jwt auth)")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newProfileCmd(opts),
		newPriceCmd(opts),
		newSubmitCmd(opts),
		newHistoryCmd(opts),
		newTokenCmd(),
	)

	return root
}

// api builds a client for the fuel quote API that authenticates as the
// configured user or token.
func (o *options) api(cmd *cobra.Command) (*acl.FuelQuoteAPI, error) {
	if o.user == "" && o.token == "" {
		return nil, errors.New("either --user or --token is required")
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   o.logLevel,
		Format:  "pretty",
		Service: "quotectl",
	}, cmd.ErrOrStderr())
	logging.SetDefault(logger)

	reads, err := o.client(logger, readRetry())
	if err != nil {
		return nil, err
	}

	// Quote submission is not idempotent, so it gets a single attempt.
	submits, err := o.client(logger, config.RetryConfig{MaxAttempts: 1})
	if err != nil {
		return nil, err
	}

	return acl.NewFuelQuoteAPI(reads, apiServiceName, acl.WithSubmitClient(submits)), nil
}

func (o *options) client(logger *slog.Logger, retry config.RetryConfig) (*clients.Client, error) {
	return clients.New(&clients.Config{
		BaseURL:     o.apiURL,
		ServiceName: apiServiceName,
		Timeout:     o.timeout,
		Retry:       retry,
		Circuit:     config.CircuitBreakerConfig{MaxFailures: config.DefaultClientCircuitMaxFailures, Timeout: 30 * time.Second, HalfOpenLimit: 1},
		AuthFunc:    o.authenticate,
		Logger:      logger,
	})
}

// readRetry is the policy for every request except quote submission.
func readRetry() config.RetryConfig {
	return config.RetryConfig{
		MaxAttempts:     config.DefaultClientRetryMaxAttempts,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      config.DefaultClientRetryMultiplier,
		JitterFactor:    config.DefaultClientRetryJitterFactor,
	}
}

func (o *options) authenticate(req *http.Request) {
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
		return
	}

	req.Header.Set("X-User-ID", o.user)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
