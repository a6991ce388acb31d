package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/fuelquote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/fuelquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuelquote/internal/app"
	"github.com/jsamuelsen/fuelquote/internal/app/quoteflow"
	"github.com/jsamuelsen/fuelquote/internal/domain"
	"github.com/jsamuelsen/fuelquote/internal/platform/config"
)

func newProfileCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the delivery profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := opts.api(cmd)
			if err != nil {
				return err
			}

			p, err := api.GetProfile(cmd.Context())
			if err != nil {
				return err
			}

			printProfile(cmd.OutOrStdout(), p)

			return nil
		},
	}

	var in domain.DeliveryProfile

	set := &cobra.Command{
		Use:   "set",
		Short: "Create or replace the delivery profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := opts.api(cmd)
			if err != nil {
				return err
			}

			p, err := api.SaveProfile(cmd.Context(), in)
			if err != nil {
				return describe(err)
			}

			printProfile(cmd.OutOrStdout(), p)

			return nil
		},
	}

	f := set.Flags()
	f.StringVar(&in.FullName, "full-name", "", "full name")
	f.StringVar(&in.Address1, "address1", "", "street address")
	f.StringVar(&in.Address2, "address2", "", "apartment, suite, etc.")
	f.StringVar(&in.City, "city", "", "city")
	f.StringVar(&in.State, "state", "", "two-letter state code")
	f.StringVar(&in.Zipcode, "zipcode", "", "ZIP code")

	cmd.AddCommand(set)

	return cmd
}

// quoteInput is the form entered on the command line.
type quoteInput struct {
	gallons int64
	date    string
}

func (q *quoteInput) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&q.gallons, "gallons", 0, "gallons requested")
	cmd.Flags().StringVar(&q.date, "date", "", "delivery date (YYYY-MM-DD)")
}

// fill loads the profile address into a new flow, enters the form and waits
// for the price.
func (q *quoteInput) fill(ctx context.Context, api *acl.FuelQuoteAPI) (*quoteflow.Flow, error) {
	flow, err := quoteflow.New(quoteflow.Config{
		Pricer:    api,
		Submitter: api,
		Profiles:  api,
		Validator: app.NewQuoteValidator(),
	})
	if err != nil {
		return nil, err
	}

	steps := []func() error{
		func() error { return flow.LoadProfile(ctx) },
		func() error { return flow.SetDeliveryDate(q.date) },
		func() error { return flow.SetGallons(q.gallons) },
		func() error { return flow.Settle(ctx) },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			flow.Close()

			if domain.IsNotFound(err) {
				return nil, errors.New("no delivery profile yet; run `quotectl profile set` first")
			}

			return nil, err
		}
	}

	return flow, nil
}

func newPriceCmd(opts *options) *cobra.Command {
	var in quoteInput

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Show the current price for a quote without submitting it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := opts.api(cmd)
			if err != nil {
				return err
			}

			flow, err := in.fill(cmd.Context(), api)
			if err != nil {
				return err
			}
			defer flow.Close()

			snap := flow.Snapshot()

			switch {
			case snap.Err != nil:
				return describe(snap.Err)
			case snap.Prompt != "":
				fmt.Fprintln(cmd.OutOrStdout(), snap.Prompt)
			default:
				printPrice(cmd.OutOrStdout(), snap)
			}

			return nil
		},
	}

	in.bind(cmd)

	return cmd
}

func newSubmitCmd(opts *options) *cobra.Command {
	var in quoteInput

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Price and submit a quote",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := opts.api(cmd)
			if err != nil {
				return err
			}

			flow, err := in.fill(cmd.Context(), api)
			if err != nil {
				return err
			}
			defer flow.Close()

			record, err := flow.Submit(cmd.Context())
			if err != nil {
				return describe(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, flow.Snapshot().Notification.Message)
			printQuotes(out, []*domain.FuelQuote{record})

			return nil
		},
	}

	in.bind(cmd)

	return cmd
}

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		limit  int
		cursor string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List submitted quotes, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := opts.api(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for {
				page, err := api.History(cmd.Context(), cursor, limit)
				if err != nil {
					return err
				}

				printQuotes(out, page.Quotes)

				if !page.HasMore {
					return nil
				}

				if !all {
					fmt.Fprintf(out, "more: --cursor %s\n", page.NextCursor)
					return nil
				}

				cursor = page.NextCursor
			}
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size (server default when 0)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "continue after a previous page")
	cmd.Flags().BoolVar(&all, "all", false, "follow every page")

	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		dir     string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token with the service's shared secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFrom(dir, profile)
			if err != nil {
				return err
			}

			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not set for this profile")
			}

			token, err := middleware.IssueToken(&cfg.Auth, subject, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "user id to put in the token")
	cmd.Flags().StringVar(&dir, "config-dir", config.DefaultConfigDir, "directory holding the service configuration")
	cmd.Flags().StringVar(&profile, "profile", "local", "configuration profile")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

// describe adds the failing fields to validation errors.
func describe(err error) error {
	var fields map[string]string

	var flowErr *quoteflow.Error
	if errors.As(err, &flowErr) {
		fields = flowErr.Fields()
	} else {
		var errs domain.ValidationErrors
		if errors.As(err, &errs) {
			fields = errs.Fields()
		}
	}

	if len(fields) == 0 {
		return err
	}

	msg := err.Error()
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		msg += fmt.Sprintf("\n  %s: %s", name, fields[name])
	}

	return errors.New(msg)
}

func printProfile(w io.Writer, p *domain.DeliveryProfile) {
	fmt.Fprintf(w, "delivery address: %s\n", p.DeliveryAddress())
}

func printPrice(w io.Writer, s quoteflow.Snapshot) {
	fmt.Fprintf(w, "%d gallons on %s to %s\n", s.GallonsRequested, s.DeliveryDate, s.DeliveryAddress)
	fmt.Fprintf(w, "suggested price: %s/gal\n", s.Price.SuggestedPrice.String())
	fmt.Fprintf(w, "total:           %s\n", s.Price.TotalPrice.StringFixed(2))
}

func printQuotes(w io.Writer, quotes []*domain.FuelQuote) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tGALLONS\tPRICE\tTOTAL\tADDRESS")

	for _, q := range quotes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			q.ID,
			q.DeliveryDate.Format(domain.DateLayout),
			q.GallonsRequested,
			q.SuggestedPrice.String(),
			q.TotalPrice.StringFixed(2),
			q.DeliveryAddress,
		)
	}

	_ = tw.Flush()
}
