package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/i18n"
)

func newFormatCmd(app *cli) *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Format values for the stored country's locale",
	}
	cmd.PersistentFlags().StringVar(&locale, "locale", "", "BCP-47 locale to use instead of the stored country's")

	var currency string
	price := &cobra.Command{
		Use:     "price <amount>",
		Short:   "Format a price",
		Example: "  hireloop format price 1234.5 --currency EUR --locale de-DE",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			return app.withFormat(cmd, locale, func(lf *i18n.LocaleFormat, cur string) error {
				if currency != "" {
					cur = strings.ToUpper(currency)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), lf.FormatPrice(amount, cur))
				return err
			})
		},
	}
	price.Flags().StringVar(&currency, "currency", "", "ISO 4217 code (default: the country's currency)")

	number := &cobra.Command{
		Use:   "number <value>",
		Short: "Format a number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid number %q", args[0])
			}
			return app.withFormat(cmd, locale, func(lf *i18n.LocaleFormat, _ string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), lf.FormatNumber(n))
				return err
			})
		},
	}

	cmd.AddCommand(price, number)
	return cmd
}

// withFormat resolves the locale and currency from the stored record (or
// the default country) unless locale is given.
func (a *cli) withFormat(cmd *cobra.Command, locale string, fn func(*i18n.LocaleFormat, string) error) error {
	ctx := cmd.Context()
	return a.session(ctx, func(r *geo.Resolver) error {
		cfg := r.Initial(ctx).Country
		if locale == "" {
			locale = cfg.Locale
		}
		return fn(i18n.FormatFor(locale), cfg.Currency.Code)
	})
}
