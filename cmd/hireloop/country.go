package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/localization"
)

func newCountryCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "country",
		Short: "Show, choose or list supported countries",
	}
	cmd.AddCommand(
		newCountrySetCmd(app),
		newCountryClearCmd(app),
		newCountryShowCmd(app),
		newCountryListCmd(app),
	)
	return cmd
}

func newCountrySetCmd(app *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "set <code>",
		Short:   "Choose a country; the choice never expires",
		Example: "  hireloop country set de",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return app.session(ctx, func(r *geo.Resolver) error {
				l := localization.New(r, localization.WithLogger(app.log))
				if !l.SetCountry(ctx, args[0]) {
					return fmt.Errorf("unsupported country %q, see `hireloop country list`", args[0])
				}
				return printLocation(cmd.OutOrStdout(), l.Result(), asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newCountryClearCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return app.session(ctx, func(r *geo.Resolver) error {
				localization.New(r, localization.WithLogger(app.log)).Clear(ctx)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Stored location cleared.")
				return err
			})
		},
	}
}

func newCountryShowCmd(app *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored location without detecting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return app.session(ctx, func(r *geo.Resolver) error {
				return printLocation(cmd.OutOrStdout(), r.Initial(ctx), asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newCountryListCmd(app *cli) *cobra.Command {
	var continent, language, query string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List supported countries",
		Example: "  hireloop country list --continent Europe --language de",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := filterCountries(app.registry, query, continent, language)
			if len(list) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No matching countries.")
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Code", "Country", "Currency", "Locale", "Continent"})
			table.SetAutoWrapText(false)
			table.SetBorder(false)
			for _, c := range list {
				table.Append([]string{c.Code, c.Name, c.Currency.Code + " " + c.Currency.Symbol, c.Locale, c.Continent})
			}
			table.Render()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&continent, "continent", "", "only countries of this continent")
	f.StringVar(&language, "language", "", "only countries speaking this language, e.g. de or en-GB")
	f.StringVarP(&query, "search", "s", "", "match name or code")
	return cmd
}

func filterCountries(r *country.Registry, query, continent, language string) []country.Config {
	var out []country.Config
	for _, c := range r.Search(query, len(r.All())) {
		if continent != "" && !containsCode(r.ByContinent(continent), c.Code) {
			continue
		}
		if language != "" && !containsCode(r.ByLanguage(language), c.Code) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsCode(list []country.Config, code string) bool {
	for _, c := range list {
		if c.Code == code {
			return true
		}
	}
	return false
}
