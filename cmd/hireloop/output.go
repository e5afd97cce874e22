package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/i18n"
)

const sampleAmount = 1234.5

type locationOutput struct {
	geo.Result
	State    geo.State `json:"state"`
	Language string    `json:"language"`
	Sample   string    `json:"samplePrice"`
}

func printLocation(w io.Writer, res geo.Result, asJSON bool) error {
	cfg := res.Country
	out := locationOutput{
		Result:   res,
		State:    geo.StateOf(res),
		Language: i18n.LanguageFromLocale(cfg.Language.Code),
		Sample:   i18n.FormatFor(cfg.Locale).FormatPrice(sampleAmount, cfg.Currency.Code),
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Country:\t%s %s (%s)\n", cfg.Flag, cfg.Name, cfg.Code)
	if place := joinNonEmpty(res.Location.City, res.Location.Region); place != "" {
		fmt.Fprintf(tw, "Place:\t%s\n", place)
	}
	if res.Location.HasCoordinates() {
		fmt.Fprintf(tw, "Coordinates:\t%.4f, %.4f\n", *res.Location.Latitude, *res.Location.Longitude)
	}
	fmt.Fprintf(tw, "Source:\t%s (%s confidence)\n", res.Source, res.Confidence)
	fmt.Fprintf(tw, "State:\t%s\n", out.State)
	fmt.Fprintf(tw, "Locale:\t%s\n", cfg.Locale)
	fmt.Fprintf(tw, "Language:\t%s\n", out.Language)
	fmt.Fprintf(tw, "Currency:\t%s (%s)\n", cfg.Currency.Code, cfg.Currency.Symbol)
	fmt.Fprintf(tw, "Sample price:\t%s\n", out.Sample)
	return tw.Flush()
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
