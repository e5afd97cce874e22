package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// localeOptions holds the formatting rules per locale tag. Lookups fall back
// from the full tag to the base language and then to en-US.
var localeOptions = map[string][]LocaleFormatOption{
	"en-US": nil,
	"en-GB": {
		WithDateFormat("2 Jan 2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("2 Jan 2006, 15:04"),
	},
	"en-CA": {
		WithLocalCurrency("CAD", "$"),
		WithDateFormat("Jan 2, 2006"),
	},
	"en-AU": {
		WithLocalCurrency("AUD", "$"),
		WithDateFormat("2 Jan 2006"),
		WithTimeFormat("3:04 pm"),
		WithDateTimeFormat("2 Jan 2006, 3:04 pm"),
	},
	"en-IN": {
		WithDateFormat("2 Jan 2006"),
		WithTimeFormat("3:04 pm"),
		WithDateTimeFormat("2 Jan 2006, 3:04 pm"),
	},
	"en-SG": {
		WithLocalCurrency("SGD", "$"),
		WithDateFormat("2 Jan 2006"),
		WithTimeFormat("3:04 pm"),
		WithDateTimeFormat("2 Jan 2006, 3:04 pm"),
	},
	"en-PH": {
		WithDateFormat("Jan 2, 2006"),
	},
	"en-NG": {
		WithLocalCurrency("NGN", "₦"),
		WithDateFormat("2 Jan 2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("2 Jan 2006, 15:04"),
	},
	"en-ZA": {
		WithDecimalSeparator(","),
		WithThousandSeparator(" "),
		WithLocalCurrency("ZAR", "R"),
		WithDateFormat("02 Jan 2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("02 Jan 2006, 15:04"),
	},
	"de": {
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithCurrencyPosition(PositionAfter),
		WithPercentSpacing(),
		WithDateFormat("02.01.2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("02.01.2006, 15:04"),
	},
	"fr": {
		WithDecimalSeparator(","),
		WithThousandSeparator(" "),
		WithCurrencyPosition(PositionAfter),
		WithPercentSpacing(),
		WithDateFormat("02/01/2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("02/01/2006 15:04"),
	},
	"es": {
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithCurrencyPosition(PositionAfter),
		WithPercentSpacing(),
		WithDateFormat("2/1/2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("2/1/2006, 15:04"),
	},
	"es-MX": {
		WithLocalCurrency("MXN", "$"),
		WithDateFormat("02/01/2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("02/01/2006, 15:04"),
	},
	"it": {
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithCurrencyPosition(PositionAfter),
		WithDateFormat("02/01/2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("02/01/2006, 15:04"),
	},
	"nl": {
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithCurrencySpacing(),
		WithDateFormat("02-01-2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("02-01-2006, 15:04"),
	},
	"pt": {
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithCurrencySpacing(),
		WithDateFormat("02/01/2006"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("02/01/2006, 15:04"),
	},
	"ja": {
		WithLocalCurrency("JPY", "￥"),
		WithDateFormat("2006/01/02"),
		WithTimeFormat("15:04"),
		WithDateTimeFormat("2006/01/02 15:04"),
	},
	"ko": {
		WithDateFormat("2006. 1. 2."),
		WithTimeFormat("PM 3:04"),
		WithDateTimeFormat("2006. 1. 2. PM 3:04"),
	},
	"id": {
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithLocalCurrency("IDR", "Rp"),
		WithDateFormat("2 Jan 2006"),
		WithTimeFormat("15.04"),
		WithDateTimeFormat("2 Jan 2006, 15.04"),
	},
	"ar": {
		WithCurrencyPosition(PositionAfter),
		WithLocalCurrency("AED", "د.إ."),
		WithDateFormat("02/01/2006"),
		WithTimeFormat("3:04 PM"),
		WithDateTimeFormat("02/01/2006, 3:04 PM"),
	},
}

var formatCache sync.Map // locale tag -> *LocaleFormat

// FormatFor returns the LocaleFormat for a BCP-47 tag such as "de-DE".
// Unknown tags fall back to their base language, then to en-US.
// Results are cached; the returned value is shared and immutable.
func FormatFor(locale string) *LocaleFormat {
	tag := canonicalTag(locale)
	if lf, ok := formatCache.Load(tag); ok {
		return lf.(*LocaleFormat)
	}

	opts, ok := localeOptions[tag]
	if !ok {
		base, _, _ := strings.Cut(tag, "-")
		opts = localeOptions[base]
	}

	lf := NewLocaleFormat(append([]LocaleFormatOption{WithLocale(tag)}, opts...)...)
	actual, _ := formatCache.LoadOrStore(tag, lf)
	return actual.(*LocaleFormat)
}

// canonicalTag normalizes a tag to its canonical "ll-RR" form.
// Invalid input maps to en-US.
func canonicalTag(locale string) string {
	t, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || t == language.Und {
		return "en-US"
	}
	return t.String()
}

// FormatEnUS returns the format for US English.
func FormatEnUS() *LocaleFormat { return FormatFor("en-US") }

// FormatEnGB returns the format for British English.
func FormatEnGB() *LocaleFormat { return FormatFor("en-GB") }

// FormatDeDE returns the format for German (Germany).
func FormatDeDE() *LocaleFormat { return FormatFor("de-DE") }

// FormatFrFR returns the format for French (France).
func FormatFrFR() *LocaleFormat { return FormatFor("fr-FR") }

// FormatEsES returns the format for Spanish (Spain).
func FormatEsES() *LocaleFormat { return FormatFor("es-ES") }

// FormatPtBR returns the format for Brazilian Portuguese.
func FormatPtBR() *LocaleFormat { return FormatFor("pt-BR") }

// FormatJaJP returns the format for Japanese.
func FormatJaJP() *LocaleFormat { return FormatFor("ja-JP") }
