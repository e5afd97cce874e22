package i18n

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/currency"
)

// Currency symbol positions.
const (
	PositionBefore = "before"
	PositionAfter  = "after"
)

// LocaleFormat contains formatting rules for a single locale.
// It is immutable after creation and safe for concurrent use.
type LocaleFormat struct {
	locale            string
	language          string
	decimalSeparator  string
	thousandSeparator string
	currencyPosition  string
	currencySpaced    bool
	percentSpaced     bool
	localCurrency     string
	localSymbol       string
	dateFormat        string
	timeFormat        string
	dateTimeFormat    string
}

// LocaleFormatOption configures a LocaleFormat during construction.
type LocaleFormatOption func(*LocaleFormat)

// NewLocaleFormat creates a LocaleFormat. Without options it formats like en-US.
func NewLocaleFormat(opts ...LocaleFormatOption) *LocaleFormat {
	lf := &LocaleFormat{
		locale:            "en-US",
		language:          DefaultLang,
		decimalSeparator:  ".",
		thousandSeparator: ",",
		currencyPosition:  PositionBefore,
		dateFormat:        "Jan 2, 2006",
		timeFormat:        "3:04 PM",
		dateTimeFormat:    "Jan 2, 2006, 3:04 PM",
	}

	for _, opt := range opts {
		opt(lf)
	}

	return lf
}

// WithLocale sets the BCP-47 tag and derives the phrase language from it.
func WithLocale(tag string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.locale = tag
		lf.language = LanguageFromLocale(tag)
	}
}

// WithDecimalSeparator sets the decimal separator.
func WithDecimalSeparator(sep string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.decimalSeparator = sep
	}
}

// WithThousandSeparator sets the grouping separator.
func WithThousandSeparator(sep string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.thousandSeparator = sep
	}
}

// WithCurrencyPosition sets where the currency symbol goes ("before" or "after").
func WithCurrencyPosition(pos string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		if pos == PositionBefore || pos == PositionAfter {
			lf.currencyPosition = pos
		}
	}
}

// WithCurrencySpacing puts a space between a leading symbol and the amount.
func WithCurrencySpacing() LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.currencySpaced = true
	}
}

// WithPercentSpacing puts a space before the percent sign.
func WithPercentSpacing() LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.percentSpaced = true
	}
}

// WithLocalCurrency sets the symbol used for the locale's own currency,
// e.g. "$" for CAD under en-CA where other locales print "CA$".
func WithLocalCurrency(code, symbol string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.localCurrency = strings.ToUpper(code)
		lf.localSymbol = symbol
	}
}

// WithDateFormat sets the date layout.
func WithDateFormat(format string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.dateFormat = format
	}
}

// WithTimeFormat sets the time layout.
func WithTimeFormat(format string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.timeFormat = format
	}
}

// WithDateTimeFormat sets the date and time layout.
func WithDateTimeFormat(format string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.dateTimeFormat = format
	}
}

// Locale returns the BCP-47 tag this format was built for.
func (lf *LocaleFormat) Locale() string {
	return lf.locale
}

// Language returns the supported language used for phrases.
func (lf *LocaleFormat) Language() string {
	return lf.language
}

// FormatNumber formats n with grouping and up to three fraction digits.
func (lf *LocaleFormat) FormatNumber(n float64) string {
	return lf.formatDecimal(n, 0, 3)
}

// FormatPrice formats amount in the given ISO 4217 currency.
// Fraction digits are dropped when zero and capped by the currency's
// standard precision (no decimals for JPY or KRW). An unrecognized
// currency code falls back to "CODE amount".
func (lf *LocaleFormat) FormatPrice(amount float64, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + lf.FormatNumber(amount)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return lf.withSymbol(lf.formatDecimal(math.Abs(amount), 0, min(scale, 2)), code, amount < 0)
}

// FormatPriceRange formats "min - max" without fraction digits.
func (lf *LocaleFormat) FormatPriceRange(lo, hi float64, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if _, err := currency.ParseISO(code); err != nil {
		return code + " " + lf.formatDecimal(lo, 0, 0) + " - " + lf.formatDecimal(hi, 0, 0)
	}
	return lf.withSymbol(lf.formatDecimal(math.Abs(lo), 0, 0), code, lo < 0) +
		" - " + lf.withSymbol(lf.formatDecimal(math.Abs(hi), 0, 0), code, hi < 0)
}

// FormatCompactNumber abbreviates large numbers (1.2K, 3.4M, 1.1B).
func (lf *LocaleFormat) FormatCompactNumber(n float64) string {
	abs := math.Abs(n)
	suffixes := compactSuffixes(lf.language)

	var scaled float64
	var suffix string
	switch {
	case abs >= 1e9:
		scaled, suffix = abs/1e9, suffixes[2]
	case abs >= 1e6:
		scaled, suffix = abs/1e6, suffixes[1]
	case abs >= 1e3:
		scaled, suffix = abs/1e3, suffixes[0]
	default:
		return lf.formatDecimal(n, 0, 0)
	}

	digits := 0
	if scaled < 10 {
		digits = 1
	}
	out := lf.formatDecimal(scaled, 0, digits) + suffix
	if n < 0 {
		out = "-" + out
	}
	return out
}

// FormatPercent formats a value on the 0-100 scale with a fixed number of decimals.
func (lf *LocaleFormat) FormatPercent(value float64, decimals int) string {
	decimals = max(decimals, 0)
	out := lf.formatDecimal(value, decimals, decimals)
	if lf.percentSpaced {
		return out + " %"
	}
	return out + "%"
}

// FormatDate formats a date using the locale's medium date layout.
func (lf *LocaleFormat) FormatDate(t time.Time) string {
	return t.Format(lf.dateFormat)
}

// FormatTime formats a time using the locale's short time layout.
func (lf *LocaleFormat) FormatTime(t time.Time) string {
	return t.Format(lf.timeFormat)
}

// FormatDateTime formats a date and time.
func (lf *LocaleFormat) FormatDateTime(t time.Time) string {
	return t.Format(lf.dateTimeFormat)
}

func (lf *LocaleFormat) withSymbol(num, code string, negative bool) string {
	symbol := lf.symbolFor(code)

	var out string
	if lf.currencyPosition == PositionAfter {
		out = num + " " + symbol
	} else if lf.currencySpaced || isAlphabetic(symbol) {
		out = symbol + " " + num
	} else {
		out = symbol + num
	}

	if negative {
		return "-" + out
	}
	return out
}

func (lf *LocaleFormat) symbolFor(code string) string {
	if code == lf.localCurrency && lf.localSymbol != "" {
		return lf.localSymbol
	}
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code
}

// formatDecimal rounds n to maxDigits fraction digits, trims trailing zeros
// down to minDigits and applies the locale separators.
func (lf *LocaleFormat) formatDecimal(n float64, minDigits, maxDigits int) string {
	negative := n < 0
	if negative {
		n = -n
	}

	s := strconv.FormatFloat(n, 'f', maxDigits, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	for len(frac) > minDigits && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}

	out := lf.group(intPart)
	if frac != "" {
		out += lf.decimalSeparator + frac
	}
	if negative && strings.Trim(out, "0"+lf.decimalSeparator+lf.thousandSeparator) != "" {
		out = "-" + out
	}
	return out
}

func (lf *LocaleFormat) group(digits string) string {
	if len(digits) <= 3 || lf.thousandSeparator == "" {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(lf.thousandSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// isAlphabetic reports whether a symbol is a plain code such as "CHF" or "Rp",
// which is separated from the amount by a space.
func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// currencySymbols holds the international symbols of common currencies.
// Codes without an entry are printed as-is.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"KRW": "₩",
	"INR": "₹",
	"CAD": "CA$",
	"AUD": "A$",
	"BRL": "R$",
	"MXN": "MX$",
	"PHP": "₱",
	"CNY": "CN¥",
	"ILS": "₪",
	"VND": "₫",
	"NZD": "NZ$",
	"HKD": "HK$",
	"TWD": "NT$",
}
