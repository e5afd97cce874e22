// Package i18n provides UI translations and locale-aware formatting.
//
// Translations are loaded once at construction and looked up by language,
// namespace and dotted key, falling back from "de-DE" to "de" to the default
// language:
//
//	svc, err := i18n.New(
//		i18n.WithYAMLDir(locales.FS),
//		i18n.WithLanguages(i18n.SupportedLanguages...),
//	)
//	svc.T("de", "common", "location.detecting")
//	svc.Tn("en", "common", "listings.count", 3) // "3 listings"
//
// # Formatting
//
// [FormatFor] returns the [LocaleFormat] for a BCP-47 tag. Formats carry
// separators, currency placement and date layouts; phrases (relative time,
// list conjunctions, compact suffixes) follow the supported UI language
// derived from the tag, with English for everything else.
//
//	lf := i18n.FormatFor("de-DE")
//	lf.FormatPrice(1234.5, "EUR")        // "1.234,5 €"
//	lf.FormatRelativeTime(t, time.Now()) // "vor 2 Tagen"
//	lf.FormatList([]string{"A", "B"}, i18n.ListConjunction) // "A und B"
//
// Currency precision comes from golang.org/x/text/currency; unknown codes
// render as "CODE amount".
package i18n
