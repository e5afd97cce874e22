package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLang is the fallback UI language.
const DefaultLang = "en"

// SupportedLanguages lists the UI languages with translations.
var SupportedLanguages = []string{"en", "de", "es", "fr", "pt"}

// LanguageFromLocale maps a BCP-47 tag to one of the supported UI languages
// by its base language. Anything else maps to DefaultLang.
func LanguageFromLocale(tag string) string {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
	base, _, _ = strings.Cut(base, "_")
	if slices.Contains(SupportedLanguages, base) {
		return base
	}
	return DefaultLang
}

// maxAcceptLanguageLength caps the header size handed to the parser.
const maxAcceptLanguageLength = 4096

// ParseAcceptLanguage picks the best entry of available for an
// Accept-Language header, honoring quality values. It returns the first
// available language when nothing matches.
func ParseAcceptLanguage(header string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return available[0]
	}

	tags := make([]language.Tag, 0, len(available))
	for _, a := range available {
		tags = append(tags, language.Make(a))
	}

	_, idx, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No {
		return available[0]
	}
	return available[idx]
}
