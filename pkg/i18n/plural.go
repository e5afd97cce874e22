package i18n

// PluralRule selects the CLDR plural category for a count.
type PluralRule func(n int) string

// CLDR plural categories used by the supported languages.
const (
	PluralOne   = "one"
	PluralMany  = "many"
	PluralOther = "other"
)

// oneOther is used by English, German and Spanish for integer counts.
func oneOther(n int) string {
	if n == 1 || n == -1 {
		return PluralOne
	}
	return PluralOther
}

// zeroOneOther treats 0 and 1 as singular (French, Portuguese).
func zeroOneOther(n int) string {
	if n >= -1 && n <= 1 {
		return PluralOne
	}
	if n%1_000_000 == 0 {
		return PluralMany
	}
	return PluralOther
}

// PluralRuleFor returns the plural rule for a language tag.
func PluralRuleFor(lang string) PluralRule {
	switch LanguageFromLocale(lang) {
	case "fr", "pt":
		return zeroOneOther
	default:
		return oneOther
	}
}
