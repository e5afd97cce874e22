package i18n

import "time"

// Translator binds an I18n instance to a language, namespace and locale format.
type Translator struct {
	i18n      *I18n
	format    *LocaleFormat
	language  string
	namespace string
}

// NewTranslator creates a Translator. An empty language means the default
// language; a nil format means the format of the language's locale.
func NewTranslator(i *I18n, language, namespace string, format *LocaleFormat) *Translator {
	if i == nil {
		panic("i18n: service is not provided")
	}
	if language == "" {
		language = i.DefaultLanguage()
	}
	if format == nil {
		format = FormatFor(language)
	}
	return &Translator{
		i18n:      i,
		language:  language,
		namespace: namespace,
		format:    format,
	}
}

// T translates key.
func (t *Translator) T(key string, placeholders ...M) string {
	return t.i18n.T(t.language, t.namespace, key, placeholders...)
}

// Tn translates a pluralized key.
func (t *Translator) Tn(key string, n int, placeholders ...M) string {
	return t.i18n.Tn(t.language, t.namespace, key, n, placeholders...)
}

// Language returns the translator's language.
func (t *Translator) Language() string {
	return t.language
}

// Format returns the locale format used for numbers and dates.
func (t *Translator) Format() *LocaleFormat {
	return t.format
}

// FormatNumber formats a number with locale separators.
func (t *Translator) FormatNumber(n float64) string {
	return t.format.FormatNumber(n)
}

// FormatPrice formats an amount in the given currency.
func (t *Translator) FormatPrice(amount float64, currencyCode string) string {
	return t.format.FormatPrice(amount, currencyCode)
}

// FormatDate formats a date.
func (t *Translator) FormatDate(d time.Time) string {
	return t.format.FormatDate(d)
}

// FormatRelativeTime describes d relative to the current time.
func (t *Translator) FormatRelativeTime(d time.Time) string {
	return t.format.FormatRelativeTime(d, time.Now())
}
