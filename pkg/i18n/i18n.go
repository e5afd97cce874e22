package i18n

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// M is a map of placeholder values for translations.
type M = map[string]any

// I18n holds translations for a set of languages.
// It is immutable after creation and safe for concurrent use.
type I18n struct {
	// key format: "lang:namespace:key.path"
	translations map[string]string
	onMissing    func(lang, namespace, key string)
	defaultLang  string
	languages    []string
}

// Option configures an I18n instance during construction.
type Option func(*I18n) error

// New creates an I18n instance.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("i18n: apply option: %w", err)
		}
	}

	if len(i.languages) == 0 {
		i.languages = i.discoverLanguages()
	}
	if !slices.Contains(i.languages, i.defaultLang) {
		i.languages = append([]string{i.defaultLang}, i.languages...)
	}

	return i, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithLanguages restricts the advertised languages. The default language is
// always listed first.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		i.languages = i.languages[:0]
		for _, l := range langs {
			if l != "" && !slices.Contains(i.languages, l) {
				i.languages = append(i.languages, l)
			}
		}
		return nil
	}
}

// WithTranslations registers a nested translation map for a language and namespace.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}
		i.add(lang, namespace, translations)
		return nil
	}
}

// WithMissingKeyHandler registers a callback for keys that have no translation
// in the requested or default language.
func WithMissingKeyHandler(fn func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.onMissing = fn
		return nil
	}
}

// T translates key, falling back from lang to its base language and then to
// the default language. The key itself is returned when nothing matches.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	if s, ok := i.lookup(lang, namespace, key); ok {
		return replacePlaceholders(s, merge(placeholders))
	}
	i.missing(lang, namespace, key)
	return key
}

// Tn translates a pluralized key. The form is chosen by the language's plural
// rule and looked up as "key.one", "key.other" and so on; {{count}} is set to n.
func (i *I18n) Tn(lang, namespace, key string, n int, placeholders ...M) string {
	values := merge(append([]M{{"count": n}}, placeholders...))

	form := PluralRuleFor(lang)(n)
	for _, f := range []string{form, PluralOther} {
		if s, ok := i.lookup(lang, namespace, key+"."+f); ok {
			return replacePlaceholders(s, values)
		}
	}

	i.missing(lang, namespace, key)
	return key
}

// Has reports whether a translation exists for lang (without default fallback).
func (i *I18n) Has(lang, namespace, key string) bool {
	_, ok := i.translations[buildKey(lang, namespace, key)]
	return ok
}

// Languages returns the available languages, default first.
func (i *I18n) Languages() []string {
	return slices.Clone(i.languages)
}

// DefaultLanguage returns the fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

func (i *I18n) lookup(lang, namespace, key string) (string, bool) {
	candidates := []string{lang}
	if base := baseLanguage(lang); base != lang {
		candidates = append(candidates, base)
	}
	candidates = append(candidates, i.defaultLang)

	for _, l := range candidates {
		if s, ok := i.translations[buildKey(l, namespace, key)]; ok {
			return s, true
		}
	}
	return "", false
}

func (i *I18n) missing(lang, namespace, key string) {
	if i.onMissing != nil {
		i.onMissing(lang, namespace, key)
	}
}

func (i *I18n) add(lang, namespace string, data map[string]any) {
	for k, v := range flatten(data, "") {
		i.translations[buildKey(lang, namespace, k)] = v
	}
}

func (i *I18n) discoverLanguages() []string {
	var langs []string
	for k := range i.translations {
		lang, _, _ := strings.Cut(k, ":")
		if !slices.Contains(langs, lang) {
			langs = append(langs, lang)
		}
	}
	slices.Sort(langs)
	return langs
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

func baseLanguage(lang string) string {
	base, _, _ := strings.Cut(lang, "-")
	return base
}

func flatten(data map[string]any, prefix string) map[string]string {
	out := make(map[string]string)
	for k, v := range data {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[full] = val
		case map[string]any:
			maps.Copy(out, flatten(val, full))
		default:
			out[full] = fmt.Sprint(val)
		}
	}
	return out
}

func merge(ms []M) M {
	out := make(M)
	for _, m := range ms {
		maps.Copy(out, m)
	}
	return out
}

// replacePlaceholders substitutes {{name}} markers. Unknown markers are kept.
func replacePlaceholders(template string, values M) string {
	if len(values) == 0 || !strings.Contains(template, "{{") {
		return template
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
