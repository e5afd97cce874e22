package middlewares

import (
	"slices"
	"strings"

	"github.com/dmitrymomot/hireloop/internal"
	"github.com/dmitrymomot/hireloop/pkg/i18n"
)

// LanguageCookie is the cookie holding an explicit language choice.
const LanguageCookie = "lang"

type I18nConfig struct {
	Extractor    internal.Extractor
	Namespace    string
	extractorSet bool
}

type I18nOption func(*I18nConfig)

func WithI18nNamespace(ns string) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Namespace = ns
	}
}

func WithI18nExtractor(ext internal.Extractor) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// FromAcceptLanguage picks the best available language from Accept-Language.
func FromAcceptLanguage(available []string) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		header := c.Header("Accept-Language")
		if header == "" {
			return "", false
		}
		return i18n.ParseAcceptLanguage(header, available), true
	}
}

// fromSupported rejects values outside the configured languages.
func fromSupported(src internal.ExtractorSource, available []string) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		v, ok := src(c)
		if !ok {
			return "", false
		}
		base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "-")
		if slices.Contains(available, base) {
			return base, true
		}
		return "", false
	}
}

// I18n negotiates the UI language (?lang, the lang cookie, Accept-Language,
// then the default) and stores a Translator in the request context. Number
// and date formats follow the language's primary locale.
func I18n(svc *i18n.I18n, opts ...I18nOption) internal.Middleware {
	cfg := &I18nConfig{Namespace: "common"}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.extractorSet {
		langs := svc.Languages()
		cfg.Extractor = internal.NewExtractor(
			fromSupported(internal.FromQuery(LanguageCookie), langs),
			fromSupported(internal.FromCookie(LanguageCookie), langs),
			FromAcceptLanguage(langs),
		)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			lang, ok := cfg.Extractor.Extract(c)
			if !ok {
				lang = svc.DefaultLanguage()
			}

			c.Set(internal.TranslatorKey{}, i18n.NewTranslator(svc, lang, cfg.Namespace, nil))
			c.Set(internal.LanguageKey{}, lang)
			c.SetHeader("Content-Language", lang)
			return next(c)
		}
	}
}

// GetTranslator returns the request translator, or nil without the middleware.
func GetTranslator(c internal.Context) *i18n.Translator {
	tr, _ := c.Get(internal.TranslatorKey{}).(*i18n.Translator)
	return tr
}
