package i18n_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/i18n"
)

func TestLanguageFromLocale(t *testing.T) {
	t.Parallel()

	require.Equal(t, "pt", i18n.LanguageFromLocale("pt-BR"))
	require.Equal(t, "de", i18n.LanguageFromLocale("DE_de"))
	require.Equal(t, "en", i18n.LanguageFromLocale("ja-JP"))
	require.Equal(t, "en", i18n.LanguageFromLocale(""))
}

func TestParseAcceptLanguage(t *testing.T) {
	t.Parallel()

	available := i18n.SupportedLanguages

	require.Equal(t, "de", i18n.ParseAcceptLanguage("de-DE,de;q=0.9,en;q=0.8", available))
	require.Equal(t, "fr", i18n.ParseAcceptLanguage("ja;q=0.9,fr;q=0.5", available))
	require.Equal(t, "en", i18n.ParseAcceptLanguage("", available))
	require.Equal(t, "en", i18n.ParseAcceptLanguage(strings.Repeat("x", 5000), available))
	require.Empty(t, i18n.ParseAcceptLanguage("de", nil))
}

func TestPluralRuleFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, i18n.PluralOne, i18n.PluralRuleFor("en")(1))
	require.Equal(t, i18n.PluralOther, i18n.PluralRuleFor("en")(0))
	require.Equal(t, i18n.PluralOne, i18n.PluralRuleFor("fr-FR")(0))
	require.Equal(t, i18n.PluralOther, i18n.PluralRuleFor("pt")(2))
}
