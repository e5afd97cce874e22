package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/i18n"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates instance with defaults", func(t *testing.T) {
		t.Parallel()
		inst, err := i18n.New()
		require.NoError(t, err)
		require.Equal(t, "en", inst.DefaultLanguage())
		require.Equal(t, []string{"en"}, inst.Languages())
	})

	t.Run("returns error for empty default language", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithDefaultLanguage(""))
		require.ErrorIs(t, err, i18n.ErrEmptyLanguage)
	})

	t.Run("returns error for empty namespace", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithTranslations("en", "", map[string]any{"a": "b"}))
		require.ErrorIs(t, err, i18n.ErrEmptyNamespace)
	})

	t.Run("discovers languages from translations", func(t *testing.T) {
		t.Parallel()
		inst, err := i18n.New(
			i18n.WithTranslations("de", "common", map[string]any{"hi": "Hallo"}),
			i18n.WithTranslations("fr", "common", map[string]any{"hi": "Salut"}),
		)
		require.NoError(t, err)
		require.Equal(t, []string{"en", "de", "fr"}, inst.Languages())
	})
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	var missing []string
	inst, err := i18n.New(
		i18n.WithTranslations("en", "common", map[string]any{
			"greeting": "Hello, {{name}}!",
			"location": map[string]any{"detecting": "Detecting your location..."},
			"listings": map[string]any{
				"one":   "{{count}} listing",
				"other": "{{count}} listings",
			},
		}),
		i18n.WithTranslations("de", "common", map[string]any{
			"greeting": "Hallo, {{name}}!",
		}),
		i18n.WithTranslations("fr", "common", map[string]any{
			"listings": map[string]any{
				"one":   "{{count}} annonce",
				"other": "{{count}} annonces",
			},
		}),
		i18n.WithMissingKeyHandler(func(lang, ns, key string) {
			missing = append(missing, lang+":"+key)
		}),
	)
	require.NoError(t, err)

	t.Run("replaces placeholders", func(t *testing.T) {
		require.Equal(t, "Hallo, Anna!", inst.T("de", "common", "greeting", i18n.M{"name": "Anna"}))
	})

	t.Run("falls back from region to base language", func(t *testing.T) {
		require.Equal(t, "Hallo, Anna!", inst.T("de-AT", "common", "greeting", i18n.M{"name": "Anna"}))
	})

	t.Run("falls back to default language for nested keys", func(t *testing.T) {
		require.Equal(t, "Detecting your location...", inst.T("de", "common", "location.detecting"))
	})

	t.Run("pluralizes by language rule", func(t *testing.T) {
		require.Equal(t, "1 listing", inst.Tn("en", "common", "listings", 1))
		require.Equal(t, "0 listings", inst.Tn("en", "common", "listings", 0))
		require.Equal(t, "0 annonce", inst.Tn("fr", "common", "listings", 0))
		require.Equal(t, "3 annonces", inst.Tn("fr", "common", "listings", 3))
	})

	t.Run("returns key and reports missing translation", func(t *testing.T) {
		require.Equal(t, "nope", inst.T("es", "common", "nope"))
		require.Contains(t, missing, "es:nope")
	})

	t.Run("has checks exact language", func(t *testing.T) {
		require.True(t, inst.Has("de", "common", "greeting"))
		require.False(t, inst.Has("de", "common", "location.detecting"))
	})
}

func TestWithYAMLDir(t *testing.T) {
	t.Parallel()

	t.Run("loads language directories", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/common.yaml": {Data: []byte("country:\n  select: Select country\n")},
			"es/common.yml":  {Data: []byte("country:\n  select: Seleccionar país\n")},
			"README.md":      {Data: []byte("ignored")},
		}
		inst, err := i18n.New(i18n.WithYAMLDir(fsys))
		require.NoError(t, err)
		require.Equal(t, "Seleccionar país", inst.T("es", "common", "country.select"))
		require.Equal(t, []string{"en", "es"}, inst.Languages())
	})

	t.Run("rejects files outside language directory", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"common.yaml": {Data: []byte("a: b\n")}}
		_, err := i18n.New(i18n.WithYAMLDir(fsys))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"en/common.yaml": {Data: []byte("a: [b\n")}}
		_, err := i18n.New(i18n.WithYAMLDir(fsys))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})
}

func TestTranslator(t *testing.T) {
	t.Parallel()

	inst, err := i18n.New(i18n.WithTranslations("de", "common", map[string]any{"hi": "Hallo"}))
	require.NoError(t, err)

	tr := i18n.NewTranslator(inst, "de-DE", "common", nil)
	require.Equal(t, "Hallo", tr.T("hi"))
	require.Equal(t, "de-DE", tr.Format().Locale())
	require.Equal(t, "1.234,5 €", tr.FormatPrice(1234.5, "EUR"))

	def := i18n.NewTranslator(inst, "", "common", nil)
	require.Equal(t, "en", def.Language())
}
