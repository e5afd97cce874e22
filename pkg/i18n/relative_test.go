package i18n_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/i18n"
)

func TestRelativeUnit(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		delta time.Duration
		value int
		unit  string
	}{
		{"seconds", -30 * time.Second, -30, i18n.UnitSecond},
		{"minutes", 5 * time.Minute, 5, i18n.UnitMinute},
		{"hours", -2 * time.Hour, -2, i18n.UnitHour},
		{"day boundary", -24 * time.Hour, -1, i18n.UnitDay},
		{"weeks", 14 * 24 * time.Hour, 2, i18n.UnitWeek},
		{"months", -45 * 24 * time.Hour, -2, i18n.UnitMonth},
		{"years", 400 * 24 * time.Hour, 1, i18n.UnitYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			value, unit := i18n.RelativeUnit(now.Add(tt.delta), now)
			require.Equal(t, tt.value, value)
			require.Equal(t, tt.unit, unit)
		})
	}
}

func TestFormatRelativeTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	en := i18n.FormatEnUS()

	require.Equal(t, "now", en.FormatRelativeTime(now, now))
	require.Equal(t, "2 hours ago", en.FormatRelativeTime(now.Add(-2*time.Hour), now))
	require.Equal(t, "1 minute ago", en.FormatRelativeTime(now.Add(-time.Minute), now))
	require.Equal(t, "yesterday", en.FormatRelativeTime(now.Add(-24*time.Hour), now))
	require.Equal(t, "in 3 days", en.FormatRelativeTime(now.Add(72*time.Hour), now))
	require.Equal(t, "vor 2 Tagen", i18n.FormatDeDE().FormatRelativeTime(now.Add(-48*time.Hour), now))
	require.Equal(t, "hace 2 horas", i18n.FormatEsES().FormatRelativeTime(now.Add(-2*time.Hour), now))
}

func TestFormatList(t *testing.T) {
	t.Parallel()

	items := []string{"Go", "Rust", "Python"}
	en := i18n.FormatEnUS()

	require.Empty(t, en.FormatList(nil, i18n.ListConjunction))
	require.Equal(t, "Go", en.FormatList(items[:1], i18n.ListConjunction))
	require.Equal(t, "Go and Rust", en.FormatList(items[:2], i18n.ListConjunction))
	require.Equal(t, "Go, Rust, and Python", en.FormatList(items, i18n.ListConjunction))
	require.Equal(t, "Go, Rust, or Python", en.FormatList(items, i18n.ListDisjunction))
	require.Equal(t, "Go, Rust und Python", i18n.FormatDeDE().FormatList(items, i18n.ListConjunction))
}
