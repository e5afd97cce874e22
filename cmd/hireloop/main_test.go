package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

// Environment-driven, so the subtests run sequentially.
func TestCLI(t *testing.T) {
	t.Setenv("HIRELOOP_DATA_DIR", t.TempDir())
	t.Setenv("GEO_DISABLE_NETWORK", "true")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	t.Run("locate without providers falls back to default", func(t *testing.T) {
		out := run(t, "locate", "--skip-ip")
		require.Contains(t, out, "United States (US)")
		require.Contains(t, out, "default")
		require.Contains(t, out, "$1,234.5")
	})

	t.Run("set persists the choice", func(t *testing.T) {
		out := run(t, "country", "set", "de")
		require.Contains(t, out, "Germany (DE)")
		require.Contains(t, out, "user-override")

		var shown struct {
			Country struct {
				Code string `json:"code"`
			} `json:"countryConfig"`
			Source string `json:"source"`
			State  string `json:"state"`
			Sample string `json:"samplePrice"`
		}
		require.NoError(t, json.Unmarshal([]byte(run(t, "country", "show", "--json")), &shown))
		require.Equal(t, "DE", shown.Country.Code)
		require.Equal(t, "stored", shown.Source)
		require.Equal(t, "user-override", shown.State)
		require.Equal(t, "1.234,5 €", shown.Sample)
	})

	t.Run("format follows the stored country", func(t *testing.T) {
		require.Equal(t, "1.234,5 €\n", run(t, "format", "price", "1234.5"))
		require.Equal(t, "1.234,5 $\n", run(t, "format", "price", "1234.5", "--currency", "usd"))
		require.Equal(t, "$1,234.5\n", run(t, "format", "price", "1234.5", "--locale", "en-US", "--currency", "USD"))
		require.Equal(t, "1.234,5\n", run(t, "format", "number", "1234.5"))
	})

	t.Run("clear returns to default", func(t *testing.T) {
		require.Contains(t, run(t, "country", "clear"), "cleared")
		require.Equal(t, "$1,234.5\n", run(t, "format", "price", "1234.5"))
	})

	t.Run("unknown country fails", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"country", "set", "xx"})
		require.Error(t, cmd.ExecuteContext(context.Background()))
	})

	t.Run("list filters by continent and language", func(t *testing.T) {
		out := run(t, "country", "list", "--continent", "europe", "--language", "es")
		require.Contains(t, out, "Spain")
		require.NotContains(t, out, "Mexico")
		require.NotContains(t, out, "Germany")
	})
}
