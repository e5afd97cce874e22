package main

import (
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/cookie"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("forwarded headers are not trusted by default", func(t *testing.T) {
		t.Parallel()
		cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{}})
		require.NoError(t, err)
		require.False(t, cfg.TrustProxy)

		cfg, err = env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{"TRUST_PROXY": "true"}})
		require.NoError(t, err)
		require.True(t, cfg.TrustProxy)
	})

	t.Run("configured cookie secret", func(t *testing.T) {
		t.Parallel()
		cfg := Config{CookieSecret: "0123456789abcdef0123456789abcdef"}
		secret, generated, err := cfg.cookieSecret()
		require.NoError(t, err)
		require.False(t, generated)
		require.Equal(t, cfg.CookieSecret, secret)
	})

	t.Run("short cookie secret is rejected", func(t *testing.T) {
		t.Parallel()
		_, _, err := Config{CookieSecret: "changeme"}.cookieSecret()
		require.ErrorIs(t, err, cookie.ErrBadSecret)
		require.ErrorContains(t, err, "COOKIE_SECRET")
	})

	t.Run("missing cookie secret is generated", func(t *testing.T) {
		t.Parallel()
		secret, generated, err := Config{}.cookieSecret()
		require.NoError(t, err)
		require.True(t, generated)
		require.NoError(t, cookie.ValidateSecret(secret))
	})

	t.Run("redis keys", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "hireloop:lookup", redisKey("hireloop", "lookup"))
		require.Equal(t, "visitor:42", redisKey("", "visitor:42"))
	})
}
