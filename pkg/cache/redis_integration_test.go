//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/cache"
)

type lookup struct {
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
}

func TestRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	c := cache.NewRedis[lookup](client, nil, cache.WithPrefix("hireloop_test:lookup"))
	require.NoError(t, c.Delete(ctx, "ipapi:203.0.113.7"))

	_, err = c.Get(ctx, "ipapi:203.0.113.7")
	require.ErrorIs(t, err, cache.ErrNotFound)

	want := lookup{CountryCode: "DE", City: "Berlin"}
	require.NoError(t, c.Set(ctx, "ipapi:203.0.113.7", want, time.Minute))
	got, err := c.Get(ctx, "ipapi:203.0.113.7")
	require.NoError(t, err)
	require.Equal(t, want, got)

	ttl, err := client.TTL(ctx, "hireloop_test:lookup:ipapi:203.0.113.7").Result()
	require.NoError(t, err)
	require.Positive(t, ttl)

	require.NoError(t, client.Set(ctx, "hireloop_test:lookup:bad", "{", 0).Err())
	_, err = c.Get(ctx, "bad")
	require.ErrorIs(t, err, cache.ErrUnmarshal)

	require.NoError(t, c.Delete(ctx, "ipapi:203.0.113.7"))
	require.NoError(t, c.Delete(ctx, "bad"))
	require.NoError(t, c.Close())
}
