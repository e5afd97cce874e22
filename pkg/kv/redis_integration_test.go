//go:build integration

package kv_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/kv"
)

func TestRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	ctx := context.Background()
	client, err := kv.OpenRedis(ctx, kv.RedisConfig{URL: url, RetryAttempts: 1, RetryInterval: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	backend := kv.NewRedis(client, kv.WithPrefix("hireloop_test"))
	require.NoError(t, kv.Healthcheck(backend)(ctx))
	testBackend(t, backend)
}
