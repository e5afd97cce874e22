package geo

import (
	"context"
	"time"

	"github.com/dmitrymomot/hireloop/pkg/cache"
)

// CachedProvider remembers successful lookups per IP so repeat visitors and
// refreshes do not spend the provider's rate limit. Failures are never
// cached, and concurrent lookups of one address share a single request.
// Keys are "{provider}:{ip}", so one cache can serve several providers.
type CachedProvider struct {
	provider IPProvider
	lookups  *cache.Loader[Location]
	ttl      time.Duration
}

// CacheOption configures a CachedProvider.
type CacheOption func(*CachedProvider)

// WithCacheTTL sets how long a lookup is reused. Default: 1 hour.
func WithCacheTTL(d time.Duration) CacheOption {
	return func(c *CachedProvider) {
		c.ttl = d
	}
}

// NewCachedProvider wraps p with lookups stored in c.
func NewCachedProvider(p IPProvider, c cache.Cache[Location], opts ...CacheOption) *CachedProvider {
	cp := &CachedProvider{
		provider: p,
		lookups:  cache.NewLoader(c),
		ttl:      time.Hour,
	}
	for _, opt := range opts {
		opt(cp)
	}
	return cp
}

// Name returns the wrapped provider's name.
func (c *CachedProvider) Name() string {
	return c.provider.Name()
}

// Lookup serves ip from the cache or asks the wrapped provider. An empty ip
// means the caller's own address, which differs per host, so it bypasses
// the cache.
func (c *CachedProvider) Lookup(ctx context.Context, ip string) (Location, error) {
	if ip == "" {
		return c.provider.Lookup(ctx, ip)
	}
	return c.lookups.GetOrSet(ctx, c.provider.Name()+":"+ip, func(ctx context.Context) (Location, time.Duration, error) {
		loc, err := c.provider.Lookup(ctx, ip)
		return loc, c.ttl, err
	})
}

var _ IPProvider = (*CachedProvider)(nil)
