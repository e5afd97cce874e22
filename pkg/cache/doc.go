// Package cache provides a generic TTL cache with in-memory and Redis
// backends, and a Loader that fills it without stampedes.
//
//	lookups := cache.NewLoader[geo.Location](cache.NewMemory[geo.Location]())
//	loc, err := lookups.GetOrSet(ctx, "ipapi:203.0.113.7", func(ctx context.Context) (geo.Location, time.Duration, error) {
//		loc, err := provider.Lookup(ctx, "203.0.113.7")
//		return loc, time.Hour, err
//	})
//
// Failed loads are never cached.
package cache
