package geo

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

// Resolver runs the detection chain: stored record, IP providers, device
// position, and finally the registry default. It never fails.
//
// Concurrent Resolve calls with the same force flag and client IP share one
// detection and one store write.
type Resolver struct {
	registry *country.Registry
	store    *Store
	stored   *StoredStrategy
	ip       Strategy
	browser  Strategy
	logger   *slog.Logger
	group    singleflight.Group
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithIPStrategy sets the IP detection step.
func WithIPStrategy(s Strategy) ResolverOption {
	return func(r *Resolver) {
		r.ip = s
	}
}

// WithBrowserStrategy sets the device position step.
func WithBrowserStrategy(s Strategy) ResolverOption {
	return func(r *Resolver) {
		r.browser = s
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a resolver over store. Without strategy options only
// the stored record and the default are used.
func NewResolver(registry *country.Registry, store *Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry: registry,
		store:    store,
		stored:   NewStoredStrategy(store),
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initial returns the stored result or the default one. It performs no
// network I/O and is meant for the first render.
func (r *Resolver) Initial(ctx context.Context) Result {
	if res, ok := r.stored.Detect(ctx); ok {
		return res
	}
	return r.Default()
}

// Resolve runs the chain. Unless forceRefresh is set a valid stored record
// short-circuits it. Network results are persisted as non-override records.
func (r *Resolver) Resolve(ctx context.Context, forceRefresh bool) Result {
	key := strconv.FormatBool(forceRefresh) + "|" + ClientIP(ctx)
	v, _, shared := r.group.Do(key, func() (any, error) {
		// Shared by every waiter; strategies carry their own timeouts.
		return r.resolve(context.WithoutCancel(ctx), forceRefresh), nil
	})
	if shared {
		r.logger.DebugContext(ctx, "joined in-flight location detection")
	}
	return v.(Result)
}

func (r *Resolver) resolve(ctx context.Context, forceRefresh bool) Result {
	if !forceRefresh {
		if res, ok := r.stored.Detect(ctx); ok {
			return res
		}
	}

	for _, s := range []Strategy{r.ip, r.browser} {
		if s == nil {
			continue
		}
		res, ok := s.Detect(ctx)
		if !ok {
			continue
		}
		if !forceRefresh {
			// A user override saved while detecting wins over the detection.
			if cur, ok := r.stored.Detect(ctx); ok && cur.Confidence == ConfidenceHigh {
				return cur
			}
		}
		r.store.Write(ctx, res.Location, res.Country, false)
		r.logger.InfoContext(ctx, "location detected",
			slog.String("source", string(res.Source)),
			slog.String("country", res.Country.Code),
			slog.String("confidence", string(res.Confidence)),
		)
		return res
	}

	return r.Default()
}

// SetUserCountry stores code as a user override. Unknown codes report false
// and leave the store untouched.
func (r *Resolver) SetUserCountry(ctx context.Context, code string) (Result, bool) {
	cfg, ok := r.registry.Lookup(code)
	if !ok {
		return Result{}, false
	}

	loc := LocationFor(cfg)
	r.store.Write(ctx, loc, cfg, true)

	return Result{
		Location:   loc,
		Country:    cfg,
		Source:     SourceStored,
		Confidence: ConfidenceHigh,
	}, true
}

// Clear deletes the stored record.
func (r *Resolver) Clear(ctx context.Context) {
	r.store.Clear(ctx)
}

// Default returns the terminal result used when nothing else is known.
func (r *Resolver) Default() Result {
	cfg := r.registry.Default()
	return Result{
		Location:   LocationFor(cfg),
		Country:    cfg,
		Source:     SourceDefault,
		Confidence: ConfidenceLow,
	}
}

// Registry returns the country registry used for lookups.
func (r *Resolver) Registry() *country.Registry {
	return r.registry
}
