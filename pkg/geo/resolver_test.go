package geo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/kv"
)

type fixture struct {
	clock     *clock
	backend   *kv.Memory
	store     *geo.Store
	primary   *fakeProvider
	secondary *fakeProvider
	geocoder  *fakeGeocoder
	position  *countingPositioner
	resolver  *geo.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := country.Builtin()
	f := &fixture{
		clock:     newClock(),
		backend:   kv.NewMemory(),
		primary:   &fakeProvider{name: "ip-api.com", err: geo.ErrBadStatus},
		secondary: &fakeProvider{name: "ipapi.co", err: geo.ErrBadStatus},
		geocoder:  &fakeGeocoder{err: geo.ErrBadStatus},
		position:  &countingPositioner{pos: geo.Position{Latitude: 40.4, Longitude: -3.7}},
	}
	f.store = geo.NewStore(f.backend, geo.WithClock(f.clock.Now))
	f.resolver = geo.NewResolver(reg, f.store,
		geo.WithIPStrategy(geo.NewIPStrategy(reg, []geo.IPProvider{f.primary, f.secondary})),
		geo.WithBrowserStrategy(geo.NewBrowserStrategy(reg, f.position, f.geocoder)),
	)
	return f
}

func (f *fixture) networkCalls() int32 {
	return f.primary.calls.Load() + f.secondary.calls.Load() + f.position.calls.Load() + f.geocoder.calls.Load()
}

func TestResolver_Initial(t *testing.T) {
	t.Parallel()

	t.Run("default without stored record", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		res := f.resolver.Initial(context.Background())
		require.Equal(t, geo.SourceDefault, res.Source)
		require.Equal(t, geo.ConfidenceLow, res.Confidence)
		require.Equal(t, "US", res.Country.Code)
		require.Equal(t, geo.Location{Country: "United States", CountryCode: "US"}, res.Location)
		require.Zero(t, f.networkCalls())
	})

	t.Run("stored record without network", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, ok := f.resolver.SetUserCountry(context.Background(), "GB")
		require.True(t, ok)

		res := f.resolver.Initial(context.Background())
		require.Equal(t, geo.SourceStored, res.Source)
		require.Equal(t, "GB", res.Country.Code)
		require.Zero(t, f.networkCalls())
	})
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stored record short-circuits", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		de, _ := country.Builtin().Lookup("DE")
		f.store.Write(ctx, geo.LocationFor(de), de, false)

		res := f.resolver.Resolve(ctx, false)
		require.Equal(t, geo.SourceStored, res.Source)
		require.Equal(t, geo.ConfidenceMedium, res.Confidence)
		require.Zero(t, f.networkCalls())
	})

	t.Run("force refresh goes to ip first", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.primary.err = nil
		f.primary.loc = geo.Location{Country: "Germany", CountryCode: "DE", City: "Berlin"}
		_, ok := f.resolver.SetUserCountry(ctx, "JP")
		require.True(t, ok)

		res := f.resolver.Resolve(ctx, true)
		require.Equal(t, geo.SourceIP, res.Source)
		require.Equal(t, geo.ConfidenceHigh, res.Confidence)
		require.Equal(t, "DE", res.Country.Code)
		require.EqualValues(t, 1, f.primary.calls.Load())

		rec, ok := f.store.Read(ctx)
		require.True(t, ok)
		require.Equal(t, "DE", rec.Country.Code)
		require.Equal(t, "Berlin", rec.Location.City)
		require.False(t, rec.UserOverride)
	})

	t.Run("secondary provider before browser", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.secondary.err = nil
		f.secondary.loc = geo.Location{CountryCode: "BR"}

		res := f.resolver.Resolve(ctx, false)
		require.Equal(t, "BR", res.Country.Code)
		require.EqualValues(t, 1, f.primary.calls.Load())
		require.EqualValues(t, 1, f.secondary.calls.Load())
		require.Zero(t, f.position.calls.Load())
	})

	t.Run("browser after ip failure is persisted", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.geocoder.err = nil
		f.geocoder.loc = geo.Location{Country: "España", CountryCode: "ES", City: "Madrid"}

		res := f.resolver.Resolve(ctx, false)
		require.Equal(t, geo.SourceBrowser, res.Source)
		require.Equal(t, "ES", res.Country.Code)

		rec, ok := f.store.Read(ctx)
		require.True(t, ok)
		require.Equal(t, "ES", rec.Country.Code)
		require.False(t, rec.UserOverride)
	})

	t.Run("total failure returns default", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		res := f.resolver.Resolve(ctx, true)
		require.Equal(t, geo.SourceDefault, res.Source)
		require.Equal(t, geo.ConfidenceLow, res.Confidence)
		require.Equal(t, geo.StateDefault, geo.StateOf(res))

		_, ok := f.store.Read(ctx)
		require.False(t, ok)
	})

	t.Run("without strategies resolves stored or default", func(t *testing.T) {
		t.Parallel()
		r := geo.NewResolver(country.Builtin(), geo.NewStore(kv.NewMemory()))
		require.Equal(t, geo.SourceDefault, r.Resolve(ctx, true).Source)
	})

	t.Run("concurrent calls share one detection", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.primary.err = nil
		f.primary.delay = 100 * time.Millisecond
		f.primary.loc = geo.Location{CountryCode: "NL"}

		var wg sync.WaitGroup
		results := make([]geo.Result, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = f.resolver.Resolve(ctx, true)
			}()
		}
		wg.Wait()

		for _, res := range results {
			require.Equal(t, "NL", res.Country.Code)
		}
		require.Less(t, f.primary.calls.Load(), int32(len(results)))
	})
}

func TestResolver_SetUserCountry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("override survives expiry window", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		res, ok := f.resolver.SetUserCountry(ctx, "jp")
		require.True(t, ok)
		require.Equal(t, "JP", res.Country.Code)
		require.Equal(t, geo.SourceStored, res.Source)
		require.Equal(t, geo.ConfidenceHigh, res.Confidence)

		f.clock.Advance(25 * time.Hour)
		again := f.resolver.Resolve(ctx, false)
		require.Equal(t, res, again)
		require.Zero(t, f.networkCalls())
	})

	t.Run("unknown code leaves store untouched", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, ok := f.resolver.SetUserCountry(ctx, "DE")
		require.True(t, ok)
		before, err := f.backend.Get(ctx, geo.DefaultStorageKey)
		require.NoError(t, err)

		_, ok = f.resolver.SetUserCountry(ctx, "ZZ")
		require.False(t, ok)

		after, err := f.backend.Get(ctx, geo.DefaultStorageKey)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})

	t.Run("clear forgets override", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, ok := f.resolver.SetUserCountry(ctx, "DE")
		require.True(t, ok)

		f.resolver.Clear(ctx)
		require.Equal(t, geo.SourceDefault, f.resolver.Initial(ctx).Source)
	})
}
