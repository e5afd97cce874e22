package geo_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/geo"
)

// writeMMDB builds a GeoLite2-style database with one record per network.
func writeMMDB(t *testing.T, dbType string, records map[string]mmdbtype.Map) string {
	t.Helper()

	w, err := mmdbwriter.New(mmdbwriter.Options{DatabaseType: dbType, RecordSize: 24})
	require.NoError(t, err)
	for cidr, rec := range records {
		_, network, err := net.ParseCIDR(cidr)
		require.NoError(t, err)
		require.NoError(t, w.Insert(network, rec))
	}

	path := filepath.Join(t.TempDir(), dbType+".mmdb")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = w.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func names(en string) mmdbtype.Map {
	return mmdbtype.Map{"en": mmdbtype.String(en)}
}

func TestMaxMind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cityDB := writeMMDB(t, "GeoLite2-City", map[string]mmdbtype.Map{
		"81.2.69.0/24": {
			"country": mmdbtype.Map{"iso_code": mmdbtype.String("gb"), "names": names("United Kingdom")},
			"city":    mmdbtype.Map{"names": names("London")},
			"subdivisions": mmdbtype.Slice{
				mmdbtype.Map{"iso_code": mmdbtype.String("ENG"), "names": names("England")},
			},
			"location": mmdbtype.Map{
				"latitude":  mmdbtype.Float64(51.5142),
				"longitude": mmdbtype.Float64(-0.0931),
				"time_zone": mmdbtype.String("Europe/London"),
			},
		},
		"89.160.20.0/24": {
			"city": mmdbtype.Map{"names": names("Linköping")},
		},
	})
	asnDB := writeMMDB(t, "GeoLite2-ASN", map[string]mmdbtype.Map{
		"81.2.69.0/24": {
			"autonomous_system_number":       mmdbtype.Uint32(20712),
			"autonomous_system_organization": mmdbtype.String("Andrews & Arnold Ltd"),
		},
	})

	t.Run("maps city and asn records", func(t *testing.T) {
		t.Parallel()
		mm, err := geo.OpenMaxMind(cityDB, asnDB)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, mm.Close()) })

		require.Equal(t, "maxmind", mm.Name())
		loc, err := mm.Lookup(ctx, "81.2.69.142")
		require.NoError(t, err)
		require.Equal(t, "United Kingdom", loc.Country)
		require.Equal(t, "GB", loc.CountryCode)
		require.Equal(t, "London", loc.City)
		require.Equal(t, "England", loc.Region)
		require.Equal(t, "Europe/London", loc.Timezone)
		require.Equal(t, "Andrews & Arnold Ltd", loc.ISP)
		require.True(t, loc.HasCoordinates())
		require.InDelta(t, 51.5142, *loc.Latitude, 1e-9)
		require.InDelta(t, -0.0931, *loc.Longitude, 1e-9)
	})

	t.Run("isp is optional", func(t *testing.T) {
		t.Parallel()
		mm, err := geo.OpenMaxMind(cityDB, "")
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, mm.Close()) })

		loc, err := mm.Lookup(ctx, "81.2.69.142")
		require.NoError(t, err)
		require.Equal(t, "GB", loc.CountryCode)
		require.Empty(t, loc.ISP)
	})

	t.Run("records without a country fail", func(t *testing.T) {
		t.Parallel()
		mm, err := geo.OpenMaxMind(cityDB, asnDB)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, mm.Close()) })

		for _, ip := range []string{"89.160.20.112", "8.8.8.8", "2001:db8::1"} {
			_, err := mm.Lookup(ctx, ip)
			require.ErrorIs(t, err, geo.ErrMissingCountry, ip)
		}
	})

	t.Run("needs a valid client ip", func(t *testing.T) {
		t.Parallel()
		mm, err := geo.OpenMaxMind(cityDB, "")
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, mm.Close()) })

		_, err = mm.Lookup(ctx, "")
		require.ErrorIs(t, err, geo.ErrNoClientIP)
		_, err = mm.Lookup(ctx, "not-an-ip")
		require.ErrorIs(t, err, geo.ErrInvalidIP)
	})

	t.Run("open failures", func(t *testing.T) {
		t.Parallel()
		_, err := geo.OpenMaxMind(filepath.Join(t.TempDir(), "missing.mmdb"), "")
		require.Error(t, err)

		_, err = geo.OpenMaxMind(cityDB, filepath.Join(t.TempDir(), "missing.mmdb"))
		require.ErrorContains(t, err, "asn database")
	})

	t.Run("wrong database type", func(t *testing.T) {
		t.Parallel()
		mm, err := geo.OpenMaxMind(asnDB, "")
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, mm.Close()) })

		_, err = mm.Lookup(ctx, "81.2.69.142")
		require.Error(t, err)
	})

	t.Run("used as a provider", func(t *testing.T) {
		t.Parallel()
		cfg := geo.Config{MaxMindCityDB: cityDB, MaxMindASNDB: asnDB, DisableNetwork: true}
		providers, closeFn, err := cfg.IPProviders(nil, nil)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, closeFn()) })
		require.Len(t, providers, 1)

		loc, err := providers[0].Lookup(ctx, "81.2.69.142")
		require.NoError(t, err)
		require.Equal(t, "GB", loc.CountryCode)
	})
}
