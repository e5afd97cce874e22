package geo

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/hireloop/pkg/cache"
)

// Config holds provider settings, usually parsed from the environment.
type Config struct {
	IPAPIURL        string        `env:"GEO_IPAPI_URL" envDefault:"http://ip-api.com"`
	IPAPICoURL      string        `env:"GEO_IPAPICO_URL" envDefault:"https://ipapi.co"`
	NominatimURL    string        `env:"GEO_NOMINATIM_URL" envDefault:"https://nominatim.openstreetmap.org"`
	MaxMindCityDB   string        `env:"GEO_MAXMIND_CITY_DB"`
	MaxMindASNDB    string        `env:"GEO_MAXMIND_ASN_DB"`
	UserAgent       string        `env:"GEO_USER_AGENT" envDefault:"HireLoop/1.0"`
	ProviderTimeout time.Duration `env:"GEO_PROVIDER_TIMEOUT" envDefault:"5s"`
	StoreTTL        time.Duration `env:"GEO_STORE_TTL" envDefault:"24h"`
	ProviderRPS     float64       `env:"GEO_PROVIDER_RPS" envDefault:"0.75"`
	NominatimRPS    float64       `env:"GEO_NOMINATIM_RPS" envDefault:"1"`
	BreakerFailures uint32        `env:"GEO_BREAKER_FAILURES" envDefault:"5"`
	BreakerCooldown time.Duration `env:"GEO_BREAKER_COOLDOWN" envDefault:"30s"`
	LookupCacheTTL  time.Duration `env:"GEO_LOOKUP_CACHE_TTL" envDefault:"1h"`
	LookupCacheSize int           `env:"GEO_LOOKUP_CACHE_SIZE" envDefault:"10000"`
	DisableNetwork  bool          `env:"GEO_DISABLE_NETWORK"`
}

// IPProviders builds the provider chain: the local MaxMind database when
// configured, then ip-api.com, then ipapi.co. Network providers keep their
// lookups in the given cache, or in an in-memory one when it is nil, unless
// LookupCacheTTL is zero. The returned close function releases the database
// readers and the in-memory cache.
func (c Config) IPProviders(client *http.Client, lookups cache.Cache[Location]) ([]IPProvider, func() error, error) {
	var (
		providers []IPProvider
		closers   []func() error
	)
	closeFn := func() error {
		var errs []error
		for _, fn := range closers {
			errs = append(errs, fn())
		}
		return errors.Join(errs...)
	}

	if c.MaxMindCityDB != "" {
		mm, err := OpenMaxMind(c.MaxMindCityDB, c.MaxMindASNDB)
		if err != nil {
			return nil, closeFn, err
		}
		providers = append(providers, mm)
		closers = append(closers, mm.Close)
	}

	if c.DisableNetwork {
		return providers, closeFn, nil
	}

	if lookups == nil && c.LookupCacheTTL > 0 {
		mem := cache.NewMemory[Location](
			cache.WithDefaultTTL(c.LookupCacheTTL),
			cache.WithMaxEntries(c.LookupCacheSize),
		)
		lookups = mem
		closers = append(closers, mem.Close)
	}

	opts := slices.Clip(append(c.httpOptions(client), WithRateLimit(c.ProviderRPS, 1)))
	for _, p := range []IPProvider{
		NewIPAPI(append(opts, WithBaseURL(c.IPAPIURL))...),
		NewIPAPICo(append(opts, WithBaseURL(c.IPAPICoURL))...),
	} {
		if c.LookupCacheTTL > 0 {
			p = NewCachedProvider(p, lookups, WithCacheTTL(c.LookupCacheTTL))
		}
		providers = append(providers, p)
	}
	return providers, closeFn, nil
}

// Geocoder builds the reverse geocoder, or nil when network access is disabled.
func (c Config) Geocoder(client *http.Client) ReverseGeocoder {
	if c.DisableNetwork {
		return nil
	}
	return NewNominatim(append(c.httpOptions(client),
		WithBaseURL(c.NominatimURL),
		WithRateLimit(c.NominatimRPS, 1),
	)...)
}

func (c Config) httpOptions(client *http.Client) []HTTPOption {
	opts := []HTTPOption{
		WithUserAgent(c.UserAgent),
		WithCircuitBreaker(c.BreakerFailures, c.BreakerCooldown),
	}
	if client != nil {
		opts = append(opts, WithHTTPClient(client))
	}
	return opts
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	if c.ProviderTimeout < 0 {
		errs = append(errs, errors.New("geo: provider timeout must not be negative"))
	}
	if c.StoreTTL <= 0 {
		errs = append(errs, errors.New("geo: store ttl must be positive"))
	}
	if c.ProviderRPS < 0 || c.NominatimRPS < 0 {
		errs = append(errs, errors.New("geo: rate limits must not be negative"))
	}
	if c.LookupCacheTTL < 0 || c.LookupCacheSize < 0 {
		errs = append(errs, errors.New("geo: lookup cache settings must not be negative"))
	}
	return errors.Join(errs...)
}
