package geo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

// DefaultProviderTimeout bounds a single IP provider call.
const DefaultProviderTimeout = 5 * time.Second

// IPProvider resolves an IP address to a location. An empty ip means the
// caller's own public address.
type IPProvider interface {
	Name() string
	Lookup(ctx context.Context, ip string) (Location, error)
}

// IPStrategy asks providers in order and returns the first usable answer.
type IPStrategy struct {
	registry  *country.Registry
	logger    *slog.Logger
	providers []IPProvider
	timeout   time.Duration
}

// IPOption configures an IPStrategy.
type IPOption func(*IPStrategy)

// WithProviderTimeout overrides the per-provider timeout.
func WithProviderTimeout(d time.Duration) IPOption {
	return func(s *IPStrategy) {
		s.timeout = d
	}
}

// WithIPLogger sets the logger for provider failures.
func WithIPLogger(l *slog.Logger) IPOption {
	return func(s *IPStrategy) {
		s.logger = l
	}
}

// NewIPStrategy creates an IP strategy. Providers are tried in the given order.
func NewIPStrategy(registry *country.Registry, providers []IPProvider, opts ...IPOption) *IPStrategy {
	s := &IPStrategy{
		registry:  registry,
		providers: providers,
		logger:    logger.NewNope(),
		timeout:   DefaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *IPStrategy) Name() string { return string(SourceIP) }

// Detect returns the first provider answer carrying a country code.
// Confidence is high when the code is a registry country; unknown codes
// resolve to the default country with medium confidence.
func (s *IPStrategy) Detect(ctx context.Context) (Result, bool) {
	ip := ClientIP(ctx)

	for _, p := range s.providers {
		loc, err := s.lookup(ctx, p, ip)
		if err != nil {
			s.logger.WarnContext(ctx, "ip geolocation failed",
				slog.String("provider", p.Name()),
				slog.Any("error", err),
			)
			continue
		}

		cfg, known := s.registry.Lookup(loc.CountryCode)
		confidence := ConfidenceHigh
		if !known {
			cfg = s.registry.Default()
			confidence = ConfidenceMedium
		}

		return Result{
			Location:   loc,
			Country:    cfg,
			Source:     SourceIP,
			Confidence: confidence,
		}, true
	}

	return Result{}, false
}

func (s *IPStrategy) lookup(ctx context.Context, p IPProvider, ip string) (loc Location, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geo: provider panic: %v", r)
		}
	}()

	loc, err = p.Lookup(ctx, ip)
	if err != nil {
		return Location{}, err
	}

	loc.CountryCode = strings.ToUpper(strings.TrimSpace(loc.CountryCode))
	if loc.CountryCode == "" {
		return Location{}, ErrMissingCountry
	}
	return loc, nil
}
