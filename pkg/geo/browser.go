package geo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

// Position is a device location fix.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PositionOptions mirror the hints a device location API accepts.
type PositionOptions struct {
	Timeout      time.Duration
	MaximumAge   time.Duration
	HighAccuracy bool
}

// DefaultPositionOptions are used by the browser strategy.
var DefaultPositionOptions = PositionOptions{
	Timeout:    10 * time.Second,
	MaximumAge: 5 * time.Minute,
}

// Positioner is the device location capability. Implementations return
// ErrPermissionDenied when the user refuses access.
type Positioner interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
}

// ReverseGeocoder turns coordinates into a location with a country code.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Location, error)
}

// BrowserStrategy asks the positioner for coordinates and reverse-geocodes
// them. It fails without a positioner, on denial, and on any geocoding
// failure; raw coordinates without a country are never returned.
type BrowserStrategy struct {
	registry       *country.Registry
	positioner     Positioner
	geocoder       ReverseGeocoder
	logger         *slog.Logger
	opts           PositionOptions
	geocodeTimeout time.Duration
}

// BrowserOption configures a BrowserStrategy.
type BrowserOption func(*BrowserStrategy)

// WithPositionOptions overrides DefaultPositionOptions.
func WithPositionOptions(opts PositionOptions) BrowserOption {
	return func(s *BrowserStrategy) {
		s.opts = opts
	}
}

// WithGeocodeTimeout bounds the reverse geocoding call.
func WithGeocodeTimeout(d time.Duration) BrowserOption {
	return func(s *BrowserStrategy) {
		s.geocodeTimeout = d
	}
}

// WithBrowserLogger sets the logger for positioning failures.
func WithBrowserLogger(l *slog.Logger) BrowserOption {
	return func(s *BrowserStrategy) {
		s.logger = l
	}
}

// NewBrowserStrategy creates a browser strategy. A nil positioner means the
// capability is absent.
func NewBrowserStrategy(registry *country.Registry, positioner Positioner, geocoder ReverseGeocoder, opts ...BrowserOption) *BrowserStrategy {
	s := &BrowserStrategy{
		registry:       registry,
		positioner:     positioner,
		geocoder:       geocoder,
		logger:         logger.NewNope(),
		opts:           DefaultPositionOptions,
		geocodeTimeout: DefaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BrowserStrategy) Name() string { return string(SourceBrowser) }

func (s *BrowserStrategy) Detect(ctx context.Context) (Result, bool) {
	if s.positioner == nil || s.geocoder == nil {
		return Result{}, false
	}

	pos, err := s.position(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "device position unavailable", slog.Any("error", err))
		return Result{}, false
	}

	loc, err := s.reverse(ctx, pos)
	if err != nil {
		s.logger.WarnContext(ctx, "reverse geocoding failed", slog.Any("error", err))
		return Result{}, false
	}

	lat, lon := pos.Latitude, pos.Longitude
	loc.Latitude, loc.Longitude = &lat, &lon

	return Result{
		Location:   loc,
		Country:    s.registry.LookupOrDefault(loc.CountryCode),
		Source:     SourceBrowser,
		Confidence: ConfidenceHigh,
	}, true
}

func (s *BrowserStrategy) position(ctx context.Context) (pos Position, err error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geo: positioner panic: %v", r)
		}
	}()
	return s.positioner.CurrentPosition(ctx, s.opts)
}

func (s *BrowserStrategy) reverse(ctx context.Context, pos Position) (loc Location, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.geocodeTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geo: geocoder panic: %v", r)
		}
	}()

	loc, err = s.geocoder.Reverse(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		return Location{}, err
	}
	if loc.CountryCode == "" {
		return Location{}, ErrMissingCountry
	}
	return loc, nil
}

// StaticPositioner serves fixed coordinates, e.g. supplied by an HTTP client
// or command line flags.
type StaticPositioner struct {
	pos Position
	err error
}

// NewStaticPositioner returns a positioner that always reports lat/lon.
// Coordinates outside the WGS84 range, NaN included, report
// ErrPositionUnavailable instead.
func NewStaticPositioner(lat, lon float64) *StaticPositioner {
	if !ValidPosition(lat, lon) {
		return &StaticPositioner{err: fmt.Errorf("%w: %v,%v", ErrPositionUnavailable, lat, lon)}
	}
	return &StaticPositioner{pos: Position{Latitude: lat, Longitude: lon, Timestamp: time.Now()}}
}

// ValidPosition reports whether lat/lon are finite WGS84 coordinates.
func ValidPosition(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// DeniedPositioner returns a positioner that always reports ErrPermissionDenied.
func DeniedPositioner() *StaticPositioner {
	return &StaticPositioner{err: ErrPermissionDenied}
}

func (p *StaticPositioner) CurrentPosition(ctx context.Context, _ PositionOptions) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	if p.err != nil {
		return Position{}, p.err
	}
	return p.pos, nil
}

// CachedPositioner reuses the last fix while it is younger than the
// requested MaximumAge.
type CachedPositioner struct {
	next Positioner
	now  func() time.Time
	last Position
	has  bool
	mu   sync.Mutex
}

// NewCachedPositioner wraps next. A nil clock means time.Now.
func NewCachedPositioner(next Positioner, now func() time.Time) *CachedPositioner {
	if now == nil {
		now = time.Now
	}
	return &CachedPositioner{next: next, now: now}
}

func (p *CachedPositioner) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.has && p.now().Sub(p.last.Timestamp) <= opts.MaximumAge {
		return p.last, nil
	}

	pos, err := p.next.CurrentPosition(ctx, opts)
	if err != nil {
		return Position{}, err
	}
	if pos.Timestamp.IsZero() {
		pos.Timestamp = p.now()
	}
	p.last, p.has = pos, true
	return pos, nil
}
