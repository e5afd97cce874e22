package geo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/kv"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

const (
	// DefaultStorageKey is the key of the persisted record.
	DefaultStorageKey = "hireloop_user_location"

	// DefaultTTL is how long an auto-detected record stays valid.
	DefaultTTL = 24 * time.Hour
)

// StoredLocation is the persisted record. Records with UserOverride set
// never expire.
type StoredLocation struct {
	Location     Location       `json:"location"`
	Country      country.Config `json:"countryConfig"`
	Timestamp    time.Time      `json:"timestamp"`
	UserOverride bool           `json:"userOverride"`
}

// Store persists a single location record on a kv backend.
// Storage is best effort: write failures are logged and swallowed.
type Store struct {
	backend  kv.Backend
	registry *country.Registry
	logger   *slog.Logger
	now      func() time.Time
	key      string
	ttl      time.Duration
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		s.key = key
	}
}

// WithTTL sets the expiry of auto-detected records.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithRegistry sets the registry stored country codes are checked against.
// Default: country.Builtin().
func WithRegistry(r *country.Registry) StoreOption {
	return func(s *Store) {
		s.registry = r
	}
}

// WithStoreLogger sets the logger for storage failures.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a Store on top of backend.
func NewStore(backend kv.Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend:  backend,
		registry: country.Builtin(),
		logger:   logger.NewNope(),
		now:      time.Now,
		key:      DefaultStorageKey,
		ttl:      DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = country.Builtin()
	}
	return s
}

// Read returns the stored record. It reports false when there is no record,
// the record cannot be read or parsed, or it has expired. Records whose
// country is not in the registry are treated as malformed and deleted along
// with expired ones. The country config of a valid record always comes from
// the registry, never from storage.
func (s *Store) Read(ctx context.Context) (StoredLocation, bool) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to read stored location", slog.String("key", s.key), slog.Any("error", err))
		}
		return StoredLocation{}, false
	}

	var rec StoredLocation
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.WarnContext(ctx, "stored location is malformed", slog.String("key", s.key), slog.Any("error", err))
		return StoredLocation{}, false
	}

	cfg, ok := s.registry.Lookup(rec.Country.Code)
	if !ok {
		s.logger.WarnContext(ctx, "stored location has unknown country",
			slog.String("key", s.key), slog.String("country", rec.Country.Code))
		s.Clear(ctx)
		return StoredLocation{}, false
	}
	rec.Country = cfg

	if rec.UserOverride {
		return rec, true
	}

	if s.now().Sub(rec.Timestamp) > s.ttl {
		s.Clear(ctx)
		return StoredLocation{}, false
	}

	return rec, true
}

// Write replaces the record and stamps it with the current time. The record
// is returned even if it could not be persisted.
func (s *Store) Write(ctx context.Context, loc Location, cfg country.Config, userOverride bool) StoredLocation {
	rec := StoredLocation{
		Location:     loc,
		Country:      cfg,
		Timestamp:    s.now(),
		UserOverride: userOverride,
	}

	data, err := json.Marshal(rec)
	if err == nil {
		err = s.backend.Set(ctx, s.key, data)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to save location", slog.String("key", s.key), slog.Any("error", err))
	}

	return rec
}

// Clear deletes the record.
func (s *Store) Clear(ctx context.Context) {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.logger.WarnContext(ctx, "failed to clear stored location", slog.String("key", s.key), slog.Any("error", err))
	}
}

// StoredStrategy serves the persisted record without any network I/O.
type StoredStrategy struct {
	store *Store
}

// NewStoredStrategy creates a strategy reading from store.
func NewStoredStrategy(store *Store) *StoredStrategy {
	return &StoredStrategy{store: store}
}

func (s *StoredStrategy) Name() string { return string(SourceStored) }

// Detect returns the stored record with high confidence for user overrides
// and medium confidence otherwise.
func (s *StoredStrategy) Detect(ctx context.Context) (Result, bool) {
	rec, ok := s.store.Read(ctx)
	if !ok {
		return Result{}, false
	}

	confidence := ConfidenceMedium
	if rec.UserOverride {
		confidence = ConfidenceHigh
	}
	return Result{
		Location:   rec.Location,
		Country:    rec.Country,
		Source:     SourceStored,
		Confidence: confidence,
	}, true
}
