package kv

import (
	"context"
	"errors"
)

// Sentinel errors for backend operations.
var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("kv: key not found")

	// ErrInvalidKey is returned for keys that cannot be mapped to the backend.
	ErrInvalidKey = errors.New("kv: invalid key")

	// ErrBadSignature is returned when a signed value fails verification.
	ErrBadSignature = errors.New("kv: invalid signature")
)

// Backend is a minimal byte-oriented key-value store.
// Expiry is owned by the caller; backends keep values until deleted.
type Backend interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a readiness check for b.
// Backends without a Pinger are always healthy.
func Healthcheck(b Backend) func(context.Context) error {
	return func(ctx context.Context) error {
		p, ok := b.(Pinger)
		if !ok {
			return nil
		}
		return p.Ping(ctx)
	}
}
