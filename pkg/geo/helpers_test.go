package geo_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/hireloop/pkg/geo"
)

var errBackendDown = errors.New("backend down")

type fakeProvider struct {
	name   string
	loc    geo.Location
	err    error
	delay  time.Duration
	calls  atomic.Int32
	lastIP atomic.Value
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Lookup(ctx context.Context, ip string) (geo.Location, error) {
	f.calls.Add(1)
	f.lastIP.Store(ip)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return geo.Location{}, ctx.Err()
		}
	}
	return f.loc, f.err
}

type fakeGeocoder struct {
	loc   geo.Location
	err   error
	calls atomic.Int32
}

func (f *fakeGeocoder) Reverse(_ context.Context, _, _ float64) (geo.Location, error) {
	f.calls.Add(1)
	return f.loc, f.err
}

type countingPositioner struct {
	pos   geo.Position
	err   error
	calls atomic.Int32
}

func (p *countingPositioner) CurrentPosition(_ context.Context, _ geo.PositionOptions) (geo.Position, error) {
	p.calls.Add(1)
	return p.pos, p.err
}

// failingBackend rejects every operation.
type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, error) { return nil, errBackendDown }
func (failingBackend) Set(context.Context, string, []byte) error   { return errBackendDown }
func (failingBackend) Delete(context.Context, string) error        { return errBackendDown }

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
