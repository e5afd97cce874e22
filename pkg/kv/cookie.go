package kv

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/hireloop/pkg/cookie"
)

// Cookie is a request-scoped backend that keeps each key in its own cookie.
// Values written during the request are visible to later reads of the same
// Cookie even though the browser only sees them in the response.
//
// With a secret of 32+ bytes values are signed, or encrypted when
// WithCookieEncryption is set. Without one they are only base64 encoded.
type Cookie struct {
	w       http.ResponseWriter
	r       *http.Request
	m       *cookie.Manager
	opts    cookieOptions
	pending map[string][]byte // nil value = deleted in this request
	mu      sync.Mutex
}

type cookieOptions struct {
	manager []cookie.Option
	prefix  string
	maxAge  time.Duration
	encrypt bool
}

// CookieOption configures a Cookie backend.
type CookieOption func(*cookieOptions)

// WithCookieSecret enables signing. Secrets shorter than 32 bytes are ignored.
func WithCookieSecret(secret string) CookieOption {
	return func(o *cookieOptions) {
		o.manager = append(o.manager, cookie.WithSecret(secret))
	}
}

// WithCookieEncryption encrypts values instead of signing them. It has no
// effect without a secret.
func WithCookieEncryption() CookieOption {
	return func(o *cookieOptions) {
		o.encrypt = true
	}
}

// WithCookiePrefix prepends prefix to cookie names.
func WithCookiePrefix(prefix string) CookieOption {
	return func(o *cookieOptions) {
		o.prefix = prefix
	}
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return func(o *cookieOptions) {
		o.manager = append(o.manager, cookie.WithDomain(domain))
	}
}

// WithCookieMaxAge sets the browser-side lifetime. Default: one year.
func WithCookieMaxAge(d time.Duration) CookieOption {
	return func(o *cookieOptions) {
		o.maxAge = d
	}
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return func(o *cookieOptions) {
		o.manager = append(o.manager, cookie.WithSecure(secure))
	}
}

// NewCookie binds a cookie backend to a single request/response pair.
func NewCookie(w http.ResponseWriter, r *http.Request, opts ...CookieOption) *Cookie {
	o := cookieOptions{maxAge: 365 * 24 * time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cookie{
		w:       w,
		r:       r,
		m:       cookie.New(o.manager...),
		opts:    o,
		pending: make(map[string][]byte),
	}
}

func (c *Cookie) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	pv, ok := c.pending[key]
	c.mu.Unlock()
	if ok {
		if pv == nil {
			return nil, ErrNotFound
		}
		return pv, nil
	}

	var (
		v   []byte
		err error
	)
	switch {
	case !c.m.HasSecret():
		v, err = c.m.Get(c.r, c.name(key))
	case c.opts.encrypt:
		v, err = c.m.GetEncrypted(c.r, c.name(key))
	default:
		v, err = c.m.GetSigned(c.r, c.name(key))
	}
	switch {
	case errors.Is(err, cookie.ErrNotFound):
		return nil, ErrNotFound
	case errors.Is(err, cookie.ErrBadValue), errors.Is(err, cookie.ErrBadSig), errors.Is(err, cookie.ErrDecrypt):
		return nil, ErrBadSignature
	case err != nil:
		return nil, err
	}
	return v, nil
}

func (c *Cookie) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.pending[key] = append([]byte{}, value...)
	c.mu.Unlock()

	maxAge := int(c.opts.maxAge.Seconds())
	switch {
	case !c.m.HasSecret():
		c.m.Set(c.w, c.name(key), value, maxAge)
		return nil
	case c.opts.encrypt:
		return c.m.SetEncrypted(c.w, c.name(key), value, maxAge)
	default:
		return c.m.SetSigned(c.w, c.name(key), value, maxAge)
	}
}

func (c *Cookie) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	c.pending[key] = nil
	c.mu.Unlock()

	c.m.Delete(c.w, c.name(key))
	return nil
}

func (c *Cookie) name(key string) string {
	return c.opts.prefix + key
}

var _ Backend = (*Cookie)(nil)
