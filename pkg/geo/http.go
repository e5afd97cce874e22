package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// maxResponseSize caps provider response bodies.
const maxResponseSize = 1 << 20

// DefaultUserAgent identifies the application to public geo services.
const DefaultUserAgent = "HireLoop/1.0"

type httpConfig struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[[]byte]

	tripAfter uint32
	cooldown  time.Duration
}

// HTTPOption configures an HTTP based provider.
type HTTPOption func(*httpConfig)

// WithBaseURL points the provider at another host (mirrors, tests).
func WithBaseURL(url string) HTTPOption {
	return func(c *httpConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *httpConfig) {
		c.client = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(c *httpConfig) {
		c.userAgent = ua
	}
}

// WithRateLimit spaces requests to at most rps per second with the given
// burst. Callers wait for a slot until their context expires.
func WithRateLimit(rps float64, burst int) HTTPOption {
	return func(c *httpConfig) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithCircuitBreaker stops calling the service for cooldown after
// failures consecutive transport or status failures. Zero failures
// disables the breaker. Default: 5 failures, 30s.
func WithCircuitBreaker(failures uint32, cooldown time.Duration) HTTPOption {
	return func(c *httpConfig) {
		c.tripAfter = failures
		c.cooldown = cooldown
	}
}

func newHTTPConfig(name, baseURL string, opts []HTTPOption) httpConfig {
	c := httpConfig{
		client:    &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		userAgent: DefaultUserAgent,
		tripAfter: 5,
		cooldown:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.tripAfter > 0 {
		tripAfter := c.tripAfter
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     c.cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= tripAfter
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		})
	}
	return c
}

// fetch performs a GET through the rate limiter and circuit breaker and
// returns the body of a 2xx response.
func (c httpConfig) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}
	if c.breaker == nil {
		return c.get(ctx, url)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, url)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, c.breaker.Name())
	}
	return body, err
}

func (c httpConfig) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}

func decodeJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return nil
}
