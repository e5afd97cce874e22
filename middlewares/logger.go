package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/hireloop/internal"
)

type RequestLoggerConfig struct {
	// Skip excludes requests from logging, e.g. health probes.
	Skip func(r *http.Request) bool
}

type RequestLoggerOption func(*RequestLoggerConfig)

func WithRequestLoggerSkip(fn func(r *http.Request) bool) RequestLoggerOption {
	return func(cfg *RequestLoggerConfig) {
		cfg.Skip = fn
	}
}

// RequestLogger logs one record per request. 5xx responses log at ERROR,
// 4xx at WARN, everything else at INFO.
func RequestLogger(opts ...RequestLoggerOption) internal.Middleware {
	cfg := &RequestLoggerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if cfg.Skip != nil && cfg.Skip(c.Request()) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			rw := c.ResponseWriter()
			status := rw.Status()
			if err != nil && !rw.Written() {
				status = http.StatusInternalServerError
				if httpErr := internal.AsHTTPError(err); httpErr != nil {
					status = httpErr.Code
				}
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			c.Logger().LogAttrs(c, level, "http request",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Int64("bytes", rw.Size()),
				slog.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}
