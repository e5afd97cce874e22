package middlewares

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"strings"

	"github.com/dmitrymomot/hireloop/internal"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

type clientIPKey struct{}

type ClientIPConfig struct {
	// TrustForwarded honors X-Forwarded-For and X-Real-IP. Enable only
	// behind a proxy that overwrites them.
	TrustForwarded bool
}

type ClientIPOption func(*ClientIPConfig)

func WithTrustForwarded(trust bool) ClientIPOption {
	return func(cfg *ClientIPConfig) {
		cfg.TrustForwarded = trust
	}
}

// ClientIP stores the visitor's address for GetClientIP.
func ClientIP(opts ...ClientIPOption) internal.Middleware {
	cfg := &ClientIPConfig{TrustForwarded: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if ip := clientAddr(c, cfg.TrustForwarded); ip.IsValid() {
				c.Set(clientIPKey{}, ip)
			}
			return next(c)
		}
	}
}

func clientAddr(c internal.Context, trustForwarded bool) netip.Addr {
	if trustForwarded {
		if xff := c.Header("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
				return ip.Unmap()
			}
		}
		if ip, err := netip.ParseAddr(strings.TrimSpace(c.Header("X-Real-IP"))); err == nil {
			return ip.Unmap()
		}
	}

	host, _, err := net.SplitHostPort(c.Request().RemoteAddr)
	if err != nil {
		host = c.Request().RemoteAddr
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return ip.Unmap()
}

// GetClientIP returns the visitor address, or "" without the middleware.
func GetClientIP(c internal.Context) string {
	if ip, ok := c.Get(clientIPKey{}).(netip.Addr); ok {
		return ip.String()
	}
	return ""
}

// GetPublicClientIP is GetClientIP restricted to globally routable
// addresses. Loopback and private addresses yield "".
func GetPublicClientIP(c internal.Context) string {
	ip, ok := c.Get(clientIPKey{}).(netip.Addr)
	if !ok || ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}

// ClientIPExtractor adds "client_ip" to log records.
func ClientIPExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip, ok := ctx.Value(clientIPKey{}).(netip.Addr); ok {
			return slog.String("client_ip", ip.String()), true
		}
		return slog.Attr{}, false
	}
}
