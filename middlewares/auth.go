package middlewares

import (
	"context"

	"github.com/dmitrymomot/hireloop/internal"
)

type principalKey struct{}

// TokenVerifier resolves a bearer token to the authenticated principal.
type TokenVerifier[T any] func(ctx context.Context, token string) (T, error)

type AuthConfig struct {
	Extractor    internal.Extractor
	extractorSet bool
}

type AuthOption func(*AuthConfig)

// WithAuthExtractor replaces the default Authorization: Bearer source.
func WithAuthExtractor(ext internal.Extractor) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// BearerAuth rejects requests without a token accepted by verify with a 401
// and stores the principal for GetPrincipal.
func BearerAuth[T any](verify TokenVerifier[T], opts ...AuthOption) internal.Middleware {
	cfg := &AuthConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(internal.FromBearerToken())
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			token, ok := cfg.Extractor.Extract(c)
			if !ok {
				return internal.ErrUnauthorized("Unauthorized", internal.WithErrorCode("unauthorized"))
			}
			principal, err := verify(c, token)
			if err != nil {
				return internal.ErrUnauthorized("Unauthorized",
					internal.WithErrorCode("unauthorized"),
					internal.WithError(err),
				)
			}
			c.Set(principalKey{}, principal)
			return next(c)
		}
	}
}

// GetPrincipal returns the principal stored by BearerAuth.
func GetPrincipal[T any](c internal.Context) (T, bool) {
	p, ok := c.Get(principalKey{}).(T)
	return p, ok
}
