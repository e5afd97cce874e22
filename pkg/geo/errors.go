package geo

import "errors"

var (
	ErrBadStatus         = errors.New("geo: unexpected response status")
	ErrMalformedResponse = errors.New("geo: malformed response")
	ErrProviderFailure   = errors.New("geo: provider reported failure")
	ErrMissingCountry    = errors.New("geo: response has no country code")
	ErrNoClientIP        = errors.New("geo: client ip required")
	ErrInvalidIP         = errors.New("geo: invalid ip address")
	ErrRateLimited       = errors.New("geo: rate limit wait aborted")
	ErrCircuitOpen       = errors.New("geo: provider temporarily disabled")

	ErrPermissionDenied    = errors.New("geo: position permission denied")
	ErrPositionUnavailable = errors.New("geo: position unavailable")
)
