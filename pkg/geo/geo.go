package geo

import (
	"context"

	"github.com/dmitrymomot/hireloop/pkg/country"
)

// Source identifies which strategy produced a result.
type Source string

const (
	SourceIP      Source = "ip"
	SourceBrowser Source = "browser"
	SourceStored  Source = "stored"
	SourceDefault Source = "default"
)

// Confidence is a qualitative trust level of a result. It is used for
// display only.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Location is the output of a single detection attempt. Only Country and
// CountryCode are guaranteed; everything else depends on the provider.
type Location struct {
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	Region      string   `json:"region,omitempty"`
	City        string   `json:"city,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	ISP         string   `json:"isp,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// LocationFor builds the minimal location of a country.
func LocationFor(cfg country.Config) Location {
	return Location{Country: cfg.Name, CountryCode: cfg.Code}
}

// Result is a resolved location. Country is always set, falling back to the
// registry default when the detected code is unknown.
type Result struct {
	Location   Location       `json:"location"`
	Country    country.Config `json:"countryConfig"`
	Source     Source         `json:"source"`
	Confidence Confidence     `json:"confidence"`
}

// Strategy is one step of the detection chain. Detect reports success with
// the boolean and never returns an error: failures are absorbed (and logged)
// by the strategy itself.
type Strategy interface {
	Name() string
	Detect(ctx context.Context) (Result, bool)
}

// State describes where a resolution currently stands.
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateDefault         State = "default"
	StateStored          State = "stored"
	StateIPResolved      State = "ip-resolved"
	StateBrowserResolved State = "browser-resolved"
	StateUserOverride    State = "user-override"
)

// StateOf maps a result to its resolution state. A stored result with high
// confidence comes from a user override.
func StateOf(r Result) State {
	switch r.Source {
	case SourceDefault:
		return StateDefault
	case SourceIP:
		return StateIPResolved
	case SourceBrowser:
		return StateBrowserResolved
	case SourceStored:
		if r.Confidence == ConfidenceHigh {
			return StateUserOverride
		}
		return StateStored
	default:
		return StateUninitialized
	}
}

type clientIPKey struct{}

// WithClientIP attaches the address to look up to ctx. Without it, HTTP IP
// providers locate the caller's own public address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP returns the address attached with WithClientIP.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
