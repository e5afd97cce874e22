package geo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// MaxMind resolves addresses from local GeoLite2 databases. It needs a
// client IP in the context and never touches the network.
type MaxMind struct {
	city *geoip2.Reader
	asn  *geoip2.Reader
}

// OpenMaxMind opens a GeoLite2 City database and, when asnPath is not empty,
// an ASN database used for the ISP name.
func OpenMaxMind(cityPath, asnPath string) (*MaxMind, error) {
	city, err := geoip2.Open(cityPath)
	if err != nil {
		return nil, fmt.Errorf("geo: open city database: %w", err)
	}

	m := &MaxMind{city: city}
	if asnPath != "" {
		if m.asn, err = geoip2.Open(asnPath); err != nil {
			_ = city.Close()
			return nil, fmt.Errorf("geo: open asn database: %w", err)
		}
	}
	return m, nil
}

func (m *MaxMind) Name() string { return "maxmind" }

func (m *MaxMind) Lookup(_ context.Context, ip string) (Location, error) {
	if ip == "" {
		return Location{}, ErrNoClientIP
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	rec, err := m.city.City(parsed)
	if err != nil {
		return Location{}, err
	}
	if rec.Country.IsoCode == "" {
		return Location{}, ErrMissingCountry
	}

	lat, lon := rec.Location.Latitude, rec.Location.Longitude
	loc := Location{
		Country:     rec.Country.Names["en"],
		CountryCode: strings.ToUpper(rec.Country.IsoCode),
		City:        rec.City.Names["en"],
		Latitude:    &lat,
		Longitude:   &lon,
		Timezone:    rec.Location.TimeZone,
	}
	if len(rec.Subdivisions) > 0 {
		loc.Region = rec.Subdivisions[0].Names["en"]
	}

	if m.asn != nil {
		if asn, err := m.asn.ASN(parsed); err == nil {
			loc.ISP = asn.AutonomousSystemOrganization
		}
	}

	return loc, nil
}

// Close releases the database readers.
func (m *MaxMind) Close() error {
	var errs []error
	errs = append(errs, m.city.Close())
	if m.asn != nil {
		errs = append(errs, m.asn.Close())
	}
	return errors.Join(errs...)
}
