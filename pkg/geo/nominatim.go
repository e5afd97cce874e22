package geo

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Nominatim reverse-geocodes with an OpenStreetMap Nominatim server.
type Nominatim struct {
	http httpConfig
}

// NewNominatim creates a geocoder for nominatim.openstreetmap.org.
func NewNominatim(opts ...HTTPOption) *Nominatim {
	return &Nominatim{http: newHTTPConfig("nominatim", "https://nominatim.openstreetmap.org", opts)}
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (Location, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", "10")
	q.Set("addressdetails", "1")

	data, err := n.http.fetch(ctx, strings.TrimSuffix(n.http.baseURL, "/")+"/reverse?"+q.Encode())
	if err != nil {
		return Location{}, err
	}
	return ParseNominatim(data)
}

type nominatimResponse struct {
	Address struct {
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
		State       string `json:"state"`
		Region      string `json:"region"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
	} `json:"address"`
}

// ParseNominatim maps a reverse geocoding payload. The country code is
// required; region prefers state over region and city prefers city, town,
// village in that order.
func ParseNominatim(data []byte) (Location, error) {
	var r nominatimResponse
	if err := decodeJSON(data, &r); err != nil {
		return Location{}, err
	}

	a := r.Address
	if a.CountryCode == "" {
		return Location{}, ErrMissingCountry
	}

	return Location{
		Country:     a.Country,
		CountryCode: strings.ToUpper(a.CountryCode),
		Region:      firstNonEmpty(a.State, a.Region),
		City:        firstNonEmpty(a.City, a.Town, a.Village),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
