package geo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// IPAPI looks addresses up with ip-api.com.
type IPAPI struct {
	http httpConfig
}

// NewIPAPI creates an ip-api.com provider.
func NewIPAPI(opts ...HTTPOption) *IPAPI {
	return &IPAPI{http: newHTTPConfig("ip-api.com", "http://ip-api.com", opts)}
}

func (p *IPAPI) Name() string { return "ip-api.com" }

func (p *IPAPI) Lookup(ctx context.Context, ip string) (Location, error) {
	u := strings.TrimSuffix(p.http.baseURL, "/") + "/json/" + url.PathEscape(ip) +
		"?fields=status,message,country,countryCode,regionName,city,lat,lon,timezone,isp"

	data, err := p.http.fetch(ctx, u)
	if err != nil {
		return Location{}, err
	}
	return ParseIPAPI(data)
}

type ipapiResponse struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	RegionName  string   `json:"regionName"`
	City        string   `json:"city"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Timezone    string   `json:"timezone"`
	ISP         string   `json:"isp"`
}

// ParseIPAPI maps an ip-api.com payload. Anything but status "success" is a failure.
func ParseIPAPI(data []byte) (Location, error) {
	var r ipapiResponse
	if err := decodeJSON(data, &r); err != nil {
		return Location{}, err
	}
	if r.Status != "success" {
		return Location{}, fmt.Errorf("%w: status %q %s", ErrProviderFailure, r.Status, r.Message)
	}
	if r.CountryCode == "" {
		return Location{}, ErrMissingCountry
	}

	return Location{
		Country:     r.Country,
		CountryCode: strings.ToUpper(r.CountryCode),
		Region:      r.RegionName,
		City:        r.City,
		Latitude:    r.Lat,
		Longitude:   r.Lon,
		Timezone:    r.Timezone,
		ISP:         r.ISP,
	}, nil
}

// IPAPICo looks addresses up with ipapi.co.
type IPAPICo struct {
	http httpConfig
}

// NewIPAPICo creates an ipapi.co provider.
func NewIPAPICo(opts ...HTTPOption) *IPAPICo {
	return &IPAPICo{http: newHTTPConfig("ipapi.co", "https://ipapi.co", opts)}
}

func (p *IPAPICo) Name() string { return "ipapi.co" }

func (p *IPAPICo) Lookup(ctx context.Context, ip string) (Location, error) {
	u := strings.TrimSuffix(p.http.baseURL, "/") + "/"
	if ip != "" {
		u += url.PathEscape(ip) + "/"
	}
	u += "json/"

	data, err := p.http.fetch(ctx, u)
	if err != nil {
		return Location{}, err
	}
	return ParseIPAPICo(data)
}

type ipapiCoResponse struct {
	Error       bool     `json:"error"`
	Reason      string   `json:"reason"`
	CountryName string   `json:"country_name"`
	CountryCode string   `json:"country_code"`
	Region      string   `json:"region"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Timezone    string   `json:"timezone"`
	Org         string   `json:"org"`
}

// ParseIPAPICo maps an ipapi.co payload. A set error flag is a failure.
func ParseIPAPICo(data []byte) (Location, error) {
	var r ipapiCoResponse
	if err := decodeJSON(data, &r); err != nil {
		return Location{}, err
	}
	if r.Error {
		return Location{}, fmt.Errorf("%w: %s", ErrProviderFailure, r.Reason)
	}
	if r.CountryCode == "" {
		return Location{}, ErrMissingCountry
	}

	return Location{
		Country:     r.CountryName,
		CountryCode: strings.ToUpper(r.CountryCode),
		Region:      r.Region,
		City:        r.City,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Timezone:    r.Timezone,
		ISP:         r.Org,
	}, nil
}
