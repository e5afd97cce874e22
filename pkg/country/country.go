package country

import (
	"embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Currency describes an ISO 4217 currency as displayed to users.
type Currency struct {
	Code   string `yaml:"code" json:"code"`
	Symbol string `yaml:"symbol" json:"symbol"`
	Name   string `yaml:"name" json:"name"`
}

// Language describes the primary language of a country.
// Code is a BCP-47 tag (e.g. "en-US").
type Language struct {
	Code       string `yaml:"code" json:"code"`
	Name       string `yaml:"name" json:"name"`
	NativeName string `yaml:"native_name" json:"nativeName"`
}

// Config is the static configuration of a supported country.
type Config struct {
	Code      string   `yaml:"code" json:"code"`
	Name      string   `yaml:"name" json:"name"`
	Flag      string   `yaml:"flag" json:"flag"`
	Currency  Currency `yaml:"currency" json:"currency"`
	Language  Language `yaml:"language" json:"language"`
	Locale    string   `yaml:"locale" json:"locale"`
	PhoneCode string   `yaml:"phone_code" json:"phoneCode"`
	Continent string   `yaml:"continent" json:"continent"`
}

// Registry is an immutable, ordered set of supported countries.
// It is safe for concurrent use.
type Registry struct {
	countries []Config
	byCode    map[string]int
	states    map[string][]State
	cities    map[string][]City
}

// New builds a registry from the given countries. Order is preserved and
// the first entry becomes the default country.
func New(countries []Config, opts ...Option) (*Registry, error) {
	if len(countries) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		countries: make([]Config, 0, len(countries)),
		byCode:    make(map[string]int, len(countries)),
		states:    map[string][]State{},
		cities:    map[string][]City{},
	}

	for _, c := range countries {
		code := normalizeCode(c.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: empty code for %q", ErrInvalidCountry, c.Name)
		}
		if _, ok := r.byCode[code]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, code)
		}
		c.Code = code
		r.byCode[code] = len(r.countries)
		r.countries = append(r.countries, c)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Option configures a Registry during construction.
type Option func(*Registry)

// WithStates attaches state/province data keyed by country code.
func WithStates(states map[string][]State) Option {
	return func(r *Registry) {
		for code, list := range states {
			r.states[normalizeCode(code)] = list
		}
	}
}

// WithCities attaches city data keyed by country code.
func WithCities(cities map[string][]City) Option {
	return func(r *Registry) {
		for code, list := range cities {
			r.cities[normalizeCode(code)] = list
		}
	}
}

// Load parses the embedded country, state and city data.
func Load() (*Registry, error) {
	var countries []Config
	if err := decode("data/countries.yaml", &countries); err != nil {
		return nil, err
	}

	var states map[string][]State
	if err := decode("data/states.yaml", &states); err != nil {
		return nil, err
	}

	var cities map[string][]City
	if err := decode("data/cities.yaml", &cities); err != nil {
		return nil, err
	}

	return New(countries, WithStates(states), WithCities(cities))
}

var builtin = sync.OnceValues(Load)

// Builtin returns the registry built from the embedded data.
// It is loaded once and shared.
func Builtin() *Registry {
	r, err := builtin()
	if err != nil {
		panic(fmt.Sprintf("country: builtin data: %v", err))
	}
	return r
}

func decode(name string, v any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("country: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidData, name, err)
	}
	return nil
}

// Lookup returns the country with the given ISO 3166-1 alpha-2 code.
// The code is matched case-insensitively.
func (r *Registry) Lookup(code string) (Config, bool) {
	i, ok := r.byCode[normalizeCode(code)]
	if !ok {
		return Config{}, false
	}
	return r.countries[i], true
}

// Has reports whether the code belongs to a supported country.
func (r *Registry) Has(code string) bool {
	_, ok := r.byCode[normalizeCode(code)]
	return ok
}

// LookupOrDefault returns the country for code or the default country.
func (r *Registry) LookupOrDefault(code string) Config {
	if c, ok := r.Lookup(code); ok {
		return c
	}
	return r.Default()
}

// ByCurrency returns the first country that uses the given currency.
func (r *Registry) ByCurrency(code string) (Config, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range r.countries {
		if c.Currency.Code == code {
			return c, true
		}
	}
	return Config{}, false
}

// ByLanguage returns every country whose language tag starts with the base
// language of tag, so "en-GB" matches all English-speaking countries.
func (r *Registry) ByLanguage(tag string) []Config {
	base, _, _ := strings.Cut(strings.TrimSpace(tag), "-")
	if base == "" {
		return nil
	}
	base = strings.ToLower(base)

	var out []Config
	for _, c := range r.countries {
		if strings.HasPrefix(strings.ToLower(c.Language.Code), base) {
			out = append(out, c)
		}
	}
	return out
}

// ByContinent returns the countries of the given continent.
func (r *Registry) ByContinent(continent string) []Config {
	var out []Config
	for _, c := range r.countries {
		if strings.EqualFold(c.Continent, continent) {
			out = append(out, c)
		}
	}
	return out
}

// Default returns the default country (the first registered entry).
func (r *Registry) Default() Config {
	return r.countries[0]
}

// All returns a copy of all countries in registration order.
func (r *Registry) All() []Config {
	return slices.Clone(r.countries)
}

// Continents returns the distinct continents in registration order.
func (r *Registry) Continents() []string {
	var out []string
	for _, c := range r.countries {
		if !slices.Contains(out, c.Continent) {
			out = append(out, c.Continent)
		}
	}
	return out
}

// Search matches countries by name or code, case-insensitively.
// An empty query returns every country; otherwise at most limit results
// are returned (10 when limit is not positive).
func (r *Registry) Search(query string, limit int) []Config {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.All()
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var out []Config
	for _, c := range r.countries {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Code), q) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
