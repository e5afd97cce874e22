package handlers

import (
	"net/http"

	"github.com/dmitrymomot/hireloop"
	"github.com/dmitrymomot/hireloop/pkg/country"
)

// Countries serves the supported-country registry and region suggestions.
type Countries struct {
	registry *country.Registry
}

func NewCountries(registry *country.Registry) *Countries {
	return &Countries{registry: registry}
}

func (h *Countries) Routes(r hireloop.Router) {
	r.Route("/api/countries", func(r hireloop.Router) {
		r.GET("/", h.list)
		r.GET("/{code}", h.get)
		r.GET("/{code}/states", h.states)
		r.GET("/{code}/cities", h.cities)
	})
}

// list filters by continent, then language, then the q search. All
// filters combine.
func (h *Countries) list(c hireloop.Context) error {
	out := h.registry.Search(c.Query("q"), hireloop.QueryDefault(c, "limit", 0))
	if continent := c.Query("continent"); continent != "" {
		out = intersect(out, h.registry.ByContinent(continent))
	}
	if lang := c.Query("language"); lang != "" {
		out = intersect(out, h.registry.ByLanguage(lang))
	}
	if out == nil {
		out = []country.Config{}
	}
	return c.JSON(http.StatusOK, out)
}

func intersect(a, b []country.Config) []country.Config {
	keep := make(map[string]bool, len(b))
	for _, c := range b {
		keep[c.Code] = true
	}
	out := make([]country.Config, 0, len(a))
	for _, c := range a {
		if keep[c.Code] {
			out = append(out, c)
		}
	}
	return out
}

func (h *Countries) lookup(c hireloop.Context) (country.Config, error) {
	cfg, ok := h.registry.Lookup(c.Param("code"))
	if !ok {
		return cfg, hireloop.ErrNotFound("Country not supported", hireloop.WithErrorCode("unknown_country"))
	}
	return cfg, nil
}

func (h *Countries) get(c hireloop.Context) error {
	cfg, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Countries) states(c hireloop.Context) error {
	cfg, err := h.lookup(c)
	if err != nil {
		return err
	}
	out := h.registry.SearchStates(cfg.Code, c.Query("q"))
	if out == nil {
		out = []country.State{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Countries) cities(c hireloop.Context) error {
	cfg, err := h.lookup(c)
	if err != nil {
		return err
	}
	out := h.registry.SearchCities(cfg.Code, c.Query("q"), c.Query("state"))
	if out == nil {
		out = []country.City{}
	}
	return c.JSON(http.StatusOK, out)
}
