package country

import (
	"cmp"
	"slices"
	"strings"
)

const (
	defaultSearchLimit = 10
	defaultBrowseLimit = 15
)

// State is a first-level administrative division (state, province, region).
type State struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// City is a well-known city used for suggestions.
type City struct {
	Name       string `yaml:"name" json:"name"`
	StateCode  string `yaml:"state,omitempty" json:"stateCode,omitempty"`
	Population int    `yaml:"population,omitempty" json:"population,omitempty"`
}

// States returns all known states of a country.
func (r *Registry) States(countryCode string) []State {
	return slices.Clone(r.states[normalizeCode(countryCode)])
}

// State returns a single state by its code within a country.
func (r *Registry) State(countryCode, stateCode string) (State, bool) {
	for _, s := range r.states[normalizeCode(countryCode)] {
		if s.Code == stateCode {
			return s, true
		}
	}
	return State{}, false
}

// SearchStates matches states by name or code.
// An empty query returns the first 15 states, otherwise up to 10 matches.
func (r *Registry) SearchStates(countryCode, query string) []State {
	states := r.states[normalizeCode(countryCode)]
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(states[:min(len(states), defaultBrowseLimit)])
	}

	var out []State
	for _, s := range states {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Code), q) {
			out = append(out, s)
			if len(out) == defaultSearchLimit {
				break
			}
		}
	}
	return out
}

// SearchCities matches cities by name, optionally restricted to a state.
// Results are ordered by population, largest first. An empty query returns
// the 15 largest cities, otherwise up to 10 matches.
func (r *Registry) SearchCities(countryCode, query, stateCode string) []City {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []City
	for _, c := range r.cities[normalizeCode(countryCode)] {
		if stateCode != "" && c.StateCode != stateCode {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) {
			continue
		}
		out = append(out, c)
	}

	slices.SortStableFunc(out, func(a, b City) int {
		return cmp.Compare(b.Population, a.Population)
	})

	limit := defaultSearchLimit
	if q == "" {
		limit = defaultBrowseLimit
	}
	return out[:min(len(out), limit)]
}
