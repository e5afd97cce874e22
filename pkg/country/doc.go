// Package country provides the registry of supported countries together with
// their currency, language, locale and dialing code.
//
// The registry is static and ordered. The first entry (United States) is the
// default country returned whenever detection or lookup fails.
//
// # Usage
//
//	reg := country.Builtin()
//
//	de, ok := reg.Lookup("de")       // case-insensitive
//	eur, _ := reg.ByCurrency("EUR")  // first country using EUR (Germany)
//	en := reg.ByLanguage("en-GB")    // every English-speaking country
//	fallback := reg.Default()        // United States
//
// State and city suggestions are available for a subset of countries:
//
//	reg.SearchStates("US", "new")        // New Hampshire, New Jersey, ...
//	reg.SearchCities("US", "", "TX")     // Texas cities by population
//
// The data lives in embedded YAML files under data/.
package country
