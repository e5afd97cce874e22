package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// Sort orders.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
)

// Filter narrows Search. Zero fields do not filter.
type Filter struct {
	Query       string
	Category    string
	Subcategory string
	City        string
	CountryCode string
	Sort        string
	PriceMin    *float64
	PriceMax    *float64
}

// Search returns matching listings, newest first unless Sort says otherwise.
// Listings without a price never match a price bound and sort last by price.
func (c *Catalog) Search(f Filter) []Listing {
	c.mu.RLock()
	out := make([]Listing, 0, len(c.listings))
	for _, l := range c.listings {
		if f.matches(l) {
			out = append(out, l)
		}
	}
	c.mu.RUnlock()

	slices.SortStableFunc(out, sorter(f.Sort))
	return out
}

func (f Filter) matches(l Listing) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(l.Title), q) && !strings.Contains(strings.ToLower(l.Description), q) {
			return false
		}
	}
	if f.Category != "" && l.Category.Slug != f.Category {
		return false
	}
	if f.Subcategory != "" && (l.Subcategory == nil || l.Subcategory.Slug != f.Subcategory) {
		return false
	}
	if f.City != "" && !strings.EqualFold(l.Location.City, f.City) {
		return false
	}
	if f.CountryCode != "" && !strings.EqualFold(l.Location.CountryCode, f.CountryCode) {
		return false
	}
	if f.PriceMin != nil && (l.Price == nil || *l.Price < *f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && (l.Price == nil || *l.Price > *f.PriceMax) {
		return false
	}
	return true
}

func sorter(order string) func(a, b Listing) int {
	switch order {
	case SortOldest:
		return func(a, b Listing) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortPriceLow:
		return func(a, b Listing) int { return comparePrice(a, b, false) }
	case SortPriceHigh:
		return func(a, b Listing) int { return comparePrice(a, b, true) }
	default:
		return func(a, b Listing) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

func comparePrice(a, b Listing, desc bool) int {
	switch {
	case a.Price == nil && b.Price == nil:
		return 0
	case a.Price == nil:
		return 1
	case b.Price == nil:
		return -1
	case desc:
		return cmp.Compare(*b.Price, *a.Price)
	default:
		return cmp.Compare(*a.Price, *b.Price)
	}
}
