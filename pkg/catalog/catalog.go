package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/hireloop/pkg/sanitizer"
	"github.com/dmitrymomot/hireloop/pkg/slug"
)

//go:embed seed.yaml
var seedYAML []byte

// MaxImages caps the images kept on a new listing.
const MaxImages = 10

var (
	ErrListingNotFound = errors.New("catalog: listing not found")
	ErrMissingFields   = errors.New("catalog: missing required fields: title, category.slug")
	ErrInvalidPrice    = errors.New("catalog: invalid price")
)

type seed struct {
	Categories  []Category `yaml:"categories"`
	Users       []User     `yaml:"users"`
	CurrentUser string     `yaml:"currentUser"`
	Listings    []Listing  `yaml:"listings"`
}

// Catalog is the in-memory listings store of the demo API. Data is reset on
// every start.
type Catalog struct {
	now         func() time.Time
	newID       func() string
	categories  []Category
	users       []User
	currentUser User
	listings    []Listing
	mu          sync.RWMutex
}

type Option func(*Catalog)

// WithClock sets the time source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// WithIDGenerator sets the listing ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Catalog) {
		c.newID = fn
	}
}

// New loads the embedded seed data.
func New(opts ...Option) (*Catalog, error) {
	var s seed
	if err := yaml.Unmarshal(seedYAML, &s); err != nil {
		return nil, fmt.Errorf("catalog: parse seed: %w", err)
	}

	c := &Catalog{
		now:        time.Now,
		newID:      func() string { return "listing-" + uuid.NewString() },
		categories: s.Categories,
		users:      s.Users,
		listings:   s.Listings,
	}
	for _, opt := range opts {
		opt(c)
	}

	i := slices.IndexFunc(s.Users, func(u User) bool { return u.ID == s.CurrentUser })
	if i < 0 {
		return nil, fmt.Errorf("catalog: current user %q not in seed", s.CurrentUser)
	}
	c.currentUser = s.Users[i]

	for i := range c.listings {
		if c.listings[i].Images == nil {
			c.listings[i].Images = []string{}
		}
	}
	return c, nil
}

// Categories returns the category tree.
func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

// Category looks up a category by slug.
func (c *Catalog) Category(slug string) (Category, bool) {
	i := slices.IndexFunc(c.categories, func(cat Category) bool { return cat.Slug == slug })
	if i < 0 {
		return Category{}, false
	}
	return c.categories[i], true
}

// CurrentUser is the user every demo session acts as.
func (c *Catalog) CurrentUser() User {
	return c.currentUser
}

// UserByEmail finds a user, falling back to the current user.
func (c *Catalog) UserByEmail(email string) User {
	email = strings.TrimSpace(email)
	for _, u := range c.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return c.currentUser
}

// Listing returns a listing by ID.
func (c *Catalog) Listing(id string) (Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return Listing{}, ErrListingNotFound
}

// NewListing is the input of Create. Only Title and CategorySlug are required.
type NewListing struct {
	Title           string
	Slug            string
	Description     string
	Price           *float64
	Currency        string
	PriceType       string
	CategorySlug    string
	SubcategorySlug string
	Location        *Location
	Images          []string
}

// Create validates and prepends a listing owned by the current user.
// Unknown category slugs are kept as given so clients may post ad-hoc
// categories; a known slug is expanded to its full reference.
func (c *Catalog) Create(in NewListing) (Listing, error) {
	title := sanitizer.StripHTML(in.Title)
	catSlug := strings.TrimSpace(in.CategorySlug)
	if title == "" || catSlug == "" {
		return Listing{}, ErrMissingFields
	}
	if in.Price != nil && *in.Price < 0 {
		return Listing{}, ErrInvalidPrice
	}

	l := Listing{
		ID:          c.newID(),
		Title:       title,
		Slug:        slug.Make(in.Slug),
		Description: sanitizer.StripHTML(in.Description),
		Price:       in.Price,
		Currency:    strings.ToUpper(strings.TrimSpace(in.Currency)),
		PriceType:   in.PriceType,
		Category:    Ref{Slug: catSlug},
		Location:    UnknownLocation,
		Images:      []string{},
		SellerID:    c.currentUser.ID,
		CreatedAt:   c.now().UTC(),
		Status:      StatusActive,
	}
	if l.Slug == "" {
		l.Slug = slug.Make(title)
	}
	if l.Currency == "" {
		l.Currency = "USD"
	}
	if l.PriceType == "" {
		l.PriceType = PriceFixed
	}
	if in.Location != nil {
		l.Location = *in.Location
		l.Location.CountryCode = strings.ToUpper(l.Location.CountryCode)
	}
	if len(in.Images) > 0 {
		l.Images = slices.Clone(in.Images[:min(len(in.Images), MaxImages)])
	}

	if cat, ok := c.Category(catSlug); ok {
		l.Category = Ref{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}
		for _, sub := range cat.Subcategories {
			if sub.Slug == in.SubcategorySlug {
				l.Subcategory = &Ref{ID: sub.ID, Name: sub.Name, Slug: sub.Slug}
			}
		}
	}
	if l.Subcategory == nil && in.SubcategorySlug != "" {
		l.Subcategory = &Ref{Slug: in.SubcategorySlug}
	}

	c.mu.Lock()
	c.listings = slices.Insert(c.listings, 0, l)
	c.mu.Unlock()
	return l, nil
}
