package catalog

import "time"

// Field is a custom attribute of a subcategory's listings.
type Field struct {
	Key      string   `yaml:"key" json:"key"`
	Label    string   `yaml:"label" json:"label"`
	Type     string   `yaml:"type" json:"type"`
	Options  []string `yaml:"options" json:"options,omitempty"`
	Required bool     `yaml:"required" json:"required"`
}

type Subcategory struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Slug   string  `yaml:"slug" json:"slug"`
	Fields []Field `yaml:"fields" json:"fields,omitempty"`
}

type Category struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	Slug          string        `yaml:"slug" json:"slug"`
	Icon          string        `yaml:"icon" json:"icon"`
	ListingCount  int           `yaml:"listingCount" json:"listingCount"`
	Subcategories []Subcategory `yaml:"subcategories" json:"subcategories,omitempty"`
}

// Ref is the embedded category reference stored on a listing.
type Ref struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Slug string `yaml:"slug" json:"slug"`
}

type Location struct {
	Country     string `yaml:"country" json:"country"`
	CountryCode string `yaml:"countryCode" json:"countryCode"`
	City        string `yaml:"city" json:"city"`
}

// UnknownLocation is assigned to listings created without a location.
var UnknownLocation = Location{Country: "Unknown", CountryCode: "XX", City: "Unknown"}

// Price types.
const (
	PriceFixed      = "fixed"
	PriceNegotiable = "negotiable"
	PriceFree       = "free"
	PriceContact    = "contact"
)

const StatusActive = "active"

type Listing struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Slug        string    `yaml:"slug" json:"slug"`
	Description string    `yaml:"description" json:"description"`
	Price       *float64  `yaml:"price" json:"price"`
	Currency    string    `yaml:"currency" json:"currency"`
	PriceType   string    `yaml:"priceType" json:"priceType"`
	Category    Ref       `yaml:"category" json:"category"`
	Subcategory *Ref      `yaml:"subcategory" json:"subcategory"`
	Location    Location  `yaml:"location" json:"location"`
	Images      []string  `yaml:"images" json:"images"`
	SellerID    string    `yaml:"sellerId" json:"sellerId"`
	CreatedAt   time.Time `yaml:"createdAt" json:"createdAt"`
	Status      string    `yaml:"status" json:"status"`
}

type Subscription struct {
	Status      string     `yaml:"status" json:"status"`
	Plan        string     `yaml:"plan" json:"plan"`
	TrialEndsAt *time.Time `yaml:"trialEndsAt" json:"trialEndsAt,omitempty"`
}

type User struct {
	ID           string        `yaml:"id" json:"id"`
	Email        string        `yaml:"email" json:"email"`
	Name         string        `yaml:"name" json:"name"`
	Role         string        `yaml:"role" json:"role"`
	Verified     string        `yaml:"verified" json:"verified"`
	CreatedAt    time.Time     `yaml:"createdAt" json:"createdAt"`
	Location     *Location     `yaml:"location" json:"location,omitempty"`
	Subscription *Subscription `yaml:"subscription" json:"subscription,omitempty"`
}
