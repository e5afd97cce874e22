package handlers

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/hireloop"
	"github.com/dmitrymomot/hireloop/middlewares"
	"github.com/dmitrymomot/hireloop/pkg/catalog"
)

// Listings serves categories and listings.
type Listings struct {
	catalog *catalog.Catalog
	auth    hireloop.Middleware
}

func NewListings(c *catalog.Catalog) *Listings {
	return &Listings{
		catalog: c,
		auth:    middlewares.BearerAuth(VerifyDemoToken(c)),
	}
}

func (h *Listings) Routes(r hireloop.Router) {
	r.GET("/api/categories", h.categories)
	r.Route("/api/listings", func(r hireloop.Router) {
		r.GET("/", h.list)
		r.GET("/{id}", h.get)
		r.POST("/", h.create, h.auth)
	})
}

func (h *Listings) categories(c hireloop.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Categories())
}

func (h *Listings) list(c hireloop.Context) error {
	f := catalog.Filter{
		Query:       c.Query("q"),
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		City:        c.Query("city"),
		CountryCode: c.Query("countryCode"),
		Sort:        c.Query("sort"),
	}
	if v, ok := hireloop.QueryOptional[float64](c, "priceMin"); ok {
		f.PriceMin = &v
	}
	if v, ok := hireloop.QueryOptional[float64](c, "priceMax"); ok {
		f.PriceMax = &v
	}
	return c.JSON(http.StatusOK, h.catalog.Search(f))
}

func (h *Listings) get(c hireloop.Context) error {
	l, err := h.catalog.Listing(c.Param("id"))
	if errors.Is(err, catalog.ErrListingNotFound) {
		return hireloop.ErrNotFound("Listing not found", hireloop.WithErrorCode("listing_not_found"))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

type slugRef struct {
	Slug string `json:"slug"`
}

type createListingRequest struct {
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Price       *float64          `json:"price"`
	Currency    string            `json:"currency"`
	PriceType   string            `json:"priceType"`
	Category    *slugRef          `json:"category"`
	Subcategory *slugRef          `json:"subcategory"`
	Location    *catalog.Location `json:"location"`
	Images      []string          `json:"images"`
}

func (req createListingRequest) toNewListing() catalog.NewListing {
	in := catalog.NewListing{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		PriceType:   req.PriceType,
		Location:    req.Location,
		Images:      req.Images,
	}
	if req.Category != nil {
		in.CategorySlug = req.Category.Slug
	}
	if req.Subcategory != nil {
		in.SubcategorySlug = req.Subcategory.Slug
	}
	return in
}

func (h *Listings) create(c hireloop.Context) error {
	var req createListingRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	l, err := h.catalog.Create(req.toNewListing())
	switch {
	case errors.Is(err, catalog.ErrMissingFields):
		return hireloop.ErrBadRequest("Missing required fields: title, category.slug",
			hireloop.WithErrorCode("missing_fields"))
	case errors.Is(err, catalog.ErrInvalidPrice):
		return hireloop.ErrBadRequest("Price must not be negative",
			hireloop.WithErrorCode("invalid_price"))
	case err != nil:
		return err
	}

	c.LogInfo("listing created", "listing_id", l.ID, "category", l.Category.Slug)
	return c.JSON(http.StatusCreated, l)
}
