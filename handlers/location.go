package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/hireloop"
	"github.com/dmitrymomot/hireloop/middlewares"
	"github.com/dmitrymomot/hireloop/pkg/cookie"
	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/i18n"
	"github.com/dmitrymomot/hireloop/pkg/kv"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

// BackendFunc returns the visitor's storage backend for a request.
type BackendFunc func(c hireloop.Context) kv.Backend

// CookieBackend keeps the visitor's location in a cookie of the response.
func CookieBackend(opts ...kv.CookieOption) BackendFunc {
	return func(c hireloop.Context) kv.Backend {
		return kv.NewCookie(c.Response(), c.Request(), opts...)
	}
}

// VisitorCookie identifies a visitor for server-side backends.
const VisitorCookie = "hireloop_visitor"

const visitorMaxAge = 365 * 24 * 60 * 60

// VisitorBackend keeps the visitor's location in a shared backend, keyed by
// a random ID held in VisitorCookie. A missing or malformed ID is replaced.
func VisitorBackend(open func(visitorID string) kv.Backend) BackendFunc {
	return func(c hireloop.Context) kv.Backend {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetCookie(VisitorCookie, id, visitorMaxAge)
		}
		return open(id)
	}
}

// Location resolves and updates the visitor's location. A resolver is built
// per request over the visitor's backend; strategies are shared.
type Location struct {
	registry  *country.Registry
	ip        geo.Strategy
	geocoder  geo.ReverseGeocoder
	backend   BackendFunc
	storeOpts []geo.StoreOption
	logger    *slog.Logger
	now       func() time.Time
}

// LocationOption configures the Location handler.
type LocationOption func(*Location)

// WithIPStrategy enables IP detection.
func WithIPStrategy(s geo.Strategy) LocationOption {
	return func(h *Location) {
		h.ip = s
	}
}

// WithGeocoder enables POST /api/location/position.
func WithGeocoder(g geo.ReverseGeocoder) LocationOption {
	return func(h *Location) {
		h.geocoder = g
	}
}

// WithBackend replaces the default cookie backend, which is signed with a
// random per-process secret.
func WithBackend(fn BackendFunc) LocationOption {
	return func(h *Location) {
		h.backend = fn
	}
}

// WithStoreOptions passes extra options to each visitor's geo.Store.
func WithStoreOptions(opts ...geo.StoreOption) LocationOption {
	return func(h *Location) {
		h.storeOpts = append(h.storeOpts, opts...)
	}
}

// WithLocationLogger sets the logger for storage and detection failures.
func WithLocationLogger(l *slog.Logger) LocationOption {
	return func(h *Location) {
		h.logger = l
	}
}

// NewLocation creates the location handler. Without options it serves the
// registry default and stored choices only.
func NewLocation(registry *country.Registry, opts ...LocationOption) *Location {
	h := &Location{
		registry: registry,
		backend:  CookieBackend(kv.WithCookieSecret(cookie.RandomSecret())),
		logger:   logger.NewNope(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts /api/location and /api/format.
func (h *Location) Routes(r hireloop.Router) {
	r.Route("/api/location", func(r hireloop.Router) {
		r.GET("/", h.resolve)
		r.GET("/initial", h.initial)
		r.PUT("/country", h.setCountry)
		r.POST("/position", h.setPosition)
		r.DELETE("/", h.clear)
	})
	r.GET("/api/format", h.format)
}

type locationResponse struct {
	geo.Result
	State    geo.State `json:"state"`
	Language string    `json:"language"`

	// Set when the I18n middleware is installed.
	Message     string `json:"message,omitempty"`
	SourceLabel string `json:"sourceLabel,omitempty"`
}

func newLocationResponse(c hireloop.Context, res geo.Result) locationResponse {
	resp := locationResponse{
		Result:   res,
		State:    geo.StateOf(res),
		Language: i18n.LanguageFromLocale(res.Country.Language.Code),
	}
	if middlewares.GetTranslator(c) != nil {
		resp.Message = c.T("location.detected", i18n.M{"country": res.Country.Name})
		resp.SourceLabel = c.T("location.source." + string(res.Source))
	}
	return resp
}

// visitor returns the request context carrying the public client IP and a
// resolver over the visitor's store.
func (h *Location) visitor(c hireloop.Context, opts ...geo.ResolverOption) (context.Context, *geo.Resolver) {
	ctx := geo.WithClientIP(c, middlewares.GetPublicClientIP(c))
	storeOpts := append([]geo.StoreOption{geo.WithRegistry(h.registry), geo.WithStoreLogger(h.logger)}, h.storeOpts...)
	store := geo.NewStore(h.backend(c), storeOpts...)
	return ctx, geo.NewResolver(h.registry, store, append([]geo.ResolverOption{geo.WithLogger(h.logger)}, opts...)...)
}

func (h *Location) resolve(c hireloop.Context) error {
	var opts []geo.ResolverOption
	if h.ip != nil {
		opts = append(opts, geo.WithIPStrategy(h.ip))
	}
	ctx, resolver := h.visitor(c, opts...)

	refresh, _ := hireloop.QueryOptional[bool](c, "refresh")
	return c.JSON(http.StatusOK, newLocationResponse(c, resolver.Resolve(ctx, refresh)))
}

func (h *Location) initial(c hireloop.Context) error {
	ctx, resolver := h.visitor(c)
	return c.JSON(http.StatusOK, newLocationResponse(c, resolver.Initial(ctx)))
}

type setCountryRequest struct {
	Code string `json:"code"`
}

func (h *Location) setCountry(c hireloop.Context) error {
	var req setCountryRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Code) == "" {
		return hireloop.ErrBadRequest("Country code is required", hireloop.WithErrorCode("missing_code"))
	}

	ctx, resolver := h.visitor(c)
	res, ok := resolver.SetUserCountry(ctx, req.Code)
	if !ok {
		return hireloop.ErrNotFound("Country not supported", hireloop.WithErrorCode("unknown_country"))
	}
	c.LogInfo("country selected", "country", res.Country.Code)
	return c.JSON(http.StatusOK, newLocationResponse(c, res))
}

type positionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (h *Location) setPosition(c hireloop.Context) error {
	if h.geocoder == nil {
		return hireloop.NewHTTPError(http.StatusServiceUnavailable, "Reverse geocoding is disabled",
			hireloop.WithErrorCode("geocoding_disabled"))
	}

	var req positionRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if req.Latitude == nil || req.Longitude == nil || !geo.ValidPosition(*req.Latitude, *req.Longitude) {
		return hireloop.ErrBadRequest("Valid latitude and longitude are required",
			hireloop.WithErrorCode("invalid_position"))
	}

	browser := geo.NewBrowserStrategy(h.registry,
		geo.NewStaticPositioner(*req.Latitude, *req.Longitude),
		h.geocoder,
		geo.WithBrowserLogger(h.logger),
	)
	ctx, resolver := h.visitor(c, geo.WithBrowserStrategy(browser))

	res := resolver.Resolve(ctx, true)
	if res.Source != geo.SourceBrowser {
		return hireloop.ErrUnprocessable("Could not resolve position", hireloop.WithErrorCode("position_unresolved"))
	}
	return c.JSON(http.StatusOK, newLocationResponse(c, res))
}

func (h *Location) clear(c hireloop.Context) error {
	ctx, resolver := h.visitor(c)
	resolver.Clear(ctx)
	return c.NoContent(http.StatusNoContent)
}

type formatResponse struct {
	Locale   string `json:"locale"`
	Currency string `json:"currency"`
	Price    string `json:"price"`
	Number   string `json:"number"`
	Compact  string `json:"compact"`
	Date     string `json:"date"`
}

// format renders amount in the visitor's stored or default locale without
// running detection.
func (h *Location) format(c hireloop.Context) error {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		return hireloop.ErrBadRequest("amount must be a number", hireloop.WithErrorCode("invalid_amount"))
	}

	ctx, resolver := h.visitor(c)
	cfg := resolver.Initial(ctx).Country
	currency := strings.ToUpper(c.QueryDefault("currency", cfg.Currency.Code))
	lf := i18n.FormatFor(cfg.Locale)

	return c.JSON(http.StatusOK, formatResponse{
		Locale:   lf.Locale(),
		Currency: currency,
		Price:    lf.FormatPrice(amount, currency),
		Number:   lf.FormatNumber(amount),
		Compact:  lf.FormatCompactNumber(amount),
		Date:     lf.FormatDate(h.now()),
	})
}
