package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop"
	"github.com/dmitrymomot/hireloop/handlers"
	"github.com/dmitrymomot/hireloop/locales"
	"github.com/dmitrymomot/hireloop/middlewares"
	"github.com/dmitrymomot/hireloop/pkg/catalog"
	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/i18n"
	"github.com/dmitrymomot/hireloop/pkg/kv"
	"github.com/dmitrymomot/hireloop/pkg/pages"
)

type fakeProvider struct {
	code string
	mu   sync.Mutex
	ips  []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Lookup(_ context.Context, ip string) (geo.Location, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ips = append(p.ips, ip)
	return geo.Location{Country: p.code, CountryCode: p.code}, nil
}

func (p *fakeProvider) calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ips...)
}

type fakeGeocoder struct {
	code string
	err  error
}

func (g fakeGeocoder) Reverse(_ context.Context, _, _ float64) (geo.Location, error) {
	if g.err != nil {
		return geo.Location{}, g.err
	}
	return geo.Location{Country: "Spain", CountryCode: g.code, City: "Madrid"}, nil
}

func newTestApp(t *testing.T, locOpts ...handlers.LocationOption) http.Handler {
	t.Helper()

	cat, err := catalog.New()
	require.NoError(t, err)
	lib, err := pages.New()
	require.NoError(t, err)
	reg := country.Builtin()

	return hireloop.New(
		hireloop.WithErrorHandler(handlers.ErrorHandler),
		hireloop.WithNotFoundHandler(handlers.NotFound),
		hireloop.WithMiddleware(
			middlewares.Recover(),
			middlewares.RequestID(),
			middlewares.ClientIP(),
		),
		hireloop.WithHandlers(
			handlers.NewSystem(),
			handlers.NewListings(cat),
			handlers.NewAuth(cat),
			handlers.NewLocation(reg, locOpts...),
			handlers.NewCountries(reg),
			handlers.NewPages(lib),
		),
	)
}

type request struct {
	method  string
	path    string
	body    string
	token   string
	cookies []*http.Cookie
	header  map[string]string
}

func do(t *testing.T, h http.Handler, req request) *httptest.ResponseRecorder {
	t.Helper()
	if req.method == "" {
		req.method = http.MethodGet
	}
	var r *http.Request
	if req.body != "" {
		r = httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(req.method, req.path, nil)
	}
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, v := range req.header {
		r.Header.Set(k, v)
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type apiError struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId"`
}

func TestSystem(t *testing.T) {
	t.Parallel()

	h := newTestApp(t)
	rec := do(t, h, request{path: "/api/health"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	require.Equal(t, true, body["ok"])
	require.Equal(t, handlers.ServiceName, body["name"])
	require.NotEmpty(t, body["time"])

	rec = do(t, h, request{path: "/api/unknown"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	e := decode[apiError](t, rec)
	require.Equal(t, "not_found", e.Code)
	require.Equal(t, rec.Header().Get("X-Request-ID"), e.RequestID)
}

func TestListings(t *testing.T) {
	t.Parallel()

	t.Run("categories", func(t *testing.T) {
		t.Parallel()
		rec := do(t, newTestApp(t), request{path: "/api/categories"})
		require.Equal(t, http.StatusOK, rec.Code)
		cats := decode[[]catalog.Category](t, rec)
		require.Len(t, cats, 7)
	})

	t.Run("search", func(t *testing.T) {
		t.Parallel()
		h := newTestApp(t)

		all := decode[[]catalog.Listing](t, do(t, h, request{path: "/api/listings"}))
		require.Len(t, all, 2)
		require.Equal(t, "listing-2", all[0].ID)

		cheap := decode[[]catalog.Listing](t, do(t, h, request{path: "/api/listings?priceMax=1000&countryCode=us"}))
		require.Len(t, cheap, 1)
		require.Equal(t, "listing-2", cheap[0].ID)

		jobs := decode[[]catalog.Listing](t, do(t, h, request{path: "/api/listings?category=jobs&sort=price_high"}))
		require.Len(t, jobs, 1)
		require.Equal(t, "listing-1", jobs[0].ID)
	})

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		h := newTestApp(t)

		rec := do(t, h, request{path: "/api/listings/listing-1"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "listing-1", decode[catalog.Listing](t, rec).ID)

		rec = do(t, h, request{path: "/api/listings/nope"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Listing not found", decode[apiError](t, rec).Error)
	})

	t.Run("create requires auth", func(t *testing.T) {
		t.Parallel()
		h := newTestApp(t)

		rec := do(t, h, request{method: http.MethodPost, path: "/api/listings", body: `{"title":"x","category":{"slug":"jobs"}}`})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Unauthorized", decode[apiError](t, rec).Error)

		rec = do(t, h, request{method: http.MethodPost, path: "/api/listings", token: "wrong", body: `{"title":"x","category":{"slug":"jobs"}}`})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create validates", func(t *testing.T) {
		t.Parallel()
		h := newTestApp(t)

		rec := do(t, h, request{method: http.MethodPost, path: "/api/listings", token: handlers.DemoToken, body: `{"title":"Bike"}`})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Missing required fields: title, category.slug", decode[apiError](t, rec).Error)

		rec = do(t, h, request{method: http.MethodPost, path: "/api/listings", token: handlers.DemoToken, body: `{"title":`})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		h := newTestApp(t)

		rec := do(t, h, request{
			method: http.MethodPost,
			path:   "/api/listings",
			token:  handlers.DemoToken,
			body:   `{"title":"Road Bike","price":250,"category":{"slug":"for-sale"},"images":["a.jpg"]}`,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		l := decode[catalog.Listing](t, rec)
		require.Equal(t, "road-bike", l.Slug)
		require.Equal(t, "USD", l.Currency)
		require.Equal(t, "user-1", l.SellerID)
		require.Equal(t, catalog.UnknownLocation, l.Location)

		all := decode[[]catalog.Listing](t, do(t, h, request{path: "/api/listings?sort=oldest"}))
		require.Len(t, all, 3)
		require.Equal(t, l.ID, all[2].ID)
	})
}

func TestAuth(t *testing.T) {
	t.Parallel()

	h := newTestApp(t)

	rec := do(t, h, request{method: http.MethodPost, path: "/api/auth/login", body: `{"email":"someone@example.com"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[struct {
		Token string       `json:"token"`
		User  catalog.User `json:"user"`
	}](t, rec)
	require.Equal(t, handlers.DemoToken, login.Token)
	require.Equal(t, "user-1", login.User.ID)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/auth/login"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, request{path: "/api/me", token: login.Token})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "john@example.com", decode[catalog.User](t, rec).Email)

	rec = do(t, h, request{path: "/api/me"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

type locationBody struct {
	Location   geo.Location   `json:"location"`
	Country    country.Config `json:"countryConfig"`
	Source     string         `json:"source"`
	Confidence string         `json:"confidence"`
	State      string         `json:"state"`
	Language   string         `json:"language"`

	Message     string `json:"message"`
	SourceLabel string `json:"sourceLabel"`
}

func locationCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == geo.DefaultStorageKey {
			return c
		}
	}
	t.Fatalf("cookie %s not set", geo.DefaultStorageKey)
	return nil
}

func TestLocation(t *testing.T) {
	t.Parallel()

	reg := country.Builtin()

	t.Run("initial is default without cookie", func(t *testing.T) {
		t.Parallel()
		rec := do(t, newTestApp(t), request{path: "/api/location/initial"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[locationBody](t, rec)
		require.Equal(t, "default", body.Source)
		require.Equal(t, "default", body.State)
		require.Equal(t, "US", body.Country.Code)
		require.Equal(t, "en", body.Language)
	})

	t.Run("translated labels", func(t *testing.T) {
		t.Parallel()
		svc, err := i18n.New(i18n.WithYAMLDir(locales.FS))
		require.NoError(t, err)
		h := hireloop.New(
			hireloop.WithErrorHandler(handlers.ErrorHandler),
			hireloop.WithMiddleware(middlewares.I18n(svc)),
			hireloop.WithHandlers(handlers.NewLocation(reg)),
		)

		rec := do(t, h, request{path: "/api/location/initial", header: map[string]string{"Accept-Language": "de-DE,de;q=0.9"}})
		require.Equal(t, "de", rec.Header().Get("Content-Language"))
		body := decode[locationBody](t, rec)
		require.Equal(t, "Standardstandort", body.SourceLabel)
		require.True(t, strings.HasPrefix(body.Message, "Ergebnisse für "), body.Message)

		body = decode[locationBody](t, do(t, newTestApp(t), request{path: "/api/location/initial"}))
		require.Empty(t, body.Message)
	})

	t.Run("detects by client ip and persists in cookie", func(t *testing.T) {
		t.Parallel()
		p := &fakeProvider{code: "DE"}
		h := newTestApp(t, handlers.WithIPStrategy(geo.NewIPStrategy(reg, []geo.IPProvider{p})))

		rec := do(t, h, request{path: "/api/location", header: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[locationBody](t, rec)
		require.Equal(t, "ip", body.Source)
		require.Equal(t, "ip-resolved", body.State)
		require.Equal(t, "de", body.Language)
		require.Equal(t, []string{"203.0.113.7"}, p.calls())

		cookie := locationCookie(t, rec)
		body = decode[locationBody](t, do(t, h, request{path: "/api/location", cookies: []*http.Cookie{cookie}}))
		require.Equal(t, "stored", body.Source)
		require.Equal(t, "DE", body.Country.Code)
		require.Len(t, p.calls(), 1)

		body = decode[locationBody](t, do(t, h, request{path: "/api/location?refresh=1", cookies: []*http.Cookie{cookie}}))
		require.Equal(t, "ip", body.Source)
		require.Len(t, p.calls(), 2)
	})

	t.Run("private addresses are not sent to providers", func(t *testing.T) {
		t.Parallel()
		p := &fakeProvider{code: "FR"}
		h := newTestApp(t, handlers.WithIPStrategy(geo.NewIPStrategy(reg, []geo.IPProvider{p})))

		do(t, h, request{path: "/api/location", header: map[string]string{"X-Forwarded-For": "192.168.1.20"}})
		require.Equal(t, []string{""}, p.calls())
	})

	t.Run("country override", func(t *testing.T) {
		t.Parallel()
		h := newTestApp(t)

		rec := do(t, h, request{method: http.MethodPut, path: "/api/location/country", body: `{"code":"fr"}`})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[locationBody](t, rec)
		require.Equal(t, "user-override", body.State)
		require.Equal(t, "FR", body.Country.Code)

		body = decode[locationBody](t, do(t, h, request{path: "/api/location/initial", cookies: []*http.Cookie{locationCookie(t, rec)}}))
		require.Equal(t, "user-override", body.State)

		rec = do(t, h, request{method: http.MethodPut, path: "/api/location/country", body: `{"code":"XX"}`})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "unknown_country", decode[apiError](t, rec).Code)

		rec = do(t, h, request{method: http.MethodPut, path: "/api/location/country", body: `{}`})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("forged location cookie", func(t *testing.T) {
		t.Parallel()
		plainCookie := func(t *testing.T, raw string) []*http.Cookie {
			t.Helper()
			rec := httptest.NewRecorder()
			c := kv.NewCookie(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, c.Set(context.Background(), geo.DefaultStorageKey, []byte(raw)))
			return []*http.Cookie{locationCookie(t, rec)}
		}
		unsigned := newTestApp(t, handlers.WithBackend(handlers.CookieBackend()))

		for _, raw := range []string{
			`{"userOverride":true}`,
			`{"countryConfig":{"code":"ZZ","name":"<b>Nowhere</b>"},"userOverride":true}`,
		} {
			rec := do(t, unsigned, request{path: "/api/location/initial", cookies: plainCookie(t, raw)})
			require.Equal(t, http.StatusOK, rec.Code)
			body := decode[locationBody](t, rec)
			require.Equal(t, "default", body.Source, raw)
			require.Equal(t, "US", body.Country.Code, raw)
			require.Negative(t, locationCookie(t, rec).MaxAge, raw)
		}

		valid := plainCookie(t, `{"countryConfig":{"code":"FR","name":"<b>Nowhere</b>"},"userOverride":true}`)
		body := decode[locationBody](t, do(t, unsigned, request{path: "/api/location/initial", cookies: valid}))
		require.Equal(t, "user-override", body.State)
		require.Equal(t, "France", body.Country.Name)

		body = decode[locationBody](t, do(t, newTestApp(t), request{path: "/api/location/initial", cookies: valid}))
		require.Equal(t, "default", body.Source, "default backend only accepts signed cookies")
	})

	t.Run("visitor backend", func(t *testing.T) {
		t.Parallel()
		var mu sync.Mutex
		stores := map[string]*kv.Memory{}
		open := func(id string) kv.Backend {
			mu.Lock()
			defer mu.Unlock()
			if stores[id] == nil {
				stores[id] = kv.NewMemory()
			}
			return stores[id]
		}
		h := newTestApp(t, handlers.WithBackend(handlers.VisitorBackend(open)))

		rec := do(t, h, request{method: http.MethodPut, path: "/api/location/country", body: `{"code":"JP"}`})
		require.Equal(t, http.StatusOK, rec.Code)
		var visitor *http.Cookie
		for _, c := range rec.Result().Cookies() {
			require.NotEqual(t, geo.DefaultStorageKey, c.Name)
			if c.Name == handlers.VisitorCookie {
				visitor = c
			}
		}
		require.NotNil(t, visitor)

		body := decode[locationBody](t, do(t, h, request{path: "/api/location/initial", cookies: []*http.Cookie{visitor}}))
		require.Equal(t, "JP", body.Country.Code)

		body = decode[locationBody](t, do(t, h, request{path: "/api/location/initial"}))
		require.Equal(t, "US", body.Country.Code)
		require.Len(t, stores, 2)
	})

	t.Run("clear expires cookie", func(t *testing.T) {
		t.Parallel()
		rec := do(t, newTestApp(t), request{method: http.MethodDelete, path: "/api/location"})
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Negative(t, locationCookie(t, rec).MaxAge)
	})

	t.Run("position", func(t *testing.T) {
		t.Parallel()
		h := newTestApp(t, handlers.WithGeocoder(fakeGeocoder{code: "ES"}))

		rec := do(t, h, request{method: http.MethodPost, path: "/api/location/position", body: `{"latitude":40.4,"longitude":-3.7}`})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[locationBody](t, rec)
		require.Equal(t, "browser-resolved", body.State)
		require.Equal(t, "ES", body.Country.Code)
		require.Equal(t, "Madrid", body.Location.City)
		require.True(t, body.Location.HasCoordinates())

		rec = do(t, h, request{method: http.MethodPost, path: "/api/location/position", body: `{"latitude":91,"longitude":0}`})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("position failures", func(t *testing.T) {
		t.Parallel()
		rec := do(t, newTestApp(t), request{method: http.MethodPost, path: "/api/location/position", body: `{"latitude":1,"longitude":1}`})
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		h := newTestApp(t, handlers.WithGeocoder(fakeGeocoder{err: errors.New("down")}))
		rec = do(t, h, request{method: http.MethodPost, path: "/api/location/position", body: `{"latitude":1,"longitude":1}`})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Equal(t, "position_unresolved", decode[apiError](t, rec).Code)
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	h := newTestApp(t)

	rec := do(t, h, request{path: "/api/format?amount=1234.5"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	require.Equal(t, "en-US", body["locale"])
	require.Equal(t, "$1,234.5", body["price"])

	set := do(t, h, request{method: http.MethodPut, path: "/api/location/country", body: `{"code":"DE"}`})
	rec = do(t, h, request{path: "/api/format?amount=1234.5", cookies: []*http.Cookie{locationCookie(t, set)}})
	body = decode[map[string]string](t, rec)
	require.Equal(t, "EUR", body["currency"])
	require.Equal(t, "1.234,5 €", body["price"])
	require.Equal(t, "1.234,5", body["number"])

	rec = do(t, h, request{path: "/api/format?amount=abc"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCountries(t *testing.T) {
	t.Parallel()

	h := newTestApp(t)

	list := decode[[]country.Config](t, do(t, h, request{path: "/api/countries?q=germ"}))
	require.Len(t, list, 1)
	require.Equal(t, "DE", list[0].Code)

	all := decode[[]country.Config](t, do(t, h, request{path: "/api/countries"}))
	require.Len(t, all, 20)

	for _, c := range decode[[]country.Config](t, do(t, h, request{path: "/api/countries?continent=Europe&language=de"})) {
		require.Equal(t, "Europe", c.Continent)
		require.True(t, strings.HasPrefix(c.Language.Code, "de"))
	}

	rec := do(t, h, request{path: "/api/countries/de"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Germany", decode[country.Config](t, rec).Name)

	rec = do(t, h, request{path: "/api/countries/xx"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	states := decode[[]country.State](t, do(t, h, request{path: "/api/countries/us/states?q=cal"}))
	require.Equal(t, []country.State{{Code: "CA", Name: "California"}}, states)

	cities := decode[[]country.City](t, do(t, h, request{path: "/api/countries/US/cities?state=CA"}))
	require.NotEmpty(t, cities)
	require.Equal(t, "Los Angeles", cities[0].Name)
}

func TestPages(t *testing.T) {
	t.Parallel()

	h := newTestApp(t)

	rec := do(t, h, request{path: "/pages/faq"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Frequently Asked Questions")

	rec = do(t, h, request{path: "/pages/missing"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "page_not_found", decode[apiError](t, rec).Code)

	index := decode[[]pages.Page](t, do(t, h, request{path: "/api/pages"}))
	require.Len(t, index, 10)
	require.Equal(t, "about", index[0].Slug)
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	app := hireloop.New(
		hireloop.WithErrorHandler(handlers.ErrorHandler),
		hireloop.WithMiddleware(middlewares.Recover()),
		hireloop.WithHandlers(routes(func(r hireloop.Router) {
			r.GET("/fail", func(hireloop.Context) error { return errors.New("db down") })
			r.GET("/panic", func(hireloop.Context) error { panic("boom") })
			r.GET("/teapot", func(hireloop.Context) error {
				return hireloop.NewHTTPError(http.StatusTeapot, "", hireloop.WithRequestID("req-1"))
			})
		})),
	)

	for _, path := range []string{"/fail", "/panic"} {
		rec := do(t, app, request{path: path})
		require.Equal(t, http.StatusInternalServerError, rec.Code, path)
		e := decode[apiError](t, rec)
		require.Equal(t, "Internal Server Error", e.Error)
		require.Equal(t, "internal_error", e.Code)
	}

	rec := do(t, app, request{path: "/teapot"})
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, apiError{Error: "I'm a teapot", RequestID: "req-1"}, decode[apiError](t, rec))
}

type routes func(r hireloop.Router)

func (fn routes) Routes(r hireloop.Router) { fn(r) }
