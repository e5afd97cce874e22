package internal_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/internal"
)

type testHandler struct{}

func (h *testHandler) Routes(r internal.Router) {
	r.GET("/items/{id}", func(c internal.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
	})
	r.GET("/fail", func(c internal.Context) error {
		return fmt.Errorf("lookup: %w", internal.ErrNotFound("Listing not found", internal.WithErrorCode("not_found")))
	})
	r.GET("/boom", func(c internal.Context) error {
		return errors.New("database exploded")
	})
	r.POST("/echo", func(c internal.Context) error {
		var body struct {
			Title string `json:"title"`
		}
		if err := c.BindJSON(&body); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, body)
	})
	r.Route("/api", func(r internal.Router) {
		r.GET("/ordered", func(c internal.Context) error {
			return c.String(http.StatusOK, internal.ContextValue[string](c, orderKey{}))
		}, appendOrder("a"), appendOrder("b"))
	})
}

type orderKey struct{}

func appendOrder(tag string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.Set(orderKey{}, internal.ContextValue[string](c, orderKey{})+tag)
			return next(c)
		}
	}
}

func jsonErrors(c internal.Context, err error) error {
	if httpErr := internal.AsHTTPError(err); httpErr != nil {
		return c.JSON(httpErr.Code, map[string]string{"error": httpErr.Message, "code": httpErr.ErrorCode})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}

func serve(t *testing.T, app http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestApp_Routing(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithHandlers(&testHandler{}),
		internal.WithErrorHandler(jsonErrors),
		internal.WithMiddleware(func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				c.SetHeader("X-App", "hireloop")
				c.Set(orderKey{}, "g")
				return next(c)
			}
		}),
		internal.WithNotFoundHandler(func(c internal.Context) error {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}),
	)

	t.Run("url params", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, app, http.MethodGet, "/items/42", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "hireloop", rec.Header().Get("X-App"))
		require.JSONEq(t, `{"id":"42"}`, rec.Body.String())
	})

	t.Run("global then route middleware in order", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, app, http.MethodGet, "/api/ordered", "")
		require.Equal(t, "gab", rec.Body.String())
	})

	t.Run("wrapped http error", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, app, http.MethodGet, "/fail", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `{"error":"Listing not found","code":"not_found"}`, rec.Body.String())
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, app, http.MethodGet, "/boom", "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "database")
	})

	t.Run("not found handler", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, app, http.MethodGet, "/nope", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
	})

	t.Run("bind json", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, app, http.MethodPost, "/echo", `{"title":"Bike"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.JSONEq(t, `{"title":"Bike"}`, rec.Body.String())

		rec = serve(t, app, http.MethodPost, "/echo", `{"title":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_json")

		rec = serve(t, app, http.MethodPost, "/echo", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestApp_DefaultErrorHandler(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(&testHandler{}))
	rec := serve(t, app, http.MethodGet, "/fail", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Listing not found")
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	app := internal.New(internal.WithHealthChecks(
		internal.WithReadinessCheck("store", func(context.Context) error {
			if healthy.Load() {
				return nil
			}
			return errors.New("unavailable")
		}),
	))

	require.Equal(t, http.StatusOK, serve(t, app, http.MethodGet, "/health/live", "").Code)
	require.Equal(t, http.StatusServiceUnavailable, serve(t, app, http.MethodGet, "/health/ready", "").Code)
	healthy.Store(true)
	require.Equal(t, http.StatusOK, serve(t, app, http.MethodGet, "/health/ready", "").Code)
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var started, stopped atomic.Bool

	errCh := make(chan error, 1)
	go func() {
		errCh <- internal.New().Run("127.0.0.1:0",
			internal.WithContext(ctx),
			internal.StartupHook(func(context.Context) error { started.Store(true); return nil }),
			internal.ShutdownHook(func(context.Context) error { stopped.Store(true); return nil }),
		)
	}()

	require.Eventually(t, started.Load, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	require.True(t, stopped.Load())
}

func TestApp_RunStartupFailure(t *testing.T) {
	t.Parallel()

	err := internal.New().Run("127.0.0.1:0",
		internal.StartupHook(func(context.Context) error { return errors.New("redis down") }),
	)
	require.ErrorContains(t, err, "redis down")
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("no rows")
	err := fmt.Errorf("outer: %w", internal.ErrNotFound("", internal.WithError(cause), internal.WithRequestID("r-1")))

	httpErr := internal.AsHTTPError(err)
	require.NotNil(t, httpErr)
	require.Equal(t, "Not Found", httpErr.Message)
	require.Equal(t, "r-1", httpErr.RequestID)
	require.ErrorIs(t, err, cause)
	require.False(t, internal.IsHTTPError(cause))
	require.Nil(t, internal.AsHTTPError(nil))
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	type result struct {
		Min     float64
		HasMin  bool
		Limit   int
		Sort    string
		Refresh bool
	}
	var got result
	app := internal.New(internal.WithHandlers(handlerFunc(func(r internal.Router) {
		r.GET("/q", func(c internal.Context) error {
			got.Min, got.HasMin = internal.QueryOptional[float64](c, "priceMin")
			got.Limit = internal.QueryDefault(c, "limit", 20)
			got.Sort = internal.Query[string](c, "sort")
			got.Refresh = internal.Query[bool](c, "refresh")
			return c.NoContent(http.StatusNoContent)
		})
	})))

	serve(t, app, http.MethodGet, "/q?priceMin=12.5&limit=abc&sort=oldest&refresh=1", "")
	require.Equal(t, result{Min: 12.5, HasMin: true, Limit: 20, Sort: "oldest", Refresh: true}, got)
}

type handlerFunc func(r internal.Router)

func (f handlerFunc) Routes(r internal.Router) { f(r) }

func TestExtractor(t *testing.T) {
	t.Parallel()

	ex := internal.NewExtractor(
		internal.FromQuery("lang"),
		internal.FromCookie("lang"),
		internal.FromHeader("X-Lang"),
	)
	var token, lang string
	app := internal.New(internal.WithHandlers(handlerFunc(func(r internal.Router) {
		r.GET("/x", func(c internal.Context) error {
			lang, _ = ex.Extract(c)
			token, _ = internal.FromBearerToken()(c)
			return c.NoContent(http.StatusOK)
		})
	})))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "de"})
	req.Header.Set("X-Lang", "fr")
	req.Header.Set("Authorization", "bearer demo-token")
	app.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "de", lang)
	require.Equal(t, "demo-token", token)
}

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := internal.NewResponseWriter(rec)
	w.OnBeforeWrite(func() { w.Header().Set("X-Hook", "1") })

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusTeapot)
	_, err := w.Write([]byte("hello"))
	require.NoError(t, err)

	require.Equal(t, http.StatusAccepted, w.Status())
	require.Equal(t, int64(5), w.Size())
	require.True(t, w.Written())
	require.Equal(t, "1", rec.Header().Get("X-Hook"))
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "hello", rec.Body.String())
}
