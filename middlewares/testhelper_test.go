package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/hireloop/internal"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

// newApp mounts h at GET and POST "/" behind mw.
func newApp(h internal.HandlerFunc, mw ...internal.Middleware) *internal.App {
	return internal.New(
		internal.WithMiddleware(mw...),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			if httpErr := internal.AsHTTPError(err); httpErr != nil {
				return c.JSON(httpErr.Code, map[string]string{"error": httpErr.Message})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", h)
			r.POST("/", h)
		})),
	)
}

func do(t *testing.T, app http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func ok(c internal.Context) error {
	return c.String(http.StatusOK, "ok")
}
