package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/hireloop"
	"github.com/dmitrymomot/hireloop/middlewares"
	"github.com/dmitrymomot/hireloop/pkg/catalog"
)

// DemoToken is the only bearer token the demo API accepts.
const DemoToken = "demo-token"

var ErrInvalidToken = errors.New("handlers: invalid token")

// VerifyDemoToken accepts DemoToken as the catalog's current user.
func VerifyDemoToken(cat *catalog.Catalog) middlewares.TokenVerifier[catalog.User] {
	return func(_ context.Context, token string) (catalog.User, error) {
		if token != DemoToken {
			return catalog.User{}, ErrInvalidToken
		}
		return cat.CurrentUser(), nil
	}
}

// Auth serves the demo login.
type Auth struct {
	catalog *catalog.Catalog
	auth    hireloop.Middleware
}

func NewAuth(c *catalog.Catalog) *Auth {
	return &Auth{
		catalog: c,
		auth:    middlewares.BearerAuth(VerifyDemoToken(c)),
	}
}

func (h *Auth) Routes(r hireloop.Router) {
	r.POST("/api/auth/login", h.login)
	r.GET("/api/me", h.me, h.auth)
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  catalog.User `json:"user"`
}

// login never fails: unknown or missing emails sign in as the current user.
func (h *Auth) login(c hireloop.Context) error {
	var req loginRequest
	if c.Request().ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token: DemoToken,
		User:  h.catalog.UserByEmail(req.Email),
	})
}

func (h *Auth) me(c hireloop.Context) error {
	u, ok := middlewares.GetPrincipal[catalog.User](c)
	if !ok {
		return hireloop.ErrUnauthorized("Unauthorized", hireloop.WithErrorCode("unauthorized"))
	}
	return c.JSON(http.StatusOK, u)
}
