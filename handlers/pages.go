package handlers

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/hireloop"
	"github.com/dmitrymomot/hireloop/pkg/pages"
)

// Pages serves the informational pages as HTML and their index as JSON.
type Pages struct {
	library *pages.Library
}

func NewPages(library *pages.Library) *Pages {
	return &Pages{library: library}
}

func (h *Pages) Routes(r hireloop.Router) {
	r.GET("/api/pages", h.index)
	r.GET("/pages/{slug}", h.page)
}

func (h *Pages) index(c hireloop.Context) error {
	return c.JSON(http.StatusOK, h.library.List())
}

func (h *Pages) page(c hireloop.Context) error {
	p, err := h.library.Get(c.Param("slug"))
	if errors.Is(err, pages.ErrPageNotFound) {
		return hireloop.ErrNotFound("Page not found", hireloop.WithErrorCode("page_not_found"))
	}
	if err != nil {
		return err
	}
	c.SetHeader("Cache-Control", "public, max-age=300")
	return c.HTML(http.StatusOK, string(p.Document()))
}
