package handlers

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/hireloop"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "hireloop-server"

// System serves service metadata.
type System struct {
	now func() time.Time
}

func NewSystem() *System {
	return &System{now: time.Now}
}

func (h *System) Routes(r hireloop.Router) {
	r.GET("/api/health", h.health)
}

func (h *System) health(c hireloop.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"ok":   true,
		"name": ServiceName,
		"time": h.now().UTC().Format(time.RFC3339Nano),
	})
}
