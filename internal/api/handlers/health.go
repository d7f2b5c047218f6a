package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	db     Pinger
	checks map[string]func(context.Context) error
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithCheck adds a named readiness check next to the database ping.
func WithCheck(name string, fn func(context.Context) error) HealthOption {
	return func(h *HealthHandler) {
		h.checks[name] = fn
	}
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		db:     db,
		checks: make(map[string]func(context.Context) error),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the database and every extra check pass, 503
// otherwise. Failed checks are named in the body.
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx := c.Request().Context()
	failed := make(map[string]string)

	if err := h.db.Ping(ctx); err != nil {
		failed["database"] = "unavailable"
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			failed[name] = "unavailable"
		}
	}

	if len(failed) > 0 {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{
			Status: "unavailable",
			Checks: failed,
		})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

// RegisterHealthRoutes registers the probe endpoints directly on Echo so
// they stay outside the OpenAPI document.
func RegisterHealthRoutes(e *echo.Echo, h *HealthHandler) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}
