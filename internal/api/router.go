// Package api assembles the HTTP surface of bike-hunter: Echo with the
// request middleware, the Huma operations and the Prometheus endpoint.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/bike-hunter/internal/api/handlers"
	mw "github.com/donaldgifford/bike-hunter/internal/api/middleware"
)

// Deps are the collaborators behind the routes.
type Deps struct {
	Health  *handlers.HealthHandler
	Hunt    *handlers.HuntHandler
	FMV     *handlers.FMVHandler
	Catalog *handlers.CatalogHandler
	System  *handlers.SystemStateHandler
	Version string
	Logger  *slog.Logger
}

// NewRouter builds the Echo instance serving every route.
func NewRouter(d Deps) *echo.Echo {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(mw.RequestLog(log), mw.Recovery(log), mw.Metrics())

	handlers.RegisterHealthRoutes(e, d.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	version := d.Version
	if version == "" {
		version = "dev"
	}
	api := humaecho.New(e, huma.DefaultConfig("bike-hunter API", version))
	handlers.RegisterHuntRoutes(api, d.Hunt)
	handlers.RegisterFMVRoutes(api, d.FMV)
	handlers.RegisterCatalogRoutes(api, d.Catalog)
	handlers.RegisterSystemStateRoutes(api, d.System)

	return e
}
