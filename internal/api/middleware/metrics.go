// Package middleware provides Echo middleware for bike-hunter.
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
)

// unmatchedPath is the route label for requests no route claimed.
const unmatchedPath = "unmatched"

// probeGauges holds the probe routes. They only flip their gauge and stay
// out of the request counters.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics counts and times requests by method, route template and status.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := routeLabel(c)
			if route == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			status := responseStatus(c, err)

			if gauge, ok := probeGauges[route]; ok {
				gauge.Set(boolGauge(status >= 200 && status < 300))
				return err
			}

			labels := []string{c.Request().Method, route, strconv.Itoa(status)}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
			return err
		}
	}
}

func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return unmatchedPath
}

// responseStatus is the status the client will see. A handler that
// returns an error has not written its response yet; Echo's error
// handler does that after the middleware chain unwinds.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func boolGauge(up bool) float64 {
	if up {
		return 1
	}
	return 0
}
