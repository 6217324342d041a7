package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// newOpsServer creates the operations HTTP server.
// It serves the metrics in Prometheus text format on /metrics and the
// serving state on /healthz.
func newOpsServer(m *serverMetrics, serving func() bool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogLatency: true,
		LogMethod:  true,
		LogURI:     true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				Logger.Warningf("%s %s - Status: %d - Latency: %v - Error: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
			} else {
				Logger.Debugf("%s %s - Status: %d - Latency: %v", v.Method, v.URI, v.Status, v.Latency)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/metrics", func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentType, "text/plain; version=0.0.4; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		m.WritePrometheus(c.Response())
		return nil
	})

	e.GET("/healthz", func(c echo.Context) error {
		if !serving() {
			return c.String(http.StatusServiceUnavailable, "NOT_SERVING")
		}
		return c.String(http.StatusOK, "SERVING")
	})

	return e
}
