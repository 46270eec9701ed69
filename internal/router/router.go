package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/array/applications-console/internal/config"
	appErrors "github.com/array/applications-console/internal/errors"
	"github.com/array/applications-console/internal/handlers"
	"github.com/array/applications-console/internal/metrics"
	"github.com/array/applications-console/internal/middleware"
	"github.com/array/applications-console/internal/validation"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the HTTP handlers served by the console
type Handlers struct {
	Applications *handlers.ApplicationHandler
	Analytics    *handlers.AnalyticsHandler
	Health       *handlers.HealthHandler
}

// New builds the echo instance with middleware and routes
func New(cfg *config.Config, h Handlers, m *metrics.Metrics, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.EchoValidator()
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.Recover())
	e.Use(middleware.TraceID())
	e.Use(middleware.RequestLogger(logger, m))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderTraceID},
		ExposeHeaders: []string{middleware.HeaderTraceID},
	}))

	e.GET("/health", h.Health.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api/v1")
	api.Use(middleware.NewRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst).Middleware())
	if cfg.Security.AuthEnabled {
		api.Use(middleware.Auth(cfg.JWT))
	}

	api.GET("/status", h.Applications.Status)
	api.GET("/dashboard", h.Applications.Dashboard)

	apps := api.Group("/applications")
	apps.GET("", h.Applications.List)
	apps.POST("", h.Applications.Create)
	apps.GET("/count", h.Applications.Count)
	apps.GET("/:id", h.Applications.Get)
	apps.PUT("/:id", h.Applications.Update)
	apps.PATCH("/:id", h.Applications.Patch)
	apps.DELETE("/:id", h.Applications.Delete)

	api.GET("/search/:kind", h.Applications.Search)

	analytics := api.Group("/analytics")
	analytics.GET("", h.Analytics.Report)
	analytics.GET("/snapshots", h.Analytics.ListSnapshots)
	analytics.POST("/snapshots", h.Analytics.TakeSnapshot)
	analytics.GET("/snapshots/latest", h.Analytics.LatestSnapshot)
	analytics.GET("/server/:name", h.Analytics.Server)

	return e
}

// errorHandler renders echo's own errors (unknown route, wrong method, panics) in the
// console's error envelope
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = handlers.SendSystemError(c, err)
		return
	}

	code := appErrors.ErrorCode{Code: "HTTP_ERROR", Status: he.Code, Message: http.StatusText(he.Code)}
	switch he.Code {
	case http.StatusNotFound:
		code.Code = "ROUTE_NOT_FOUND"
	case http.StatusMethodNotAllowed:
		code.Code = "METHOD_NOT_ALLOWED"
	case http.StatusInternalServerError:
		code = appErrors.SystemInternal
	}
	_ = handlers.SendError(c, code)
}
