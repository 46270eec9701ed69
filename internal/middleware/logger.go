package middleware

import (
	"log/slog"
	"time"

	"github.com/array/applications-console/internal/handlers"
	"github.com/array/applications-console/internal/metrics"
	"github.com/labstack/echo/v4"
)

// RequestLogger logs each request and records it in the HTTP metrics
func RequestLogger(logger *slog.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			elapsed := time.Since(start)
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(c.Request().Method, route, status, elapsed)

			attrs := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"duration_ms", elapsed.Milliseconds(),
				"remote_ip", c.RealIP(),
			}
			if id, ok := c.Get(handlers.TraceIDKey).(string); ok {
				attrs = append(attrs, "trace_id", id)
			}
			if operator, ok := GetOperator(c); ok {
				attrs = append(attrs, "operator", operator)
			}

			switch {
			case status >= 500:
				logger.Error("Request failed", attrs...)
			case status >= 400:
				logger.Warn("Request rejected", attrs...)
			default:
				logger.Info("Request handled", attrs...)
			}
			return nil
		}
	}
}
