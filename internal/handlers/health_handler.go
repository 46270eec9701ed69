package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/array/applications-console/internal/cache"
	"github.com/array/applications-console/internal/database"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports the state of the console's own dependencies
type HealthHandler struct {
	db    *database.DB
	cache *cache.Client
}

// NewHealthHandler creates a new health handler. cache may be nil when caching is disabled.
func NewHealthHandler(db *database.DB, c *cache.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

// Health pings the database and the cache
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	status := http.StatusOK
	if err := h.db.HealthCheck(); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.cache == nil {
		checks["cache"] = "disabled"
	} else if err := h.cache.Ping(ctx); err != nil {
		// the console keeps serving without redis
		checks["cache"] = err.Error()
	} else {
		checks["cache"] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	return c.JSON(status, map[string]interface{}{
		"status": state,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}
