package middleware

import (
	"github.com/array/applications-console/internal/handlers"
	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderTraceID carries the request trace id in both directions
const HeaderTraceID = "X-Trace-ID"

// TraceID assigns every request a trace id, reusing the caller's when present.
// The id is forwarded to the account application API.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderTraceID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			c.Set(handlers.TraceIDKey, id)
			c.Response().Header().Set(HeaderTraceID, id)

			req := c.Request()
			c.SetRequest(req.WithContext(accountapi.WithTraceID(req.Context(), id)))
			return next(c)
		}
	}
}
