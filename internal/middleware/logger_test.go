package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/array/applications-console/internal/handlers"
	"github.com/array/applications-console/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := metrics.New("test")

	e := echo.New()
	e.Use(TraceID(), RequestLogger(logger, m))
	e.GET("/api/v1/applications/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/applications/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Request handled"`)
	assert.Contains(t, out, `"msg":"Request failed"`)
	assert.Contains(t, out, `"trace_id"`)

	count, err := testutil.GatherAndCount(m.Registry, "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRequestLogger_NilDependencies(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(handlers.TraceIDKey, "abc")

	h := RequestLogger(nil, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
