package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/array/applications-console/internal/database"
	appErrors "github.com/array/applications-console/internal/errors"
	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/array/applications-console/internal/integrations/accountapi/accountapitest"
	"github.com/array/applications-console/internal/repositories"
	"github.com/array/applications-console/internal/seed"
	"github.com/array/applications-console/internal/services"
	"github.com/array/applications-console/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func clock() time.Time { return time.Date(2025, time.June, 30, 9, 0, 0, 0, time.UTC) }

type testEnv struct {
	e         *echo.Echo
	backend   *accountapitest.Backend
	db        *database.DB
	apps      []accountapi.AccountApplication
	handler   *ApplicationHandler
	analytics *AnalyticsHandler
}

func newTestEnv(t *testing.T, n int) *testEnv {
	t.Helper()
	apps := seed.NewGenerator(42).WithClock(clock).Applications(n)
	backend := accountapitest.NewBackend(apps...)
	t.Cleanup(backend.Close)

	db := database.SetupTestDB(t)
	t.Cleanup(func() { database.CleanupTestDB(t, db) })

	client := backend.Client(accountapi.WithRetry(0, 0))
	appSvc := services.NewApplicationService(client, nil, 10, nil)
	analyticsSvc := services.NewAnalyticsService(appSvc, client, repositories.NewAnalyticsSnapshotRepository(db.DB), true, nil, nil)

	e := echo.New()
	e.Validator = validation.EchoValidator()
	return &testEnv{
		e:         e,
		backend:   backend,
		db:        db,
		apps:      apps,
		handler:   NewApplicationHandler(appSvc),
		analytics: NewAnalyticsHandler(analyticsSvc),
	}
}

func (env *testEnv) request(method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) appErrors.ErrorDetail {
	t.Helper()
	var body appErrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) json.RawMessage {
	t.Helper()
	var body struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
		Meta    json.RawMessage `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	if dst != nil {
		require.NoError(t, json.Unmarshal(body.Data, dst))
	}
	return body.Meta
}

