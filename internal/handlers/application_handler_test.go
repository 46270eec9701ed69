package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/array/applications-console/internal/seed"
	"github.com/array/applications-console/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationHandler_Status(t *testing.T) {
	env := newTestEnv(t, 0)
	c, rec := env.request(http.MethodGet, "/api/v1/status", "")

	require.NoError(t, env.handler.Status(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var data map[string]interface{}
	decodeData(t, rec, &data)
	assert.Equal(t, true, data["online"])
	assert.Equal(t, "1.0.0", data["version"])
}

func TestApplicationHandler_Dashboard(t *testing.T) {
	env := newTestEnv(t, 8)
	c, rec := env.request(http.MethodGet, "/api/v1/dashboard", "")

	require.NoError(t, env.handler.Dashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var d services.Dashboard
	decodeData(t, rec, &d)
	assert.True(t, d.Online)
	assert.Equal(t, 8, d.Total)
	assert.Len(t, d.Recent, 5)
}

func TestApplicationHandler_List(t *testing.T) {
	env := newTestEnv(t, 12)
	c, rec := env.request(http.MethodGet, "/api/v1/applications?page=2&page_size=5", "")

	require.NoError(t, env.handler.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []accountapi.AccountApplication
	rawMeta := decodeData(t, rec, &items)
	require.Len(t, items, 5)
	assert.Equal(t, 6, items[0].ID)

	var meta services.PageMeta
	require.NoError(t, json.Unmarshal(rawMeta, &meta))
	assert.Equal(t, services.PageMeta{Page: 2, PageSize: 5, Total: 12, TotalPages: 3}, meta)
}

func TestApplicationHandler_List_InvalidPage(t *testing.T) {
	env := newTestEnv(t, 3)
	c, rec := env.request(http.MethodGet, "/api/v1/applications?page=0", "")

	require.NoError(t, env.handler.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PAGE", decodeError(t, rec).Code)
}

func TestApplicationHandler_List_UpstreamError(t *testing.T) {
	env := newTestEnv(t, 3)
	env.backend.FailWith(http.StatusInternalServerError)
	c, rec := env.request(http.MethodGet, "/api/v1/applications", "")

	require.NoError(t, env.handler.List(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_ERROR", decodeError(t, rec).Code)
}

func TestApplicationHandler_List_UpstreamRejectsCredentials(t *testing.T) {
	env := newTestEnv(t, 3)
	env.backend.FailWith(http.StatusUnauthorized)
	c, rec := env.request(http.MethodGet, "/api/v1/applications", "")

	require.NoError(t, env.handler.List(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_AUTH", decodeError(t, rec).Code)
}

func TestApplicationHandler_List_UpstreamUnreachable(t *testing.T) {
	env := newTestEnv(t, 3)
	env.backend.Close()
	c, rec := env.request(http.MethodGet, "/api/v1/applications", "")

	require.NoError(t, env.handler.List(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", decodeError(t, rec).Code)
}

func TestApplicationHandler_Count(t *testing.T) {
	env := newTestEnv(t, 4)
	c, rec := env.request(http.MethodGet, "/api/v1/applications/count", "")

	require.NoError(t, env.handler.Count(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var data map[string]int
	decodeData(t, rec, &data)
	assert.Equal(t, 4, data["total_applications"])
}

func TestApplicationHandler_Get(t *testing.T) {
	env := newTestEnv(t, 3)

	t.Run("found", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/applications/2", "")
		require.NoError(t, env.handler.Get(withParam(c, "id", "2")))
		assert.Equal(t, http.StatusOK, rec.Code)

		var app accountapi.AccountApplication
		decodeData(t, rec, &app)
		assert.Equal(t, 2, app.ID)
		assert.Equal(t, "ACC000002", app.AccountNo)
	})

	t.Run("missing", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/applications/99", "")
		require.NoError(t, env.handler.Get(withParam(c, "id", "99")))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "APPLICATION_NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/applications/abc", "")
		require.NoError(t, env.handler.Get(withParam(c, "id", "abc")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_APPLICATION_ID", decodeError(t, rec).Code)
	})
}

func TestApplicationHandler_Create(t *testing.T) {
	env := newTestEnv(t, 0)
	payload := seed.NewGenerator(7).WithClock(clock).Payload()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, rec := env.request(http.MethodPost, "/api/v1/applications", string(body))
	require.NoError(t, env.handler.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var app accountapi.AccountApplication
	decodeData(t, rec, &app)
	assert.Equal(t, 1, app.ID)
	assert.Equal(t, "ACC000001", app.AccountNo)
	assert.NotEmpty(t, app.IBAN)

	stored, ok := env.backend.Stored(1)
	require.True(t, ok)
	require.NotNil(t, stored.Name)
	assert.Equal(t, *accountapi.Normalize(payload).Name, *stored.Name)
}

func TestApplicationHandler_Create_MissingRequired(t *testing.T) {
	env := newTestEnv(t, 0)
	c, rec := env.request(http.MethodPost, "/api/v1/applications", `{"name":"Ali Khan"}`)

	require.NoError(t, env.handler.Create(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	detail := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", detail.Code)
	assert.NotNil(t, detail.Details)
	assert.Equal(t, 0, env.backend.Calls("POST /account-applications"))
}

func TestApplicationHandler_Create_DuplicateCNIC(t *testing.T) {
	env := newTestEnv(t, 1)
	payload := seed.NewGenerator(9).WithClock(clock).Payload()
	payload.CNICNo = env.apps[0].CNICNo
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, rec := env.request(http.MethodPost, "/api/v1/applications", string(body))
	require.NoError(t, env.handler.Create(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	detail := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", detail.Code)
	assert.Contains(t, detail.Message, "already exists")
}

func TestApplicationHandler_Create_MalformedBody(t *testing.T) {
	env := newTestEnv(t, 0)
	c, rec := env.request(http.MethodPost, "/api/v1/applications", `{"name":`)

	require.NoError(t, env.handler.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

func TestApplicationHandler_Update(t *testing.T) {
	env := newTestEnv(t, 2)
	payload := env.apps[1].ApplicationPayload
	payload.City = strPtr("quetta")
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, rec := env.request(http.MethodPut, "/api/v1/applications/2", string(body))
	require.NoError(t, env.handler.Update(withParam(c, "id", "2")))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, _ := env.backend.Stored(2)
	require.NotNil(t, stored.City)
	assert.Equal(t, "QUETTA", *stored.City)
}

func TestApplicationHandler_Patch(t *testing.T) {
	env := newTestEnv(t, 2)
	c, rec := env.request(http.MethodPatch, "/api/v1/applications/1", `{"city":"Lahore","sms_alerts":true}`)

	require.NoError(t, env.handler.Patch(withParam(c, "id", "1")))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, _ := env.backend.Stored(1)
	require.NotNil(t, stored.City)
	assert.Equal(t, "LAHORE", *stored.City)
	require.NotNil(t, stored.SMSAlerts)
	assert.True(t, *stored.SMSAlerts)
	assert.Equal(t, env.apps[0].CNICNo, stored.CNICNo)
}

func TestApplicationHandler_Patch_Rejections(t *testing.T) {
	env := newTestEnv(t, 1)

	tests := []struct {
		name   string
		id     string
		body   string
		status int
		code   string
	}{
		{name: "unknown field", id: "1", body: `{"favourite_colour":"blue"}`, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "wrong type", id: "1", body: `{"sms_alerts":"yes"}`, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "empty body", id: "1", body: `{}`, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "missing record", id: "5", body: `{"city":"Multan"}`, status: http.StatusNotFound, code: "APPLICATION_NOT_FOUND"},
		{name: "bad id", id: "0", body: `{"city":"Multan"}`, status: http.StatusBadRequest, code: "INVALID_APPLICATION_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := env.request(http.MethodPatch, "/api/v1/applications/"+tt.id, tt.body)
			require.NoError(t, env.handler.Patch(withParam(c, "id", tt.id)))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestApplicationHandler_Delete(t *testing.T) {
	env := newTestEnv(t, 2)

	c, rec := env.request(http.MethodDelete, "/api/v1/applications/1", "")
	require.NoError(t, env.handler.Delete(withParam(c, "id", "1")))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, ok := env.backend.Stored(1)
	assert.False(t, ok)

	c, rec = env.request(http.MethodDelete, "/api/v1/applications/1", "")
	require.NoError(t, env.handler.Delete(withParam(c, "id", "1")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplicationHandler_Search(t *testing.T) {
	env := newTestEnv(t, 6)
	target := env.apps[2]

	t.Run("by cnic", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/search/cnic?q="+*target.CNICNo, "")
		require.NoError(t, env.handler.Search(withParam(c, "kind", "cnic")))
		assert.Equal(t, http.StatusOK, rec.Code)

		var results []accountapi.AccountApplication
		decodeData(t, rec, &results)
		require.Len(t, results, 1)
		assert.Equal(t, target.ID, results[0].ID)
	})

	t.Run("by account number", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/search/account-number?q="+target.AccountNo, "")
		require.NoError(t, env.handler.Search(withParam(c, "kind", "account-number")))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no match", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/search/iban?q=PK99SCBL9999999999999999", "")
		require.NoError(t, env.handler.Search(withParam(c, "kind", "iban")))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NO_RESULTS", decodeError(t, rec).Code)
	})

	t.Run("malformed iban", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/search/iban?q=PK00NONE", "")
		require.NoError(t, env.handler.Search(withParam(c, "kind", "iban")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
		assert.Equal(t, 0, env.backend.Calls("GET /account-applications/search/iban/"))
	})

	t.Run("malformed cnic", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/search/cnic?q=12-34", "")
		require.NoError(t, env.handler.Search(withParam(c, "kind", "cnic")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	})

	t.Run("unknown kind", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/search/email?q=x", "")
		require.NoError(t, env.handler.Search(withParam(c, "kind", "email")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	})

	t.Run("blank query", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/v1/search/city?q=%20%20", "")
		require.NoError(t, env.handler.Search(withParam(c, "kind", "city")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
		assert.Equal(t, 0, env.backend.Calls("GET /account-applications/search/city/"))
	})
}

func strPtr(s string) *string { return &s }
