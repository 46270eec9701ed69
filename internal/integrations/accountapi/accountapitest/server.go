// Package accountapitest provides an in-memory account application backend for tests.
package accountapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/array/applications-console/internal/integrations/accountapi"
)

// Backend is an httptest server speaking the account application API
type Backend struct {
	*httptest.Server

	mu      sync.Mutex
	apps    map[int]accountapi.AccountApplication
	nextID  int
	calls   map[string]int
	failure int
}

// NewBackend starts a backend preloaded with apps. Ids of preloaded records are kept.
func NewBackend(apps ...accountapi.AccountApplication) *Backend {
	b := &Backend{
		apps:   make(map[int]accountapi.AccountApplication),
		calls:  make(map[string]int),
		nextID: 1,
	}
	for _, app := range apps {
		b.apps[app.ID] = app
		if app.ID >= b.nextID {
			b.nextID = app.ID + 1
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", b.status)
	mux.HandleFunc("GET /account-applications", b.list)
	mux.HandleFunc("GET /account-applications/paginated", b.page)
	mux.HandleFunc("GET /account-applications/count", b.count)
	mux.HandleFunc("GET /account-applications/{id}", b.get)
	mux.HandleFunc("POST /account-applications", b.create)
	mux.HandleFunc("PUT /account-applications/{id}", b.update)
	mux.HandleFunc("DELETE /account-applications/{id}", b.delete)
	mux.HandleFunc("GET /account-applications/search/{kind}/{value}", b.search)
	mux.HandleFunc("GET /analytics/{name}", b.analytics)

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.Method+" "+r.URL.Path]++
		failure := b.failure
		b.mu.Unlock()
		if failure != 0 {
			writeJSON(w, failure, map[string]string{"detail": http.StatusText(failure)})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	return b
}

// Client returns an account API client pointed at the backend
func (b *Backend) Client(opts ...accountapi.ClientOption) *accountapi.Client {
	return accountapi.NewClient(b.URL, opts...)
}

// Calls reports how many requests hit "METHOD /path"
func (b *Backend) Calls(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

// FailWith makes every subsequent request answer with status. Zero restores normal service.
func (b *Backend) FailWith(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failure = status
}

// Stored returns the record with id as currently stored
func (b *Backend) Stored(id int) (accountapi.AccountApplication, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	app, ok := b.apps[id]
	return app, ok
}

func (b *Backend) sorted() []accountapi.AccountApplication {
	out := make([]accountapi.AccountApplication, 0, len(b.apps))
	for _, app := range b.apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, accountapi.APIStatus{
		Message: "Account Opening API",
		Status:  "API is running",
		Version: "1.0.0",
	})
}

func (b *Backend) list(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.sorted())
}

func (b *Backend) page(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 100
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	all := b.sorted()
	if skip > len(all) {
		skip = len(all)
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	writeJSON(w, http.StatusOK, all[skip:end])
}

func (b *Backend) count(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, accountapi.CountResponse{TotalApplications: len(b.apps)})
}

func (b *Backend) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	app, ok := b.apps[id]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	var p accountapi.ApplicationPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]any{
			{"loc": []string{"body"}, "msg": "invalid JSON", "type": "value_error.jsondecode"},
		}})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.CNICNo != nil {
		for _, existing := range b.apps {
			if existing.CNICNo != nil && *existing.CNICNo == *p.CNICNo {
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Application with this CNIC already exists"})
				return
			}
		}
	}
	id := b.nextID
	b.nextID++
	app := accountapi.AccountApplication{
		ID:                 id,
		AccountNo:          fmt.Sprintf("ACC%06d", id),
		IBAN:               fmt.Sprintf("PK36SCBL%016d", id),
		ApplicationPayload: p,
	}
	b.apps[id] = app
	writeJSON(w, http.StatusOK, app)
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	var p accountapi.ApplicationPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid JSON"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	app, ok := b.apps[id]
	if !ok {
		notFound(w)
		return
	}
	app.ApplicationPayload = p
	b.apps[id] = app
	writeJSON(w, http.StatusOK, app)
}

func (b *Backend) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.apps[id]; !ok {
		notFound(w)
		return
	}
	delete(b.apps, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Application deleted successfully"})
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	kind, value := r.PathValue("kind"), r.PathValue("value")
	b.mu.Lock()
	defer b.mu.Unlock()

	var matches []accountapi.AccountApplication
	for _, app := range b.sorted() {
		switch kind {
		case "cnic":
			if app.CNICNo != nil && *app.CNICNo == value {
				matches = append(matches, app)
			}
		case "account-number":
			if app.AccountNo == value {
				matches = append(matches, app)
			}
		case "iban":
			if app.IBAN == value {
				matches = append(matches, app)
			}
		case "city":
			if app.City != nil && strings.EqualFold(*app.City, value) {
				matches = append(matches, app)
			}
		case "account-type":
			if app.AccountType != nil && string(*app.AccountType) == value {
				matches = append(matches, app)
			}
		default:
			notFound(w)
			return
		}
	}

	switch kind {
	case "city", "account-type":
		if matches == nil {
			matches = []accountapi.AccountApplication{}
		}
		writeJSON(w, http.StatusOK, matches)
	default:
		if len(matches) == 0 {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, matches[0])
	}
}

func (b *Backend) analytics(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := len(b.apps)
	types := map[string]int{}
	for _, app := range b.apps {
		if app.AccountType != nil {
			types[string(*app.AccountType)]++
		}
	}

	switch name := r.PathValue("name"); name {
	case "dashboard":
		writeJSON(w, http.StatusOK, map[string]any{"total_applications": total, "account_types": types})
	case "services":
		writeJSON(w, http.StatusOK, map[string]any{"total_applications": total})
	case "executive-summary", "financial-insights", "city-performance",
		"customer-segments", "digital-banking", "profile-completeness":
		writeJSON(w, http.StatusOK, map[string]any{})
	default:
		if !accountapi.Breakdown(name).Valid() {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": total, "breakdown": types, "percentages": map[string]float64{}})
	}
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Application not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
