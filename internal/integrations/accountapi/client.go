package accountapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/array/applications-console/internal/metrics"
	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the public deployment of the account application API
const DefaultBaseURL = "https://ds-ocr-project.vercel.app"

const maxRetryBackoff = 10 * time.Second

// Client is the account application API client
type Client struct {
	baseURL             string
	apiKey              string
	httpClient          *http.Client
	timeout             time.Duration
	maxRetries          int
	retryInitialBackoff time.Duration
	metrics             *metrics.Metrics
	validate            *validator.Validate
}

// ClientOption configures the account application client
type ClientOption func(*Client)

// WithAPIKey sends the key as a Bearer token on every request
func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithRetry enables retries with exponential backoff
func WithRetry(maxRetries int, initialBackoffMs int) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryInitialBackoff = time.Duration(initialBackoffMs) * time.Millisecond
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the HTTP
// client, so a client passed through WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics records every upstream call on m
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithValidator uses v for pre-submit checks. v must have had RegisterValidations applied.
func WithValidator(v *validator.Validate) ClientOption {
	return func(c *Client) {
		c.validate = v
	}
}

// NewClient creates a new account application API client
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	if c.validate == nil {
		c.validate = newPayloadValidator()
	}
	return c
}

// doRequest executes an HTTP request against the API with optional retries.
// Network errors and 5xx responses are retried for idempotent methods only; 4xx is never retried.
// route is the path template used as the metrics label.
func (c *Client) doRequest(ctx context.Context, method, route, path string, body interface{}) ([]byte, int, error) {
	fullURL := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	maxRetries := c.maxRetries
	if method == http.MethodPost {
		maxRetries = 0
	}

	var lastErr error
	var lastStatus int

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(c.retryBackoff(attempt)):
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}

		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if traceID, ok := ctx.Value(traceIDKey).(string); ok && traceID != "" {
			req.Header.Set("X-Trace-ID", traceID)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.metrics.ObserveUpstream(method, route, 0, time.Since(start))
			lastErr = fmt.Errorf("%w: failed to execute request: %w", ErrNetwork, err)
			lastStatus = 0
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.metrics.ObserveUpstream(method, route, resp.StatusCode, time.Since(start))
		if err != nil {
			lastErr = fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
			lastStatus = resp.StatusCode
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := newAPIError(resp.StatusCode, respBody)
			// Do not retry 4xx
			if resp.StatusCode < 500 {
				return nil, resp.StatusCode, apiErr
			}
			lastErr = apiErr
			lastStatus = resp.StatusCode
			continue
		}

		return respBody, resp.StatusCode, nil
	}

	return nil, lastStatus, lastErr
}

// retryBackoff is initial * 2^(attempt-1), capped, with +/- 20% jitter
func (c *Client) retryBackoff(attempt int) time.Duration {
	if c.retryInitialBackoff <= 0 {
		return 0
	}
	d := c.retryInitialBackoff * time.Duration(1<<uint(attempt-1))
	if d > maxRetryBackoff || d <= 0 {
		d = maxRetryBackoff
	}
	jitter := float64(d) * 0.2 * (rand.Float64()*2 - 1) //nolint:gosec
	return d + time.Duration(jitter)
}

type contextKey string

const traceIDKey contextKey = "trace_id"

// WithTraceID returns a context with the trace ID set for propagation
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns the trace ID stored by WithTraceID
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}

func (c *Client) getJSON(ctx context.Context, route, path string, out interface{}, what string) error {
	body, _, err := c.doRequest(ctx, http.MethodGet, route, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return nil
}

// PageCount returns the number of pages needed to show total records pageSize at a time
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// --- API Methods ---

// GetStatus retrieves the backend root status
func (c *Client) GetStatus(ctx context.Context) (*APIStatus, error) {
	var result APIStatus
	if err := c.getJSON(ctx, "/", "/", &result, "api status"); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAll retrieves every application in a single unpaged request
func (c *Client) ListAll(ctx context.Context) ([]AccountApplication, error) {
	var result []AccountApplication
	if err := c.getJSON(ctx, "/account-applications", "/account-applications", &result, "applications"); err != nil {
		return nil, err
	}
	if result == nil {
		result = []AccountApplication{}
	}
	return result, nil
}

// ListPage retrieves limit applications starting at offset
func (c *Client) ListPage(ctx context.Context, offset, limit int) ([]AccountApplication, error) {
	if offset < 0 || limit <= 0 {
		return nil, ErrInvalidPage
	}
	params := url.Values{}
	params.Set("skip", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	var result []AccountApplication
	path := "/account-applications/paginated?" + params.Encode()
	if err := c.getJSON(ctx, "/account-applications/paginated", path, &result, "applications page"); err != nil {
		return nil, err
	}
	if result == nil {
		result = []AccountApplication{}
	}
	return result, nil
}

// Count retrieves the total number of applications
func (c *Client) Count(ctx context.Context) (int, error) {
	var result CountResponse
	if err := c.getJSON(ctx, "/account-applications/count", "/account-applications/count", &result, "application count"); err != nil {
		return 0, err
	}
	return result.TotalApplications, nil
}

// GetByID retrieves a single application
func (c *Client) GetByID(ctx context.Context, id int) (*AccountApplication, error) {
	return c.getOne(ctx, "/account-applications/{id}", fmt.Sprintf("/account-applications/%d", id))
}

// Create normalizes and validates payload, then submits it. The returned record carries
// the account number and IBAN minted by the backend.
func (c *Client) Create(ctx context.Context, payload ApplicationPayload) (*AccountApplication, error) {
	p, err := c.prepare(payload)
	if err != nil {
		return nil, err
	}
	body, _, err := c.doRequest(ctx, http.MethodPost, "/account-applications", "/account-applications", p)
	if err != nil {
		return nil, err
	}
	var result AccountApplication
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode created application: %w", err)
	}
	return &result, nil
}

// Update replaces every editable field of application id
func (c *Client) Update(ctx context.Context, id int, payload ApplicationPayload) (*AccountApplication, error) {
	p, err := c.prepare(payload)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/account-applications/%d", id)
	body, _, err := c.doRequest(ctx, http.MethodPut, "/account-applications/{id}", path, p)
	if err != nil {
		return nil, err
	}
	var result AccountApplication
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode updated application: %w", err)
	}
	return &result, nil
}

// Delete removes application id
func (c *Client) Delete(ctx context.Context, id int) error {
	path := fmt.Sprintf("/account-applications/%d", id)
	_, _, err := c.doRequest(ctx, http.MethodDelete, "/account-applications/{id}", path, nil)
	return err
}

func (c *Client) prepare(payload ApplicationPayload) (ApplicationPayload, error) {
	p := Normalize(payload)
	if err := validatePayload(c.validate, p); err != nil {
		return p, err
	}
	return p, nil
}

// SearchByCNIC finds the application registered to a CNIC
func (c *Client) SearchByCNIC(ctx context.Context, cnic string) (*AccountApplication, error) {
	return c.getOne(ctx, "/account-applications/search/cnic/{cnic}",
		"/account-applications/search/cnic/"+url.PathEscape(cnic))
}

// SearchByAccountNumber finds the application holding an account number
func (c *Client) SearchByAccountNumber(ctx context.Context, accountNo string) (*AccountApplication, error) {
	return c.getOne(ctx, "/account-applications/search/account-number/{no}",
		"/account-applications/search/account-number/"+url.PathEscape(accountNo))
}

// SearchByIBAN finds the application holding an IBAN
func (c *Client) SearchByIBAN(ctx context.Context, iban string) (*AccountApplication, error) {
	return c.getOne(ctx, "/account-applications/search/iban/{iban}",
		"/account-applications/search/iban/"+url.PathEscape(iban))
}

// SearchByCity lists applications whose city matches. An empty result is not an error.
func (c *Client) SearchByCity(ctx context.Context, city string) ([]AccountApplication, error) {
	city = strings.ToUpper(strings.TrimSpace(city))
	return c.getMany(ctx, "/account-applications/search/city/{city}",
		"/account-applications/search/city/"+url.PathEscape(city))
}

// SearchByAccountType lists applications of one account type. An empty result is not an error.
func (c *Client) SearchByAccountType(ctx context.Context, accountType AccountType) ([]AccountApplication, error) {
	accountType = AccountType(strings.ToUpper(strings.TrimSpace(string(accountType))))
	if !accountType.Valid() {
		return nil, &ValidationError{Issues: []ValidationIssue{{
			Location: []any{"path", "account_type"},
			Message:  fmt.Sprintf("value %q is not a valid account_type", accountType),
			Type:     "account_type",
		}}}
	}
	return c.getMany(ctx, "/account-applications/search/account-type/{type}",
		"/account-applications/search/account-type/"+url.PathEscape(string(accountType)))
}

func (c *Client) getOne(ctx context.Context, route, path string) (*AccountApplication, error) {
	body, _, err := c.doRequest(ctx, http.MethodGet, route, path, nil)
	if err != nil {
		return nil, err
	}
	var result *AccountApplication
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result, nil
}

func (c *Client) getMany(ctx context.Context, route, path string) ([]AccountApplication, error) {
	var result []AccountApplication
	if err := c.getJSON(ctx, route, path, &result, "applications"); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []AccountApplication{}, nil
		}
		return nil, err
	}
	if result == nil {
		result = []AccountApplication{}
	}
	return result, nil
}

// --- Server-side analytics ---

// GetDashboardSummary retrieves the backend's precomputed dashboard
func (c *Client) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var result DashboardSummary
	if err := c.getJSON(ctx, "/analytics/dashboard", "/analytics/dashboard", &result, "dashboard summary"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBreakdown retrieves a single-dimension distribution
func (c *Client) GetBreakdown(ctx context.Context, b Breakdown) (*AnalyticsBreakdown, error) {
	if !b.Valid() {
		return nil, &ValidationError{Issues: []ValidationIssue{{
			Location: []any{"path", "breakdown"},
			Message:  fmt.Sprintf("unknown breakdown %q", string(b)),
		}}}
	}
	path := "/analytics/" + string(b)
	var result AnalyticsBreakdown
	if err := c.getJSON(ctx, path, path, &result, string(b)+" breakdown"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetServicesAnalytics retrieves banking service adoption counts
func (c *Client) GetServicesAnalytics(ctx context.Context) (*ServicesAnalytics, error) {
	var result ServicesAnalytics
	if err := c.getJSON(ctx, "/analytics/services", "/analytics/services", &result, "services analytics"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetExecutiveSummary retrieves key metrics, insights and recommendations
func (c *Client) GetExecutiveSummary(ctx context.Context) (*ExecutiveSummary, error) {
	var result ExecutiveSummary
	if err := c.getJSON(ctx, "/analytics/executive-summary", "/analytics/executive-summary", &result, "executive summary"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFinancialInsights retrieves turnover aggregates
func (c *Client) GetFinancialInsights(ctx context.Context) (*FinancialInsights, error) {
	var result FinancialInsights
	if err := c.getJSON(ctx, "/analytics/financial-insights", "/analytics/financial-insights", &result, "financial insights"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCityPerformance retrieves per-city volume and value rankings
func (c *Client) GetCityPerformance(ctx context.Context) (*CityPerformance, error) {
	var result CityPerformance
	if err := c.getJSON(ctx, "/analytics/city-performance", "/analytics/city-performance", &result, "city performance"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCustomerSegments retrieves customer segmentation
func (c *Client) GetCustomerSegments(ctx context.Context) (*CustomerSegmentation, error) {
	var result CustomerSegmentation
	if err := c.getJSON(ctx, "/analytics/customer-segments", "/analytics/customer-segments", &result, "customer segments"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDigitalBankingInsights retrieves digital channel adoption
func (c *Client) GetDigitalBankingInsights(ctx context.Context) (*DigitalBankingInsights, error) {
	var result DigitalBankingInsights
	if err := c.getJSON(ctx, "/analytics/digital-banking", "/analytics/digital-banking", &result, "digital banking insights"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProfileCompleteness retrieves profile completeness analysis
func (c *Client) GetProfileCompleteness(ctx context.Context) (*ProfileCompletenessAnalysis, error) {
	var result ProfileCompletenessAnalysis
	if err := c.getJSON(ctx, "/analytics/profile-completeness", "/analytics/profile-completeness", &result, "profile completeness"); err != nil {
		return nil, err
	}
	return &result, nil
}
