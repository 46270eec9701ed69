package errors

import "net/http"

// ErrorCode is a stable, client-facing error identifier with its HTTP status
type ErrorCode struct {
	Code    string
	Status  int
	Message string
}

var (
	ValidationGeneral    = ErrorCode{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: "Invalid request"}
	InvalidApplicationID = ErrorCode{Code: "INVALID_APPLICATION_ID", Status: http.StatusBadRequest, Message: "Application id must be a positive integer"}
	InvalidSearchKind    = ErrorCode{Code: "INVALID_SEARCH_KIND", Status: http.StatusBadRequest, Message: "Unknown search kind"}
	InvalidPage          = ErrorCode{Code: "INVALID_PAGE", Status: http.StatusBadRequest, Message: "Page must be at least 1 and page size positive"}
	UnknownAnalytics     = ErrorCode{Code: "UNKNOWN_ANALYTICS", Status: http.StatusNotFound, Message: "Unknown analytics endpoint"}

	ApplicationNotFound = ErrorCode{Code: "APPLICATION_NOT_FOUND", Status: http.StatusNotFound, Message: "Account application not found"}
	NoResults           = ErrorCode{Code: "NO_RESULTS", Status: http.StatusNotFound, Message: "No results found"}
	SnapshotNotFound    = ErrorCode{Code: "SNAPSHOT_NOT_FOUND", Status: http.StatusNotFound, Message: "No analytics snapshot has been taken yet"}
	ValidationFailed    = ErrorCode{Code: "VALIDATION_FAILED", Status: http.StatusUnprocessableEntity, Message: "Application failed validation"}

	UpstreamUnavailable = ErrorCode{Code: "UPSTREAM_UNAVAILABLE", Status: http.StatusServiceUnavailable, Message: "Account application API is unreachable"}
	UpstreamError       = ErrorCode{Code: "UPSTREAM_ERROR", Status: http.StatusBadGateway, Message: "Account application API returned an error"}
	UpstreamAuth        = ErrorCode{Code: "UPSTREAM_AUTH", Status: http.StatusBadGateway, Message: "Account application API rejected the console's credentials"}

	AuthMissingToken = ErrorCode{Code: "AUTH_MISSING_TOKEN", Status: http.StatusUnauthorized, Message: "Authorization token is required"}
	AuthInvalidToken = ErrorCode{Code: "AUTH_INVALID_TOKEN", Status: http.StatusUnauthorized, Message: "Authorization token is invalid or expired"}
	RateLimited      = ErrorCode{Code: "RATE_LIMITED", Status: http.StatusTooManyRequests, Message: "Too many requests"}

	SystemInternal    = ErrorCode{Code: "INTERNAL_ERROR", Status: http.StatusInternalServerError, Message: "Internal server error"}
	SystemUnavailable = ErrorCode{Code: "SERVICE_UNAVAILABLE", Status: http.StatusServiceUnavailable, Message: "Service unavailable"}
)

// ErrorDetail is the body of an error response
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

// ErrorResponse is the JSON envelope for failures
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Option customizes an error response
type Option func(*ErrorDetail)

// WithDetails attaches extra context, such as validation issues
func WithDetails(details interface{}) Option {
	return func(d *ErrorDetail) {
		d.Details = details
	}
}

// WithMessage overrides the default message of the code
func WithMessage(msg string) Option {
	return func(d *ErrorDetail) {
		if msg != "" {
			d.Message = msg
		}
	}
}

// WithTraceID echoes the request trace id back to the caller
func WithTraceID(id string) Option {
	return func(d *ErrorDetail) {
		d.TraceID = id
	}
}

// Response builds the envelope for this code
func (e ErrorCode) Response(opts ...Option) ErrorResponse {
	d := ErrorDetail{Code: e.Code, Message: e.Message}
	for _, opt := range opts {
		opt(&d)
	}
	return ErrorResponse{Error: d}
}

func (e ErrorCode) Error() string {
	return e.Code + ": " + e.Message
}
