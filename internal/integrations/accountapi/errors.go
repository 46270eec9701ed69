package accountapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when the backend has no record for a lookup, update, delete or search
	ErrNotFound = errors.New("application not found")
	// ErrValidation is returned when a payload is rejected, either client-side or by the backend
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when the backend rejects the client's credentials
	ErrUnauthorized = errors.New("backend rejected credentials")
	// ErrNetwork is returned when a request never reached the backend or never returned
	ErrNetwork = errors.New("backend unreachable")
	// ErrUnknownServer is returned for any other non-success response
	ErrUnknownServer = errors.New("unexpected backend response")
	// ErrInvalidPage is returned for a negative offset or non-positive limit
	ErrInvalidPage = errors.New("offset must be >= 0 and limit > 0")
)

// APIError represents a non-success response returned by the account application API
type APIError struct {
	StatusCode int
	Body       string
	Parsed     *APIErrorResponse
	// Detail is the plain-text detail when the backend returned one
	Detail string
	// Issues holds structured validation failures when the backend returned a list
	Issues []ValidationIssue
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	var parsed APIErrorResponse
	if json.Unmarshal(body, &parsed) != nil || len(parsed.Detail) == 0 {
		return apiErr
	}
	apiErr.Parsed = &parsed
	var detail string
	if json.Unmarshal(parsed.Detail, &detail) == nil {
		apiErr.Detail = detail
		return apiErr
	}
	var issues []ValidationIssue
	if json.Unmarshal(parsed.Detail, &issues) == nil {
		apiErr.Issues = issues
	}
	return apiErr
}

func (e *APIError) Error() string {
	switch {
	case len(e.Issues) > 0:
		return "Validation Error: " + joinIssues(e.Issues)
	case e.Detail != "":
		return fmt.Sprintf("account api error (HTTP %d): %s", e.StatusCode, e.Detail)
	case e.StatusCode == http.StatusNotFound:
		return fmt.Sprintf("account api error (HTTP %d): %s", e.StatusCode, ErrNotFound)
	}
	return fmt.Sprintf("account api error (HTTP %d): %s", e.StatusCode, e.Body)
}

// Unwrap classifies the response into one of the package sentinel errors
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.Parsed != nil && (e.StatusCode == http.StatusBadRequest ||
		e.StatusCode == http.StatusConflict ||
		e.StatusCode == http.StatusUnprocessableEntity):
		return ErrValidation
	default:
		return ErrUnknownServer
	}
}

// ValidationError is a client-side rejection raised before any request is sent
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	return "Validation Error: " + joinIssues(e.Issues)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IssuesOf returns the structured validation issues carried by err, if any
func IssuesOf(err error) []ValidationIssue {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Issues
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Issues
	}
	return nil
}

func joinIssues(issues []ValidationIssue) string {
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.String()
	}
	return strings.Join(msgs, ", ")
}
