package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	appErrors "github.com/array/applications-console/internal/errors"
	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/array/applications-console/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// TraceIDKey is the echo context key holding the request trace id
const TraceIDKey = "trace_id"

// SuccessResponse is the JSON envelope for successful responses
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// FieldIssue is one failed constraint of a request
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SendError writes an error envelope for code
func SendError(c echo.Context, code appErrors.ErrorCode, opts ...appErrors.Option) error {
	if id, ok := c.Get(TraceIDKey).(string); ok && id != "" {
		opts = append(opts, appErrors.WithTraceID(id))
	}
	return c.JSON(code.Status, code.Response(opts...))
}

// SendSystemError logs an unexpected error and hides it behind INTERNAL_ERROR
func SendSystemError(c echo.Context, err error) error {
	slog.Default().Error("Unhandled request error",
		"error", err,
		"method", c.Request().Method,
		"path", c.Path(),
	)
	return SendError(c, appErrors.SystemInternal)
}

// SendValidationError reports request binding constraints that failed
func SendValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithDetails(err.Error()))
	}
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{
			Field:   fe.Field(),
			Message: "failed on the '" + fe.Tag() + "' rule",
		})
	}
	return SendError(c, appErrors.ValidationGeneral, appErrors.WithDetails(issues))
}

// SendServiceError maps service and upstream errors to response codes
func SendServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidApplication):
		return SendError(c, appErrors.InvalidApplicationID)
	case errors.Is(err, services.ErrInvalidSearchKind):
		return SendError(c, appErrors.InvalidSearchKind, appErrors.WithDetails(accountapi.SearchKinds))
	case errors.Is(err, services.ErrEmptySearchValue):
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithMessage("Search value is required"))
	case errors.Is(err, services.ErrNoResults):
		return SendError(c, appErrors.NoResults)
	case errors.Is(err, services.ErrNoSnapshots):
		return SendError(c, appErrors.SnapshotNotFound)
	case errors.Is(err, services.ErrUnknownAnalytics):
		return SendError(c, appErrors.UnknownAnalytics)
	case errors.Is(err, accountapi.ErrInvalidPage):
		return SendError(c, appErrors.InvalidPage)
	case errors.Is(err, accountapi.ErrUnknownField), errors.Is(err, accountapi.ErrInvalidFieldType):
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithDetails(err.Error()))
	case errors.Is(err, accountapi.ErrNotFound):
		return SendError(c, appErrors.ApplicationNotFound)
	case errors.Is(err, accountapi.ErrValidation):
		return sendUpstreamValidation(c, err)
	case errors.Is(err, accountapi.ErrUnauthorized):
		return SendError(c, appErrors.UpstreamAuth, appErrors.WithDetails(err.Error()))
	case errors.Is(err, accountapi.ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return SendError(c, appErrors.UpstreamUnavailable, appErrors.WithDetails(err.Error()))
	case errors.Is(err, accountapi.ErrUnknownServer):
		return SendError(c, appErrors.UpstreamError, appErrors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}

func sendUpstreamValidation(c echo.Context, err error) error {
	if issues := accountapi.IssuesOf(err); len(issues) > 0 {
		out := make([]FieldIssue, 0, len(issues))
		for _, issue := range issues {
			out = append(out, FieldIssue{Field: issue.Path(), Message: issue.Message})
		}
		return SendError(c, appErrors.ValidationFailed, appErrors.WithDetails(out))
	}
	var apiErr *accountapi.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return SendError(c, appErrors.ValidationFailed, appErrors.WithMessage(apiErr.Detail))
	}
	return SendError(c, appErrors.ValidationFailed, appErrors.WithDetails(err.Error()))
}

// getIntParam reads an integer query parameter, falling back to def when absent or malformed
func getIntParam(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// getIDParam reads the :id path parameter
func getIDParam(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
