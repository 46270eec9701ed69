package handlers

import (
	"net/http"
	"strings"

	appErrors "github.com/array/applications-console/internal/errors"
	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/array/applications-console/internal/services"
	"github.com/array/applications-console/internal/validation"
	"github.com/labstack/echo/v4"
)

// ApplicationHandler handles account application endpoints
type ApplicationHandler struct {
	svc *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(svc *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type searchRequest struct {
	Kind  string `param:"kind" validate:"required,search_kind"`
	Query string `query:"q" validate:"not_blank"`
}

// --- Backend status & dashboard ---

// Status reports whether the account application API is online
func (h *ApplicationHandler) Status(c echo.Context) error {
	status, err := h.svc.Status(c.Request().Context())
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Data: map[string]interface{}{
			"online":  status.Online(),
			"message": status.Message,
			"status":  status.Status,
			"version": status.Version,
		},
	})
}

// Dashboard returns backend status, total count and the most recent applications
func (h *ApplicationHandler) Dashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: d})
}

// --- Applications ---

// List returns one page of applications
func (h *ApplicationHandler) List(c echo.Context) error {
	page := getIntParam(c, "page", 1)
	pageSize := getIntParam(c, "page_size", h.svc.PageSize())
	if pageSize > 100 {
		pageSize = 100
	}

	result, err := h.svc.Page(c.Request().Context(), page, pageSize)
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Data: result.Items,
		Meta: result.Meta,
	})
}

// Count returns the number of applications
func (h *ApplicationHandler) Count(c echo.Context) error {
	total, err := h.svc.Count(c.Request().Context())
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Data: map[string]int{"total_applications": total},
	})
}

// Get returns one application
func (h *ApplicationHandler) Get(c echo.Context) error {
	id, ok := getIDParam(c)
	if !ok {
		return SendError(c, appErrors.InvalidApplicationID)
	}
	app, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: app})
}

// Create submits a new application. The response carries the minted account number and IBAN.
func (h *ApplicationHandler) Create(c echo.Context) error {
	var payload accountapi.ApplicationPayload
	if err := c.Bind(&payload); err != nil {
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithDetails("Invalid request body"))
	}
	app, err := h.svc.Create(c.Request().Context(), payload)
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    app,
		Message: "Application created successfully",
	})
}

// Update replaces an application
func (h *ApplicationHandler) Update(c echo.Context) error {
	id, ok := getIDParam(c)
	if !ok {
		return SendError(c, appErrors.InvalidApplicationID)
	}
	var payload accountapi.ApplicationPayload
	if err := (&echo.DefaultBinder{}).BindBody(c, &payload); err != nil {
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithDetails("Invalid request body"))
	}
	app, err := h.svc.Update(c.Request().Context(), id, payload)
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    app,
		Message: "Application updated successfully",
	})
}

// Patch edits individual fields, addressed by their JSON names
func (h *ApplicationHandler) Patch(c echo.Context) error {
	id, ok := getIDParam(c)
	if !ok {
		return SendError(c, appErrors.InvalidApplicationID)
	}
	changes := map[string]interface{}{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &changes); err != nil {
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithDetails("Invalid request body"))
	}
	if len(changes) == 0 {
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithMessage("No fields to update"))
	}
	app, err := h.svc.Patch(c.Request().Context(), id, changes)
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    app,
		Message: "Application updated successfully",
	})
}

// Delete removes an application
func (h *ApplicationHandler) Delete(c echo.Context) error {
	id, ok := getIDParam(c)
	if !ok {
		return SendError(c, appErrors.InvalidApplicationID)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Application deleted successfully"})
}

// --- Search ---

// Search finds applications by cnic, account-number, iban, city or account-type
func (h *ApplicationHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithDetails("Invalid search request"))
	}
	if err := c.Validate(req); err != nil {
		return SendValidationError(c, err)
	}

	kind := accountapi.SearchKind(strings.ToLower(req.Kind))
	if err := validation.GetValidator().ValidateSearchValue(kind, req.Query); err != nil {
		return SendError(c, appErrors.ValidationGeneral, appErrors.WithDetails([]FieldIssue{{
			Field:   "q",
			Message: "not a valid " + string(kind),
		}}))
	}
	results, err := h.svc.Search(c.Request().Context(), kind, req.Query)
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Data: results,
		Meta: map[string]interface{}{
			"kind":  kind,
			"query": strings.TrimSpace(req.Query),
			"count": len(results),
		},
	})
}
