package handlers

import (
	"net/http"

	"github.com/array/applications-console/internal/services"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler serves console-side analytics and the backend's precomputed views
type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Report computes the analytics report over every application
func (h *AnalyticsHandler) Report(c echo.Context) error {
	report, err := h.svc.Compute(c.Request().Context())
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: report})
}

// TakeSnapshot computes a report now and stores it
func (h *AnalyticsHandler) TakeSnapshot(c echo.Context) error {
	snapshot, err := h.svc.TakeSnapshot(c.Request().Context())
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    snapshot,
		Message: "Analytics snapshot stored",
	})
}

// ListSnapshots returns stored snapshot headers, newest first
func (h *AnalyticsHandler) ListSnapshots(c echo.Context) error {
	offset := getIntParam(c, "offset", 0)
	limit := getIntParam(c, "limit", 20)
	if limit > 100 {
		limit = 100
	}

	snapshots, total, err := h.svc.ListSnapshots(c.Request().Context(), offset, limit)
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Data: snapshots,
		Meta: map[string]interface{}{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}

// LatestSnapshot returns the newest stored report
func (h *AnalyticsHandler) LatestSnapshot(c echo.Context) error {
	snapshot, report, err := h.svc.LatestSnapshot(c.Request().Context())
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Data: report,
		Meta: snapshot,
	})
}

// Server proxies one of the backend's analytics endpoints
func (h *AnalyticsHandler) Server(c echo.Context) error {
	result, err := h.svc.Server(c.Request().Context(), c.Param("name"))
	if err != nil {
		return SendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: result})
}
