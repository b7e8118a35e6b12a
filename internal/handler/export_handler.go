package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/service"
)

// ExportHandler serves spreadsheet exports
type ExportHandler struct {
	exportService  *service.ExportService
	summaryService *service.SummaryService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService, summaryService *service.SummaryService) *ExportHandler {
	return &ExportHandler{exportService: exportService, summaryService: summaryService}
}

// ExportCalendar godoc
// @Summary Export the calendar to a spreadsheet
// @Description Uploads an .xlsx workbook with the calendar and summary and returns a short-lived download link
// @Tags exports
// @Produce json
// @Security BearerAuth
// @Param start query string true "First day (YYYY-MM-DD)"
// @Param end query string true "Last day (YYYY-MM-DD)"
// @Param today query string false "Summary date (YYYY-MM-DD)"
// @Success 201 {object} service.ExportResult
// @Failure 400 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /exports/calendar [post]
func (h *ExportHandler) ExportCalendar(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	if !h.exportService.IsEnabled() {
		return NewServiceUnavailableError(c, "Exports are disabled (storage not configured)")
	}

	start, verr := dateQuery(c, "start")
	if verr != nil {
		return NewFieldError(c, verr.Field, verr.Message)
	}
	end, verr := dateQuery(c, "end")
	if verr != nil {
		return NewFieldError(c, verr.Field, verr.Message)
	}
	today, verr := todayQuery(c, h.summaryService)
	if verr != nil {
		return NewFieldError(c, verr.Field, verr.Message)
	}

	result, err := h.exportService.ExportCalendar(c.Request().Context(), workspaceID, start, end, today)
	if err != nil {
		return respondError(c, err, "Failed to export calendar")
	}
	return c.JSON(http.StatusCreated, result)
}
