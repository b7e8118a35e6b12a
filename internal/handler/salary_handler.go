package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/service"
	"github.com/shopspring/decimal"
)

// SalaryHandler handles the workspace salary schedule
type SalaryHandler struct {
	salaryService *service.SalaryService
}

// NewSalaryHandler creates a new SalaryHandler
func NewSalaryHandler(salaryService *service.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaryService: salaryService}
}

// SalaryScheduleRequest is the body of PUT /salary-schedule
type SalaryScheduleRequest struct {
	ScheduleType    string   `json:"scheduleType"`
	PayDaysOfMonth  []int    `json:"payDaysOfMonth"`
	PaycheckAmounts []string `json:"paycheckAmounts"`
}

// SalaryScheduleResponse represents the schedule in API responses
type SalaryScheduleResponse struct {
	ID              int32    `json:"id"`
	ScheduleType    string   `json:"scheduleType"`
	PayDaysOfMonth  []int    `json:"payDaysOfMonth"`
	PaycheckAmounts []string `json:"paycheckAmounts"`
	UpdatedAt       string   `json:"updatedAt"`
}

func toSalaryScheduleResponse(s *domain.SalarySchedule) SalaryScheduleResponse {
	amounts := make([]string, len(s.PaycheckAmounts))
	for i, a := range s.PaycheckAmounts {
		amounts[i] = formatAmount(a)
	}
	days := s.PayDaysOfMonth
	if days == nil {
		days = []int{}
	}
	return SalaryScheduleResponse{
		ID:              s.ID,
		ScheduleType:    string(s.ScheduleType),
		PayDaysOfMonth:  days,
		PaycheckAmounts: amounts,
		UpdatedAt:       formatTime(s.UpdatedAt),
	}
}

// GetSchedule godoc
// @Summary Get the salary schedule
// @Tags salary
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SalaryScheduleResponse
// @Failure 404 {object} ProblemDetails
// @Router /salary-schedule [get]
func (h *SalaryHandler) GetSchedule(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	schedule, err := h.salaryService.GetSchedule(workspaceID)
	if err != nil {
		return respondError(c, err, "Failed to get salary schedule")
	}
	if schedule == nil {
		return NewNotFoundError(c, "No salary schedule configured")
	}
	return c.JSON(http.StatusOK, toSalaryScheduleResponse(schedule))
}

// SaveSchedule godoc
// @Summary Create or replace the salary schedule
// @Description payDaysOfMonth[i] is paid paycheckAmounts[i]
// @Tags salary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SalaryScheduleRequest true "Salary schedule"
// @Success 200 {object} SalaryScheduleResponse
// @Failure 400 {object} ProblemDetails
// @Router /salary-schedule [put]
func (h *SalaryHandler) SaveSchedule(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req SalaryScheduleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amounts := make([]decimal.Decimal, len(req.PaycheckAmounts))
	for i, raw := range req.PaycheckAmounts {
		amount, ok := parseAmount(raw)
		if !ok {
			return NewFieldError(c, "paycheckAmounts", "Each amount must be a valid decimal number")
		}
		amounts[i] = amount
	}

	schedule, err := h.salaryService.SaveSchedule(workspaceID, service.SalaryScheduleInput{
		ScheduleType:    domain.ScheduleType(req.ScheduleType),
		PayDaysOfMonth:  req.PayDaysOfMonth,
		PaycheckAmounts: amounts,
	})
	if err != nil {
		return respondError(c, err, "Failed to save salary schedule")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("pay_days", len(schedule.PayDaysOfMonth)).Msg("Salary schedule saved")
	return c.JSON(http.StatusOK, toSalaryScheduleResponse(schedule))
}

// DeleteSchedule godoc
// @Summary Delete the salary schedule
// @Tags salary
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /salary-schedule [delete]
func (h *SalaryHandler) DeleteSchedule(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	if err := h.salaryService.DeleteSchedule(workspaceID); err != nil {
		return respondError(c, err, "Failed to delete salary schedule")
	}

	log.Info().Int32("workspace_id", workspaceID).Msg("Salary schedule deleted")
	return c.NoContent(http.StatusNoContent)
}
