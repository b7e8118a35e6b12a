package handler

import (
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/labstack/echo/v4"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/safespender/safespender-backend/internal/service"
)

// SummaryHandler serves the free-to-spend summary
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// SummaryResponse is the free-to-spend summary. Amounts carry two decimals.
type SummaryResponse struct {
	Status            string  `json:"status"`
	Today             string  `json:"today"`
	Currency          string  `json:"currency"`
	TotalIncome       string  `json:"totalIncome"`
	ReservedForBills  string  `json:"reservedForBills"`
	AssignedToSavings string  `json:"assignedToSavings"`
	FreeToSpend       string  `json:"freeToSpend"`
	RawFreeToSpend    string  `json:"rawFreeToSpend"`
	OverBudget        bool    `json:"overBudget"`
	CurrentBalance    string  `json:"currentBalance"`
	LastIncomeDate    *string `json:"lastIncomeDate"`
	NextIncomeDate    *string `json:"nextIncomeDate"`
	NextIncomeAmount  *string `json:"nextIncomeAmount"`
	DailyAllowance    *string `json:"dailyAllowance"`
	HasSalarySchedule bool    `json:"hasSalarySchedule"`
}

func toSummaryResponse(s projection.Summary, currency string) SummaryResponse {
	return SummaryResponse{
		Status:            string(s.Status),
		Today:             s.Today.String(),
		Currency:          currency,
		TotalIncome:       formatAmount(s.TotalIncome),
		ReservedForBills:  formatAmount(s.ReservedForBills),
		AssignedToSavings: formatAmount(s.AssignedToSavings),
		FreeToSpend:       formatAmount(s.FreeToSpend),
		RawFreeToSpend:    formatAmount(s.RawFreeToSpend),
		OverBudget:        s.OverBudget,
		CurrentBalance:    formatAmount(s.CurrentBalance),
		LastIncomeDate:    formatOptionalDate(s.LastIncomeDate),
		NextIncomeDate:    formatOptionalDate(s.NextIncomeDate),
		NextIncomeAmount:  formatOptionalAmount(s.NextIncomeAmount),
		DailyAllowance:    formatOptionalAmount(s.DailyAllowance),
		HasSalarySchedule: s.HasSalarySchedule,
	}
}

// todayQuery reads the optional ?today= override, defaulting to the server date
func todayQuery(c echo.Context, summaries *service.SummaryService) (civil.Date, *ValidationError) {
	if c.QueryParam("today") == "" {
		return summaries.Today(), nil
	}
	return dateQuery(c, "today")
}

// GetSummary godoc
// @Summary Free-to-spend summary
// @Description Income since the last paycheck minus bills due and savings assigned until the next one
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param today query string false "Evaluate as of this date (YYYY-MM-DD)"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /summary [get]
func (h *SummaryHandler) GetSummary(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	today, verr := todayQuery(c, h.summaryService)
	if verr != nil {
		return NewFieldError(c, verr.Field, verr.Message)
	}

	summary, err := h.summaryService.GetSummary(c.Request().Context(), workspaceID, today)
	if err != nil {
		return respondError(c, err, "Failed to load financial data")
	}
	currency, err := h.summaryService.Currency(workspaceID)
	if err != nil {
		return respondError(c, err, "Failed to load financial data")
	}

	return c.JSON(http.StatusOK, toSummaryResponse(summary, currency))
}
