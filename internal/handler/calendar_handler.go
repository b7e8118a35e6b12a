package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/safespender/safespender-backend/internal/service"
)

// CalendarHandler serves the merged calendar of real and projected items
type CalendarHandler struct {
	calendarService *service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// CalendarItemResponse is one calendar entry
type CalendarItemResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	Source      string  `json:"source"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Category    *string `json:"category,omitempty"`
	Virtual     bool    `json:"virtual"`
	SourceID    int32   `json:"sourceId"`
}

// DayTotalsResponse aggregates one date
type DayTotalsResponse struct {
	Date    string `json:"date"`
	Income  string `json:"income"`
	Outflow string `json:"outflow"`
	Net     string `json:"net"`
	Items   int    `json:"items"`
}

// CalendarResponse is the calendar over an inclusive window
type CalendarResponse struct {
	Start string                 `json:"start"`
	End   string                 `json:"end"`
	Items []CalendarItemResponse `json:"items"`
	Days  []DayTotalsResponse    `json:"days"`
}

// DayResponse lists the items of one date
type DayResponse struct {
	Date    string                 `json:"date"`
	Items   []CalendarItemResponse `json:"items"`
	NetFlow string                 `json:"netFlow"`
}

func toCalendarItems(items []projection.Item) []CalendarItemResponse {
	response := make([]CalendarItemResponse, len(items))
	for i, item := range items {
		response[i] = CalendarItemResponse{
			ID:          item.ID,
			Date:        item.Date.String(),
			Kind:        string(item.Kind),
			Source:      string(item.Source),
			Amount:      formatAmount(item.Amount),
			Description: item.Description,
			Category:    item.Category,
			Virtual:     item.Virtual,
			SourceID:    item.SourceID,
		}
	}
	return response
}

// GetCalendar godoc
// @Summary Calendar of real and projected items
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param start query string true "First day (YYYY-MM-DD)"
// @Param end query string true "Last day (YYYY-MM-DD), at most 366 days after start"
// @Success 200 {object} CalendarResponse
// @Failure 400 {object} ProblemDetails
// @Router /calendar [get]
func (h *CalendarHandler) GetCalendar(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	start, verr := dateQuery(c, "start")
	if verr != nil {
		return NewFieldError(c, verr.Field, verr.Message)
	}
	end, verr := dateQuery(c, "end")
	if verr != nil {
		return NewFieldError(c, verr.Field, verr.Message)
	}

	cal, err := h.calendarService.GetCalendar(c.Request().Context(), workspaceID, start, end)
	if err != nil {
		return respondError(c, err, "Failed to load calendar")
	}

	days := cal.Days()
	dayResponses := make([]DayTotalsResponse, len(days))
	for i, d := range days {
		dayResponses[i] = DayTotalsResponse{
			Date:    d.Date.String(),
			Income:  formatAmount(d.Income),
			Outflow: formatAmount(d.Outflow),
			Net:     formatAmount(d.Net),
			Items:   d.Items,
		}
	}

	return c.JSON(http.StatusOK, CalendarResponse{
		Start: cal.Start().String(),
		End:   cal.End().String(),
		Items: toCalendarItems(cal.Items()),
		Days:  dayResponses,
	})
}

// GetDay godoc
// @Summary Items on one date
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} DayResponse
// @Failure 400 {object} ProblemDetails
// @Router /calendar/{date} [get]
func (h *CalendarHandler) GetDay(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	date, ok := parseDate(c.Param("date"))
	if !ok {
		return NewFieldError(c, "date", "Must be in YYYY-MM-DD format")
	}

	view, err := h.calendarService.GetDay(c.Request().Context(), workspaceID, date)
	if err != nil {
		return respondError(c, err, "Failed to load calendar")
	}

	return c.JSON(http.StatusOK, DayResponse{
		Date:    view.Date.String(),
		Items:   toCalendarItems(view.Items),
		NetFlow: formatAmount(view.NetFlow),
	})
}

// DeleteItem godoc
// @Summary Delete a calendar item
// @Description Only recorded transactions can be deleted; projected items answer 409
// @Tags calendar
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /calendar/items/{id} [delete]
func (h *CalendarHandler) DeleteItem(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	itemID := c.Param("id")
	if err := h.calendarService.DeleteItem(workspaceID, itemID); err != nil {
		return respondError(c, err, "Failed to delete calendar item")
	}

	log.Info().Int32("workspace_id", workspaceID).Str("item_id", itemID).Msg("Calendar item deleted")
	return c.NoContent(http.StatusNoContent)
}
