package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/service"
)

// ExpenseHandler handles expense definition HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest is the body of create and update requests
type ExpenseRequest struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      string  `json:"amount"`
	Recurring   bool    `json:"recurring"`
	DayOfMonth  *int    `json:"dayOfMonth,omitempty"`
	CreatedAt   *string `json:"createdAt,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
}

// ExpenseResponse represents an expense definition in API responses
type ExpenseResponse struct {
	ID             int32   `json:"id"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Amount         string  `json:"amount"`
	Recurring      bool    `json:"recurring"`
	DayOfMonth     *int    `json:"dayOfMonth,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	NextOccurrence *string `json:"nextOccurrence,omitempty"`
	EndDate        *string `json:"endDate,omitempty"`
	UpdatedAt      string  `json:"updatedAt"`
}

func toExpenseResponse(e *domain.ExpenseDefinition) ExpenseResponse {
	return ExpenseResponse{
		ID:             e.ID,
		Description:    e.Description,
		Category:       e.Category,
		Amount:         formatAmount(e.Amount),
		Recurring:      e.Recurring,
		DayOfMonth:     e.DayOfMonth,
		CreatedAt:      e.CreatedAt.String(),
		NextOccurrence: formatOptionalDate(e.NextOccurrence),
		EndDate:        formatOptionalDate(e.EndDate),
		UpdatedAt:      formatTime(e.UpdatedAt),
	}
}

func (h *ExpenseHandler) bindInput(c echo.Context) (service.ExpenseInput, error) {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return service.ExpenseInput{}, NewValidationError(c, "Invalid request body", nil)
	}

	amount, ok := parseAmount(req.Amount)
	if !ok {
		return service.ExpenseInput{}, NewFieldError(c, "amount", "Must be a valid decimal number")
	}
	createdAt, ok := parseOptionalDate(req.CreatedAt)
	if !ok {
		return service.ExpenseInput{}, NewFieldError(c, "createdAt", "Must be in YYYY-MM-DD format")
	}
	endDate, ok := parseOptionalDate(req.EndDate)
	if !ok {
		return service.ExpenseInput{}, NewFieldError(c, "endDate", "Must be in YYYY-MM-DD format")
	}

	return service.ExpenseInput{
		Description: req.Description,
		Category:    req.Category,
		Amount:      amount,
		Recurring:   req.Recurring,
		DayOfMonth:  req.DayOfMonth,
		CreatedAt:   createdAt,
		EndDate:     endDate,
	}, nil
}

// CreateExpense godoc
// @Summary Create an expense definition
// @Description One-time expenses occur on createdAt; recurring ones monthly on dayOfMonth
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "Expense definition"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	input, err := h.bindInput(c)
	if err != nil {
		return err
	}

	expense, err := h.expenseService.CreateExpense(workspaceID, input)
	if err != nil {
		return respondError(c, err, "Failed to create expense")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("expense_id", expense.ID).Msg("Expense created")
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses godoc
// @Summary List expense definitions
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExpenseResponse
// @Router /expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	expenses, err := h.expenseService.ListExpenses(workspaceID)
	if err != nil {
		return respondError(c, err, "Failed to list expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = toExpenseResponse(e)
	}
	return c.JSON(http.StatusOK, response)
}

// GetExpense godoc
// @Summary Get an expense definition
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	expense, err := h.expenseService.GetExpense(workspaceID, id)
	if err != nil {
		return respondError(c, err, "Failed to get expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense godoc
// @Summary Update an expense definition
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Param request body ExpenseRequest true "Expense definition"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	input, err := h.bindInput(c)
	if err != nil {
		return err
	}

	expense, err := h.expenseService.UpdateExpense(workspaceID, id, input)
	if err != nil {
		return respondError(c, err, "Failed to update expense")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("expense_id", id).Msg("Expense updated")
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense godoc
// @Summary Delete an expense definition
// @Description Removes the definition and with it every projected occurrence
// @Tags expenses
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	if err := h.expenseService.DeleteExpense(workspaceID, id); err != nil {
		return respondError(c, err, "Failed to delete expense")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("expense_id", id).Msg("Expense deleted")
	return c.NoContent(http.StatusNoContent)
}
