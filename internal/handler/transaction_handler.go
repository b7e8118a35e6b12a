package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/service"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest is the body of create and update requests
type TransactionRequest struct {
	Kind        string  `json:"kind"`
	Amount      string  `json:"amount"`
	Date        *string `json:"date,omitempty"`
	Description string  `json:"description"`
	Category    *string `json:"category,omitempty"`
	GoalID      *int32  `json:"goalId,omitempty"`
	Reserved    bool    `json:"reserved"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          int32   `json:"id"`
	Kind        string  `json:"kind"`
	Amount      string  `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    *string `json:"category,omitempty"`
	GoalID      *int32  `json:"goalId,omitempty"`
	Reserved    bool    `json:"reserved"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Amount:      formatAmount(t.Amount),
		Date:        t.Date.String(),
		Description: t.Description,
		Category:    t.Category,
		GoalID:      t.GoalID,
		Reserved:    t.Reserved,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

// transactionError reports goal reference problems against the goalId field
func transactionError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, domain.ErrSavingsGoalNotFound) {
		return NewFieldError(c, "goalId", "Savings goal not found")
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return NewFieldError(c, "goalId", "Only savings transactions can reference a goal")
	}
	return respondError(c, err, fallback)
}

func (h *TransactionHandler) bindInput(c echo.Context) (service.TransactionInput, error) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return service.TransactionInput{}, NewValidationError(c, "Invalid request body", nil)
	}

	amount, ok := parseAmount(req.Amount)
	if !ok {
		return service.TransactionInput{}, NewFieldError(c, "amount", "Must be a valid decimal number")
	}
	date, ok := parseOptionalDate(req.Date)
	if !ok {
		return service.TransactionInput{}, NewFieldError(c, "date", "Must be in YYYY-MM-DD format")
	}

	return service.TransactionInput{
		Kind:        domain.TransactionKind(req.Kind),
		Amount:      amount,
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
		GoalID:      req.GoalID,
		Reserved:    req.Reserved,
	}, nil
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income, expense or savings transaction. The date defaults to today.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	input, err := h.bindInput(c)
	if err != nil {
		return err
	}

	transaction, err := h.transactionService.CreateTransaction(workspaceID, input)
	if err != nil {
		return transactionError(c, err, "Failed to create transaction")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("transaction_id", transaction.ID).
		Str("kind", string(transaction.Kind)).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description List transactions ordered by date, optionally filtered by date range and kind
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param kind query string false "income, expense or savings"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filters := &domain.TransactionFilters{}
	if value := c.QueryParam("from"); value != "" {
		from, verr := dateQuery(c, "from")
		if verr != nil {
			return NewFieldError(c, verr.Field, verr.Message)
		}
		filters.From = &from
	}
	if value := c.QueryParam("to"); value != "" {
		to, verr := dateQuery(c, "to")
		if verr != nil {
			return NewFieldError(c, verr.Field, verr.Message)
		}
		filters.To = &to
	}
	if value := c.QueryParam("kind"); value != "" {
		kind := domain.TransactionKind(value)
		filters.Kind = &kind
	}

	transactions, err := h.transactionService.ListTransactions(workspaceID, filters)
	if err != nil {
		return respondError(c, err, "Failed to list transactions")
	}

	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = toTransactionResponse(t)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	transaction, err := h.transactionService.GetTransaction(workspaceID, id)
	if err != nil {
		return respondError(c, err, "Failed to get transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body TransactionRequest true "Transaction"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
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

	transaction, err := h.transactionService.UpdateTransaction(workspaceID, id, input)
	if err != nil {
		return transactionError(c, err, "Failed to update transaction")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Transaction updated")
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	if err := h.transactionService.DeleteTransaction(workspaceID, id); err != nil {
		return respondError(c, err, "Failed to delete transaction")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}
