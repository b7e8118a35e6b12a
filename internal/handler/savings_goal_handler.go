package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/service"
)

// SavingsGoalHandler handles savings goal HTTP requests
type SavingsGoalHandler struct {
	goalService *service.SavingsGoalService
}

// NewSavingsGoalHandler creates a new SavingsGoalHandler
func NewSavingsGoalHandler(goalService *service.SavingsGoalService) *SavingsGoalHandler {
	return &SavingsGoalHandler{goalService: goalService}
}

// SavingsGoalRequest is the body of create and update requests
type SavingsGoalRequest struct {
	Name                  string  `json:"name"`
	Icon                  string  `json:"icon"`
	TargetAmount          string  `json:"targetAmount"`
	CurrentAmount         *string `json:"currentAmount,omitempty"`
	RecurringContribution *string `json:"recurringContribution,omitempty"`
	ContributionFrequency *string `json:"contributionFrequency,omitempty"`
}

// MoveMoneyRequest is the body of contribute and withdraw requests
type MoveMoneyRequest struct {
	Amount string `json:"amount"`
}

// SavingsGoalResponse represents a savings goal in API responses
type SavingsGoalResponse struct {
	ID                    int32   `json:"id"`
	Name                  string  `json:"name"`
	Icon                  string  `json:"icon"`
	HasIconImage          bool    `json:"hasIconImage"`
	TargetAmount          string  `json:"targetAmount"`
	CurrentAmount         string  `json:"currentAmount"`
	RecurringContribution *string `json:"recurringContribution,omitempty"`
	ContributionFrequency *string `json:"contributionFrequency,omitempty"`
	CreatedAt             string  `json:"createdAt"`
	UpdatedAt             string  `json:"updatedAt"`
}

// MoveMoneyResponse is the goal after a contribution or withdrawal
type MoveMoneyResponse struct {
	Goal        SavingsGoalResponse  `json:"goal"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ImageURLResponse is a short-lived link to a stored image
type ImageURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

func toSavingsGoalResponse(g *domain.SavingsGoal) SavingsGoalResponse {
	var frequency *string
	if g.ContributionFrequency != nil {
		f := string(*g.ContributionFrequency)
		frequency = &f
	}
	return SavingsGoalResponse{
		ID:                    g.ID,
		Name:                  g.Name,
		Icon:                  g.Icon,
		HasIconImage:          g.IconImagePath != nil,
		TargetAmount:          formatAmount(g.TargetAmount),
		CurrentAmount:         formatAmount(g.CurrentAmount),
		RecurringContribution: formatOptionalAmount(g.RecurringContribution),
		ContributionFrequency: frequency,
		CreatedAt:             formatTime(g.CreatedAt),
		UpdatedAt:             formatTime(g.UpdatedAt),
	}
}

func toMoveMoneyResponse(result *service.MoveResult) MoveMoneyResponse {
	response := MoveMoneyResponse{Goal: toSavingsGoalResponse(result.Goal)}
	if result.Transaction != nil {
		tx := toTransactionResponse(result.Transaction)
		response.Transaction = &tx
	}
	return response
}

func (h *SavingsGoalHandler) bindInput(c echo.Context) (service.SavingsGoalInput, error) {
	var req SavingsGoalRequest
	if err := c.Bind(&req); err != nil {
		return service.SavingsGoalInput{}, NewValidationError(c, "Invalid request body", nil)
	}

	target, ok := parseAmount(req.TargetAmount)
	if !ok {
		return service.SavingsGoalInput{}, NewFieldError(c, "targetAmount", "Must be a valid decimal number")
	}
	current, ok := parseOptionalAmount(req.CurrentAmount)
	if !ok {
		return service.SavingsGoalInput{}, NewFieldError(c, "currentAmount", "Must be a valid decimal number")
	}
	recurring, ok := parseOptionalAmount(req.RecurringContribution)
	if !ok {
		return service.SavingsGoalInput{}, NewFieldError(c, "recurringContribution", "Must be a valid decimal number")
	}

	input := service.SavingsGoalInput{
		Name:                  req.Name,
		Icon:                  req.Icon,
		TargetAmount:          target,
		CurrentAmount:         current,
		RecurringContribution: recurring,
	}
	if req.ContributionFrequency != nil && *req.ContributionFrequency != "" {
		frequency := domain.ContributionFrequency(*req.ContributionFrequency)
		input.ContributionFrequency = &frequency
	}
	return input, nil
}

func (h *SavingsGoalHandler) bindMove(c echo.Context) (int32, MoveMoneyRequest, error) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return 0, MoveMoneyRequest{}, NewFieldError(c, "id", "Must be a positive integer")
	}
	var req MoveMoneyRequest
	if err := c.Bind(&req); err != nil {
		return 0, MoveMoneyRequest{}, NewValidationError(c, "Invalid request body", nil)
	}
	if _, ok := parseAmount(req.Amount); !ok {
		return 0, MoveMoneyRequest{}, NewFieldError(c, "amount", "Must be a valid decimal number")
	}
	return id, req, nil
}

// CreateGoal godoc
// @Summary Create a savings goal
// @Tags savings-goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SavingsGoalRequest true "Savings goal"
// @Success 201 {object} SavingsGoalResponse
// @Failure 400 {object} ProblemDetails
// @Router /savings-goals [post]
func (h *SavingsGoalHandler) CreateGoal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	input, err := h.bindInput(c)
	if err != nil {
		return err
	}

	goal, err := h.goalService.CreateGoal(workspaceID, input)
	if err != nil {
		return respondError(c, err, "Failed to create savings goal")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("goal_id", goal.ID).Msg("Savings goal created")
	return c.JSON(http.StatusCreated, toSavingsGoalResponse(goal))
}

// GetGoals godoc
// @Summary List savings goals
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} SavingsGoalResponse
// @Router /savings-goals [get]
func (h *SavingsGoalHandler) GetGoals(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	goals, err := h.goalService.ListGoals(workspaceID)
	if err != nil {
		return respondError(c, err, "Failed to list savings goals")
	}

	response := make([]SavingsGoalResponse, len(goals))
	for i, g := range goals {
		response[i] = toSavingsGoalResponse(g)
	}
	return c.JSON(http.StatusOK, response)
}

// GetGoal godoc
// @Summary Get a savings goal
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 200 {object} SavingsGoalResponse
// @Failure 404 {object} ProblemDetails
// @Router /savings-goals/{id} [get]
func (h *SavingsGoalHandler) GetGoal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	goal, err := h.goalService.GetGoal(workspaceID, id)
	if err != nil {
		return respondError(c, err, "Failed to get savings goal")
	}
	return c.JSON(http.StatusOK, toSavingsGoalResponse(goal))
}

// UpdateGoal godoc
// @Summary Update a savings goal
// @Description currentAmount is kept unless given
// @Tags savings-goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param request body SavingsGoalRequest true "Savings goal"
// @Success 200 {object} SavingsGoalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /savings-goals/{id} [put]
func (h *SavingsGoalHandler) UpdateGoal(c echo.Context) error {
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

	goal, err := h.goalService.UpdateGoal(workspaceID, id, input)
	if err != nil {
		return respondError(c, err, "Failed to update savings goal")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("goal_id", id).Msg("Savings goal updated")
	return c.JSON(http.StatusOK, toSavingsGoalResponse(goal))
}

// DeleteGoal godoc
// @Summary Delete a savings goal
// @Tags savings-goals
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /savings-goals/{id} [delete]
func (h *SavingsGoalHandler) DeleteGoal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	if err := h.goalService.DeleteGoal(c.Request().Context(), workspaceID, id); err != nil {
		return respondError(c, err, "Failed to delete savings goal")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("goal_id", id).Msg("Savings goal deleted")
	return c.NoContent(http.StatusNoContent)
}

// Contribute godoc
// @Summary Contribute to a savings goal
// @Description Moves money that is currently free to spend into the goal and records a savings transaction
// @Tags savings-goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param request body MoveMoneyRequest true "Amount"
// @Success 200 {object} MoveMoneyResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /savings-goals/{id}/contribute [post]
func (h *SavingsGoalHandler) Contribute(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, req, err := h.bindMove(c)
	if err != nil {
		return err
	}
	amount, _ := parseAmount(req.Amount)

	result, err := h.goalService.Contribute(c.Request().Context(), workspaceID, id, amount)
	if err != nil {
		return respondError(c, err, "Failed to contribute to savings goal")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("goal_id", id).
		Str("amount", formatAmount(amount)).
		Msg("Savings contribution recorded")

	return c.JSON(http.StatusOK, toMoveMoneyResponse(result))
}

// Withdraw godoc
// @Summary Withdraw from a savings goal
// @Tags savings-goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param request body MoveMoneyRequest true "Amount"
// @Success 200 {object} MoveMoneyResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /savings-goals/{id}/withdraw [post]
func (h *SavingsGoalHandler) Withdraw(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, req, err := h.bindMove(c)
	if err != nil {
		return err
	}
	amount, _ := parseAmount(req.Amount)

	result, err := h.goalService.Withdraw(workspaceID, id, amount)
	if err != nil {
		return respondError(c, err, "Failed to withdraw from savings goal")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("goal_id", id).
		Str("amount", formatAmount(amount)).
		Msg("Savings withdrawal recorded")

	return c.JSON(http.StatusOK, toMoveMoneyResponse(result))
}

// UploadIcon godoc
// @Summary Upload a goal picture
// @Description JPEG or PNG, at most 5MB. Stored as a square icon and a display variant.
// @Tags savings-goals
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param file formData file true "Image"
// @Success 200 {object} SavingsGoalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /savings-goals/{id}/icon [put]
func (h *SavingsGoalHandler) UploadIcon(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewFieldError(c, "file", "File is required")
	}
	if file.Size > service.MaxImageSize {
		return NewFieldError(c, "file", "File too large. Maximum size is 5MB")
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	goal, err := h.goalService.SetIconImage(c.Request().Context(), workspaceID, id, data, file.Filename)
	if err != nil {
		return respondError(c, err, "Failed to upload goal icon")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("goal_id", id).Msg("Goal icon uploaded")
	return c.JSON(http.StatusOK, toSavingsGoalResponse(goal))
}

// GetIconURL godoc
// @Summary Get a link to the goal picture
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 200 {object} ImageURLResponse
// @Failure 404 {object} ProblemDetails
// @Router /savings-goals/{id}/icon [get]
func (h *SavingsGoalHandler) GetIconURL(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewFieldError(c, "id", "Must be a positive integer")
	}

	url, err := h.goalService.IconImageURL(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "Failed to get goal icon")
	}
	return c.JSON(http.StatusOK, ImageURLResponse{URL: url, ExpiresIn: int(service.ImageURLTTL.Seconds())})
}
