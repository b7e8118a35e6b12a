package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/service"
)

// ProfileHandler handles the workspace financial profile
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileResponse represents the financial profile
type ProfileResponse struct {
	BaseCurrency            string `json:"baseCurrency"`
	StartDate               string `json:"startDate"`
	HasCompletedOnboarding  bool   `json:"hasCompletedOnboarding"`
	HasCompletedFeatureTour bool   `json:"hasCompletedFeatureTour"`
	UpdatedAt               string `json:"updatedAt"`
}

// UpdateProfileRequest represents the update profile request. Omitted fields are kept.
type UpdateProfileRequest struct {
	BaseCurrency *string `json:"baseCurrency,omitempty"`
	StartDate    *string `json:"startDate,omitempty"`
}

func toProfileResponse(p *domain.FinancialProfile) ProfileResponse {
	return ProfileResponse{
		BaseCurrency:            p.BaseCurrency,
		StartDate:               p.StartDate.String(),
		HasCompletedOnboarding:  p.HasCompletedOnboarding,
		HasCompletedFeatureTour: p.HasCompletedFeatureTour,
		UpdatedAt:               formatTime(p.UpdatedAt),
	}
}

// GetProfile godoc
// @Summary Get the financial profile
// @Description Created with defaults on first access
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	profile, err := h.profileService.GetProfile(workspaceID)
	if err != nil {
		return respondError(c, err, "Failed to get profile")
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile godoc
// @Summary Update the financial profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile changes"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} ProblemDetails
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	startDate, ok := parseOptionalDate(req.StartDate)
	if !ok {
		return NewFieldError(c, "startDate", "Must be in YYYY-MM-DD format")
	}

	profile, err := h.profileService.UpdateProfile(workspaceID, service.UpdateProfileInput{
		BaseCurrency: req.BaseCurrency,
		StartDate:    startDate,
	})
	if err != nil {
		return respondError(c, err, "Failed to update profile")
	}

	log.Info().Int32("workspace_id", workspaceID).Str("currency", profile.BaseCurrency).Msg("Profile updated")
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// CompleteOnboarding godoc
// @Summary Mark onboarding as completed
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Router /profile/onboarding [post]
func (h *ProfileHandler) CompleteOnboarding(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	profile, err := h.profileService.CompleteOnboarding(workspaceID)
	if err != nil {
		return respondError(c, err, "Failed to complete onboarding")
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// CompleteFeatureTour godoc
// @Summary Mark the feature tour as completed
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Router /profile/feature-tour [post]
func (h *ProfileHandler) CompleteFeatureTour(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	profile, err := h.profileService.CompleteFeatureTour(workspaceID)
	if err != nil {
		return respondError(c, err, "Failed to complete feature tour")
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}
