package service

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/websocket"
)

// ProfileService manages the per-workspace financial profile
type ProfileService struct {
	eventSource
	profileRepo domain.ProfileRepository
	now         func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo domain.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, now: time.Now}
}

// UpdateProfileInput holds the editable profile settings. Nil fields are left unchanged.
type UpdateProfileInput struct {
	BaseCurrency *string
	StartDate    *civil.Date
}

// GetProfile returns the workspace profile, creating it with defaults on first access.
// A new profile starts counting income today in the default currency.
func (s *ProfileService) GetProfile(workspaceID int32) (*domain.FinancialProfile, error) {
	profile, err := s.profileRepo.GetByWorkspace(workspaceID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	profile, err = s.profileRepo.Upsert(&domain.FinancialProfile{
		WorkspaceID:  workspaceID,
		BaseCurrency: domain.DefaultCurrency,
		StartDate:    domain.Today(s.now(), nil),
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int32("workspace_id", workspaceID).Msg("Created default financial profile")
	return profile, nil
}

// UpdateProfile changes the base currency and/or the start date
func (s *ProfileService) UpdateProfile(workspaceID int32, input UpdateProfileInput) (*domain.FinancialProfile, error) {
	var currency string
	if input.BaseCurrency != nil {
		currency = strings.ToUpper(strings.TrimSpace(*input.BaseCurrency))
		if !isCurrencyCode(currency) {
			return nil, domain.ErrInvalidCurrency
		}
	}
	if input.StartDate != nil && !input.StartDate.IsValid() {
		return nil, domain.ErrInvalidInput
	}

	return s.modify(workspaceID, func(p *domain.FinancialProfile) {
		if input.BaseCurrency != nil {
			p.BaseCurrency = currency
		}
		if input.StartDate != nil {
			p.StartDate = *input.StartDate
		}
	})
}

// CompleteOnboarding marks the onboarding flow as done
func (s *ProfileService) CompleteOnboarding(workspaceID int32) (*domain.FinancialProfile, error) {
	return s.modify(workspaceID, func(p *domain.FinancialProfile) {
		p.HasCompletedOnboarding = true
	})
}

// CompleteFeatureTour marks the feature tour as seen
func (s *ProfileService) CompleteFeatureTour(workspaceID int32) (*domain.FinancialProfile, error) {
	return s.modify(workspaceID, func(p *domain.FinancialProfile) {
		p.HasCompletedFeatureTour = true
	})
}

func (s *ProfileService) modify(workspaceID int32, apply func(*domain.FinancialProfile)) (*domain.FinancialProfile, error) {
	profile, err := s.GetProfile(workspaceID)
	if err != nil {
		return nil, err
	}
	updated := *profile
	apply(&updated)

	saved, err := s.profileRepo.Upsert(&updated)
	if err != nil {
		return nil, err
	}
	s.publishEvent(workspaceID, websocket.ProfileUpdated(saved))
	return saved, nil
}

// isCurrencyCode reports whether code looks like an ISO 4217 alphabetic code
func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
