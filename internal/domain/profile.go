package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// DefaultCurrency is used for profiles created before onboarding sets one
const DefaultCurrency = "USD"

// FinancialProfile holds per-workspace settings. StartDate bounds all historical
// aggregation: nothing dated before it is counted.
type FinancialProfile struct {
	WorkspaceID             int32      `json:"workspaceId"`
	BaseCurrency            string     `json:"baseCurrency"`
	StartDate               civil.Date `json:"startDate"`
	HasCompletedOnboarding  bool       `json:"hasCompletedOnboarding"`
	HasCompletedFeatureTour bool       `json:"hasCompletedFeatureTour"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

type ProfileRepository interface {
	// GetByWorkspace returns ErrProfileNotFound when the workspace has no profile yet
	GetByWorkspace(workspaceID int32) (*FinancialProfile, error)
	Upsert(profile *FinancialProfile) (*FinancialProfile, error)
}
