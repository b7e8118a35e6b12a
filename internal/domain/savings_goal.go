package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContributionFrequency string

const (
	FrequencyWeekly   ContributionFrequency = "weekly"
	FrequencyBiweekly ContributionFrequency = "biweekly"
	FrequencyMonthly  ContributionFrequency = "monthly"
)

// IsValid reports whether f is one of the known frequencies
func (f ContributionFrequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// SavingsGoal tracks money set aside for a target. CurrentAmount is only ever changed
// through explicit updates, contributions and withdrawals; over-funding is allowed.
type SavingsGoal struct {
	ID                    int32                  `json:"id"`
	WorkspaceID           int32                  `json:"workspaceId"`
	Name                  string                 `json:"name"`
	Icon                  string                 `json:"icon"`
	IconImagePath         *string                `json:"iconImagePath,omitempty"`
	TargetAmount          decimal.Decimal        `json:"targetAmount"`
	CurrentAmount         decimal.Decimal        `json:"currentAmount"`
	RecurringContribution *decimal.Decimal       `json:"recurringContribution,omitempty"`
	ContributionFrequency *ContributionFrequency `json:"contributionFrequency,omitempty"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

// HasRecurringContribution reports whether the goal has a positive programmed contribution
func (g *SavingsGoal) HasRecurringContribution() bool {
	return g.RecurringContribution != nil && g.RecurringContribution.IsPositive()
}

// Frequency returns the contribution frequency, monthly when unset
func (g *SavingsGoal) Frequency() ContributionFrequency {
	if g.ContributionFrequency == nil {
		return FrequencyMonthly
	}
	return *g.ContributionFrequency
}

type SavingsGoalRepository interface {
	Create(goal *SavingsGoal) (*SavingsGoal, error)
	GetByID(workspaceID int32, id int32) (*SavingsGoal, error)
	ListByWorkspace(workspaceID int32) ([]*SavingsGoal, error)
	Update(goal *SavingsGoal) (*SavingsGoal, error)
	// AdjustCurrentAmount adds delta (which may be negative) to the goal's current amount
	AdjustCurrentAmount(workspaceID int32, id int32, delta decimal.Decimal) (*SavingsGoal, error)
	Delete(workspaceID int32, id int32) error
}
