package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/safespender/safespender-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// DefaultGoalIcon is used when a goal is created without an icon
const DefaultGoalIcon = "piggy-bank"

const goalImageEntity = "goals"

// FreeToSpendSource computes the current free-to-spend amount
type FreeToSpendSource interface {
	GetSummary(ctx context.Context, workspaceID int32, today civil.Date) (projection.Summary, error)
}

// SavingsGoalService manages savings goals and moves money in and out of them
type SavingsGoalService struct {
	eventSource
	goalRepo        domain.SavingsGoalRepository
	transactionRepo domain.TransactionRepository
	summaries       FreeToSpendSource
	images          *ImageService
	now             func() time.Time
}

// NewSavingsGoalService creates a new SavingsGoalService. images may be nil.
func NewSavingsGoalService(goalRepo domain.SavingsGoalRepository, transactionRepo domain.TransactionRepository, summaries FreeToSpendSource, images *ImageService) *SavingsGoalService {
	return &SavingsGoalService{
		goalRepo:        goalRepo,
		transactionRepo: transactionRepo,
		summaries:       summaries,
		images:          images,
		now:             time.Now,
	}
}

// SavingsGoalInput holds the fields of a goal write. CurrentAmount is only
// applied when non-nil; otherwise creation starts at zero and updates keep it.
type SavingsGoalInput struct {
	Name                  string
	Icon                  string
	TargetAmount          decimal.Decimal
	CurrentAmount         *decimal.Decimal
	RecurringContribution *decimal.Decimal
	ContributionFrequency *domain.ContributionFrequency
}

// MoveResult is the outcome of a contribution or withdrawal
type MoveResult struct {
	Goal        *domain.SavingsGoal `json:"goal"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
}

func (s *SavingsGoalService) CreateGoal(workspaceID int32, input SavingsGoalInput) (*domain.SavingsGoal, error) {
	goal, err := s.build(workspaceID, input)
	if err != nil {
		return nil, err
	}

	created, err := s.goalRepo.Create(goal)
	if err != nil {
		return nil, err
	}
	s.publishEvent(workspaceID, websocket.SavingsGoalCreated(created))
	return created, nil
}

func (s *SavingsGoalService) ListGoals(workspaceID int32) ([]*domain.SavingsGoal, error) {
	return s.goalRepo.ListByWorkspace(workspaceID)
}

func (s *SavingsGoalService) GetGoal(workspaceID int32, id int32) (*domain.SavingsGoal, error) {
	return s.goalRepo.GetByID(workspaceID, id)
}

func (s *SavingsGoalService) UpdateGoal(workspaceID int32, id int32, input SavingsGoalInput) (*domain.SavingsGoal, error) {
	existing, err := s.goalRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	goal, err := s.build(workspaceID, input)
	if err != nil {
		return nil, err
	}
	goal.ID = existing.ID
	goal.IconImagePath = existing.IconImagePath
	if input.CurrentAmount == nil {
		goal.CurrentAmount = existing.CurrentAmount
	}

	updated, err := s.goalRepo.Update(goal)
	if err != nil {
		return nil, err
	}
	s.publishEvent(workspaceID, websocket.SavingsGoalUpdated(updated))
	return updated, nil
}

// DeleteGoal removes a goal and its icon image. Savings transactions that
// referenced it stay in place without a goal.
func (s *SavingsGoalService) DeleteGoal(ctx context.Context, workspaceID int32, id int32) error {
	goal, err := s.goalRepo.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	if err := s.goalRepo.Delete(workspaceID, id); err != nil {
		return err
	}
	s.deleteIcon(ctx, goal.IconImagePath)
	s.publishEvent(workspaceID, websocket.SavingsGoalDeleted(map[string]int32{"id": id}))
	return nil
}

// Contribute moves amount from free-to-spend into the goal and logs a savings
// transaction dated today. The amount may not exceed today's free-to-spend.
func (s *SavingsGoalService) Contribute(ctx context.Context, workspaceID int32, id int32, amount decimal.Decimal) (*MoveResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	goal, err := s.goalRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	today := domain.Today(s.now(), nil)
	summary, err := s.summaries.GetSummary(ctx, workspaceID, today)
	if err != nil {
		return nil, err
	}
	if summary.Status != projection.StatusReady {
		return nil, domain.ErrDataNotReady
	}
	if amount.GreaterThan(summary.FreeToSpend) {
		return nil, domain.ErrExceedsAvailableBalance
	}

	updated, err := s.goalRepo.AdjustCurrentAmount(workspaceID, goal.ID, amount)
	if err != nil {
		return nil, err
	}

	goalID := goal.ID
	transaction, err := s.transactionRepo.Create(&domain.Transaction{
		WorkspaceID: workspaceID,
		Kind:        domain.TransactionKindSavings,
		Amount:      amount,
		Date:        today,
		Description: fmt.Sprintf("Contribution to %s", goal.Name),
		GoalID:      &goalID,
	})
	if err != nil {
		// The goal already holds the money; keep the two in step.
		if _, rollbackErr := s.goalRepo.AdjustCurrentAmount(workspaceID, goal.ID, amount.Neg()); rollbackErr != nil {
			log.Error().Err(rollbackErr).Int32("workspace_id", workspaceID).Int32("goal_id", goal.ID).Msg("Failed to roll back contribution")
		}
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.SavingsGoalContributed(updated))
	s.publishEvent(workspaceID, websocket.TransactionCreated(transaction))
	return &MoveResult{Goal: updated, Transaction: transaction}, nil
}

// Withdraw takes amount out of the goal. Only the goal balance changes.
func (s *SavingsGoalService) Withdraw(workspaceID int32, id int32, amount decimal.Decimal) (*MoveResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	goal, err := s.goalRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(goal.CurrentAmount) {
		return nil, domain.ErrExceedsGoalBalance
	}

	updated, err := s.goalRepo.AdjustCurrentAmount(workspaceID, id, amount.Neg())
	if err != nil {
		return nil, err
	}
	s.publishEvent(workspaceID, websocket.SavingsGoalWithdrawn(updated))
	return &MoveResult{Goal: updated}, nil
}

// SetIconImage replaces the goal's picture
func (s *SavingsGoalService) SetIconImage(ctx context.Context, workspaceID int32, id int32, data []byte, filename string) (*domain.SavingsGoal, error) {
	goal, err := s.goalRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	stored, err := s.images.ProcessAndUpload(ctx, workspaceID, goalImageEntity, id, data, filename)
	if err != nil {
		return nil, err
	}

	previous := goal.IconImagePath
	withIcon := *goal
	withIcon.IconImagePath = &stored.IconPath
	updated, err := s.goalRepo.Update(&withIcon)
	if err != nil {
		s.images.DeletePaths(ctx, stored.IconPath, stored.DisplayPath)
		return nil, err
	}
	s.deleteIcon(ctx, previous)

	s.publishEvent(workspaceID, websocket.SavingsGoalUpdated(updated))
	return updated, nil
}

// IconImageURL returns a presigned link to the goal's picture
func (s *SavingsGoalService) IconImageURL(ctx context.Context, workspaceID int32, id int32) (string, error) {
	goal, err := s.goalRepo.GetByID(workspaceID, id)
	if err != nil {
		return "", err
	}
	if goal.IconImagePath == nil {
		return "", domain.ErrNotFound
	}
	return s.images.URL(ctx, *goal.IconImagePath)
}

func (s *SavingsGoalService) deleteIcon(ctx context.Context, iconPath *string) {
	if iconPath == nil {
		return
	}
	s.images.DeletePaths(ctx, *iconPath, DisplayPathFor(*iconPath))
}

func (s *SavingsGoalService) build(workspaceID int32, input SavingsGoalInput) (*domain.SavingsGoal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.TargetAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.CurrentAmount != nil && input.CurrentAmount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	if input.RecurringContribution != nil && input.RecurringContribution.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	if input.ContributionFrequency != nil && !input.ContributionFrequency.IsValid() {
		return nil, domain.ErrInvalidFrequency
	}

	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = DefaultGoalIcon
	}
	current := decimal.Zero
	if input.CurrentAmount != nil {
		current = *input.CurrentAmount
	}

	return &domain.SavingsGoal{
		WorkspaceID:           workspaceID,
		Name:                  name,
		Icon:                  icon,
		TargetAmount:          input.TargetAmount,
		CurrentAmount:         current,
		RecurringContribution: input.RecurringContribution,
		ContributionFrequency: input.ContributionFrequency,
	}, nil
}
