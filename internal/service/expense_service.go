package service

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/safespender/safespender-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// ExpenseService manages expense definitions. Their future occurrences are never
// stored: deleting or editing a definition changes every projection at once.
type ExpenseService struct {
	eventSource
	expenseRepo domain.ExpenseRepository
	now         func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, now: time.Now}
}

// ExpenseInput holds the fields of an expense definition write
type ExpenseInput struct {
	Description string
	Category    string
	Amount      decimal.Decimal
	Recurring   bool
	DayOfMonth  *int
	CreatedAt   *civil.Date
	EndDate     *civil.Date
}

func (s *ExpenseService) CreateExpense(workspaceID int32, input ExpenseInput) (*domain.ExpenseDefinition, error) {
	expense, err := s.build(workspaceID, input)
	if err != nil {
		return nil, err
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}
	s.withNextOccurrence(created)
	s.publishEvent(workspaceID, websocket.ExpenseCreated(created))
	return created, nil
}

// ListExpenses returns every definition with its next occurrence filled in
func (s *ExpenseService) ListExpenses(workspaceID int32) ([]*domain.ExpenseDefinition, error) {
	expenses, err := s.expenseRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		s.withNextOccurrence(e)
	}
	return expenses, nil
}

func (s *ExpenseService) GetExpense(workspaceID int32, id int32) (*domain.ExpenseDefinition, error) {
	expense, err := s.expenseRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	s.withNextOccurrence(expense)
	return expense, nil
}

// UpdateExpense replaces a definition. The creation date is kept unless given.
func (s *ExpenseService) UpdateExpense(workspaceID int32, id int32, input ExpenseInput) (*domain.ExpenseDefinition, error) {
	existing, err := s.expenseRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if input.CreatedAt == nil {
		input.CreatedAt = &existing.CreatedAt
	}

	expense, err := s.build(workspaceID, input)
	if err != nil {
		return nil, err
	}
	expense.ID = existing.ID

	updated, err := s.expenseRepo.Update(expense)
	if err != nil {
		return nil, err
	}
	s.withNextOccurrence(updated)
	s.publishEvent(workspaceID, websocket.ExpenseUpdated(updated))
	return updated, nil
}

// DeleteExpense removes a definition together with all of its projected occurrences
func (s *ExpenseService) DeleteExpense(workspaceID int32, id int32) error {
	if err := s.expenseRepo.Delete(workspaceID, id); err != nil {
		return err
	}
	s.publishEvent(workspaceID, websocket.ExpenseDeleted(map[string]int32{"id": id}))
	return nil
}

func (s *ExpenseService) withNextOccurrence(expense *domain.ExpenseDefinition) {
	expense.NextOccurrence = nil
	if next, ok := projection.NextExpenseOccurrence(expense, domain.Today(s.now(), nil)); ok {
		expense.NextOccurrence = &next
	}
}

func (s *ExpenseService) build(workspaceID int32, input ExpenseInput) (*domain.ExpenseDefinition, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}
	category := strings.TrimSpace(input.Category)
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	if input.DayOfMonth != nil && (*input.DayOfMonth < 1 || *input.DayOfMonth > 31) {
		return nil, domain.ErrInvalidDayOfMonth
	}
	dayOfMonth := input.DayOfMonth
	if input.Recurring && dayOfMonth == nil {
		return nil, domain.ErrDayOfMonthRequired
	}
	if !input.Recurring {
		dayOfMonth = nil
	}

	createdAt := domain.Today(s.now(), nil)
	if input.CreatedAt != nil {
		createdAt = *input.CreatedAt
	}
	if input.EndDate != nil && input.EndDate.Before(createdAt) {
		return nil, domain.ErrInvalidDateRange
	}

	return &domain.ExpenseDefinition{
		WorkspaceID: workspaceID,
		Description: description,
		Category:    category,
		Amount:      input.Amount,
		Recurring:   input.Recurring,
		DayOfMonth:  dayOfMonth,
		CreatedAt:   createdAt,
		EndDate:     input.EndDate,
	}, nil
}
