package service

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	eventSource
	transactionRepo domain.TransactionRepository
	goalRepo        domain.SavingsGoalRepository
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, goalRepo domain.SavingsGoalRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		goalRepo:        goalRepo,
		now:             time.Now,
	}
}

// TransactionInput holds the fields of a transaction write
type TransactionInput struct {
	Kind        domain.TransactionKind
	Amount      decimal.Decimal
	Date        *civil.Date
	Description string
	Category    *string
	GoalID      *int32
	Reserved    bool
}

// CreateTransaction validates input and records a new transaction dated today unless a date is given
func (s *TransactionService) CreateTransaction(workspaceID int32, input TransactionInput) (*domain.Transaction, error) {
	transaction, err := s.build(workspaceID, input)
	if err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}
	s.publishEvent(workspaceID, websocket.TransactionCreated(created))
	return created, nil
}

// ListTransactions returns the workspace's transactions ordered by date
func (s *TransactionService) ListTransactions(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if filters != nil {
		if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
			return nil, domain.ErrInvalidDateRange
		}
		if filters.Kind != nil && !filters.Kind.IsValid() {
			return nil, domain.ErrInvalidTransactionKind
		}
	}
	return s.transactionRepo.ListByWorkspace(workspaceID, filters)
}

func (s *TransactionService) GetTransaction(workspaceID int32, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(workspaceID, id)
}

// UpdateTransaction replaces every editable field of an existing transaction
func (s *TransactionService) UpdateTransaction(workspaceID int32, id int32, input TransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if input.Date == nil {
		input.Date = &existing.Date
	}

	transaction, err := s.build(workspaceID, input)
	if err != nil {
		return nil, err
	}
	transaction.ID = existing.ID

	updated, err := s.transactionRepo.Update(transaction)
	if err != nil {
		return nil, err
	}
	s.publishEvent(workspaceID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction. Deleting a savings transaction does not
// change its goal's current amount.
func (s *TransactionService) DeleteTransaction(workspaceID int32, id int32) error {
	if err := s.transactionRepo.Delete(workspaceID, id); err != nil {
		return err
	}
	s.publishEvent(workspaceID, websocket.TransactionDeleted(map[string]int32{"id": id}))
	return nil
}

func (s *TransactionService) build(workspaceID int32, input TransactionInput) (*domain.Transaction, error) {
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidTransactionKind
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	if input.GoalID != nil {
		if input.Kind != domain.TransactionKindSavings {
			return nil, domain.ErrInvalidInput
		}
		if _, err := s.goalRepo.GetByID(workspaceID, *input.GoalID); err != nil {
			return nil, err
		}
	}

	date := domain.Today(s.now(), nil)
	if input.Date != nil {
		if !input.Date.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		date = *input.Date
	}

	return &domain.Transaction{
		WorkspaceID: workspaceID,
		Kind:        input.Kind,
		Amount:      input.Amount,
		Date:        date,
		Description: description,
		Category:    category,
		GoalID:      input.GoalID,
		Reserved:    input.Reserved,
	}, nil
}

// normalizeCategory trims an optional category, treating blank as absent
func normalizeCategory(category *string) (*string, error) {
	if category == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*category)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}
	return &trimmed, nil
}
