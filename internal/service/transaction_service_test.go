package service

import (
	"strings"
	"testing"

	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockSavingsGoalRepository) {
	txRepo := testutil.NewMockTransactionRepository()
	goalRepo := testutil.NewMockSavingsGoalRepository()
	svc := NewTransactionService(txRepo, goalRepo)
	svc.now = fixedClock(2024, 3, 10)
	return svc, txRepo, goalRepo
}

func TestCreateTransaction_Success(t *testing.T) {
	svc, txRepo, _ := newTransactionService()
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)
	category := "  Groceries "

	tx, err := svc.CreateTransaction(1, TransactionInput{
		Kind:        domain.TransactionKindExpense,
		Amount:      dec("42.50"),
		Description: " Weekly shop ",
		Category:    &category,
	})

	require.NoError(t, err)
	assert.Equal(t, "Weekly shop", tx.Description)
	assert.Equal(t, "Groceries", *tx.Category)
	assert.Equal(t, day(2024, 3, 10), tx.Date)
	assert.Len(t, txRepo.Transactions, 1)
	assert.Equal(t, []string{"transaction.created"}, publisher.Types())
}

func TestCreateTransaction_Validation(t *testing.T) {
	svc, _, _ := newTransactionService()
	goalID := int32(99)
	long := strings.Repeat("x", domain.MaxCategoryLength+1)

	tests := []struct {
		name  string
		input TransactionInput
		err   error
	}{
		{"invalid kind", TransactionInput{Kind: "transfer", Amount: dec("1"), Description: "x"}, domain.ErrInvalidTransactionKind},
		{"zero amount", TransactionInput{Kind: domain.TransactionKindIncome, Amount: dec("0"), Description: "x"}, domain.ErrInvalidAmount},
		{"negative amount", TransactionInput{Kind: domain.TransactionKindIncome, Amount: dec("-5"), Description: "x"}, domain.ErrInvalidAmount},
		{"blank description", TransactionInput{Kind: domain.TransactionKindIncome, Amount: dec("1"), Description: "  "}, domain.ErrDescriptionRequired},
		{"long category", TransactionInput{Kind: domain.TransactionKindIncome, Amount: dec("1"), Description: "x", Category: &long}, domain.ErrCategoryTooLong},
		{"goal on income", TransactionInput{Kind: domain.TransactionKindIncome, Amount: dec("1"), Description: "x", GoalID: &goalID}, domain.ErrInvalidInput},
		{"unknown goal", TransactionInput{Kind: domain.TransactionKindSavings, Amount: dec("1"), Description: "x", GoalID: &goalID}, domain.ErrSavingsGoalNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(1, tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCreateTransaction_SavingsWithGoal(t *testing.T) {
	svc, _, goalRepo := newTransactionService()
	goalRepo.AddGoal(&domain.SavingsGoal{ID: 4, WorkspaceID: 1, Name: "Bike"})
	goalID := int32(4)
	date := day(2024, 2, 1)

	tx, err := svc.CreateTransaction(1, TransactionInput{
		Kind:        domain.TransactionKindSavings,
		Amount:      dec("25"),
		Date:        &date,
		Description: "Bike fund",
		GoalID:      &goalID,
	})

	require.NoError(t, err)
	assert.Equal(t, date, tx.Date)
	assert.Equal(t, int32(4), *tx.GoalID)
}

func TestListTransactions_Filters(t *testing.T) {
	svc, txRepo, _ := newTransactionService()
	txRepo.AddTransaction(&domain.Transaction{ID: 1, WorkspaceID: 1, Kind: domain.TransactionKindIncome, Date: day(2024, 1, 5)})
	txRepo.AddTransaction(&domain.Transaction{ID: 2, WorkspaceID: 1, Kind: domain.TransactionKindExpense, Date: day(2024, 2, 5)})
	txRepo.AddTransaction(&domain.Transaction{ID: 3, WorkspaceID: 2, Kind: domain.TransactionKindExpense, Date: day(2024, 2, 5)})

	all, err := svc.ListTransactions(1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	from := day(2024, 2, 1)
	kind := domain.TransactionKindExpense
	filtered, err := svc.ListTransactions(1, &domain.TransactionFilters{From: &from, Kind: &kind})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int32(2), filtered[0].ID)

	to := day(2024, 1, 1)
	_, err = svc.ListTransactions(1, &domain.TransactionFilters{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestUpdateTransaction_KeepsDateWhenOmitted(t *testing.T) {
	svc, txRepo, _ := newTransactionService()
	txRepo.AddTransaction(&domain.Transaction{ID: 5, WorkspaceID: 1, Kind: domain.TransactionKindExpense, Amount: dec("10"), Date: day(2024, 1, 20), Description: "Old"})

	tx, err := svc.UpdateTransaction(1, 5, TransactionInput{
		Kind:        domain.TransactionKindExpense,
		Amount:      dec("12"),
		Description: "New",
	})

	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 20), tx.Date)
	assert.Equal(t, "New", txRepo.Transactions[5].Description)

	_, err = svc.UpdateTransaction(2, 5, TransactionInput{Kind: domain.TransactionKindExpense, Amount: dec("1"), Description: "x"})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestDeleteTransaction(t *testing.T) {
	svc, txRepo, _ := newTransactionService()
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)
	txRepo.AddTransaction(&domain.Transaction{ID: 5, WorkspaceID: 1})

	require.NoError(t, svc.DeleteTransaction(1, 5))
	assert.Empty(t, txRepo.Transactions)
	assert.Equal(t, []string{"transaction.deleted"}, publisher.Types())

	assert.ErrorIs(t, svc.DeleteTransaction(1, 5), domain.ErrTransactionNotFound)
}
