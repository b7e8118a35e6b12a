package service

import (
	"context"
	"errors"
	"testing"

	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoal_Defaults(t *testing.T) {
	f := newFixture()

	goal, err := f.goalService.CreateGoal(1, SavingsGoalInput{Name: " Holiday ", TargetAmount: dec("1200")})

	require.NoError(t, err)
	assert.Equal(t, "Holiday", goal.Name)
	assert.Equal(t, DefaultGoalIcon, goal.Icon)
	assert.True(t, goal.CurrentAmount.IsZero())
	assert.Equal(t, []string{"savings_goal.created"}, f.publisher.Types())
}

func TestCreateGoal_Validation(t *testing.T) {
	f := newFixture()
	weekly := domain.ContributionFrequency("daily")

	tests := []struct {
		name  string
		input SavingsGoalInput
		err   error
	}{
		{"no name", SavingsGoalInput{TargetAmount: dec("1")}, domain.ErrNameRequired},
		{"zero target", SavingsGoalInput{Name: "x", TargetAmount: dec("0")}, domain.ErrInvalidAmount},
		{"negative current", SavingsGoalInput{Name: "x", TargetAmount: dec("1"), CurrentAmount: decRef("-1")}, domain.ErrNegativeAmount},
		{"negative contribution", SavingsGoalInput{Name: "x", TargetAmount: dec("1"), RecurringContribution: decRef("-1")}, domain.ErrNegativeAmount},
		{"bad frequency", SavingsGoalInput{Name: "x", TargetAmount: dec("1"), ContributionFrequency: &weekly}, domain.ErrInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.goalService.CreateGoal(1, tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestUpdateGoal_KeepsCurrentAmountUnlessGiven(t *testing.T) {
	f := newFixture()
	f.goals.AddGoal(&domain.SavingsGoal{ID: 2, WorkspaceID: 1, Name: "Bike", TargetAmount: dec("500"), CurrentAmount: dec("120")})

	goal, err := f.goalService.UpdateGoal(1, 2, SavingsGoalInput{Name: "Road bike", TargetAmount: dec("900")})
	require.NoError(t, err)
	assert.Equal(t, "120", goal.CurrentAmount.String())

	goal, err = f.goalService.UpdateGoal(1, 2, SavingsGoalInput{Name: "Road bike", TargetAmount: dec("900"), CurrentAmount: decRef("1000")})
	require.NoError(t, err)
	assert.Equal(t, "1000", goal.CurrentAmount.String())
}

func TestContribute_WithinFreeToSpend(t *testing.T) {
	f := newFixture()
	f.addTransaction(1, domain.TransactionKindIncome, "1000", day(2024, 3, 1))
	f.goals.AddGoal(&domain.SavingsGoal{ID: 2, WorkspaceID: 1, Name: "Bike", TargetAmount: dec("500"), CurrentAmount: dec("0")})
	ctx := context.Background()

	result, err := f.goalService.Contribute(ctx, 1, 2, dec("300"))

	require.NoError(t, err)
	assert.Equal(t, "300", result.Goal.CurrentAmount.String())
	assert.Equal(t, domain.TransactionKindSavings, result.Transaction.Kind)
	assert.Equal(t, day(2024, 3, 10), result.Transaction.Date)
	assert.Equal(t, "Contribution to Bike", result.Transaction.Description)
	assert.Equal(t, int32(2), *result.Transaction.GoalID)
	assert.Equal(t, []string{"savings_goal.contributed", "transaction.created"}, f.publisher.Types())

	summary, err := f.summaryService.GetSummary(ctx, 1, day(2024, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, "700", summary.FreeToSpend.String())

	_, err = f.goalService.Contribute(ctx, 1, 2, dec("700.01"))
	assert.ErrorIs(t, err, domain.ErrExceedsAvailableBalance)
}

func TestContribute_Rejections(t *testing.T) {
	f := newFixture()
	f.goals.AddGoal(&domain.SavingsGoal{ID: 2, WorkspaceID: 1, Name: "Bike", TargetAmount: dec("500")})
	ctx := context.Background()

	_, err := f.goalService.Contribute(ctx, 1, 2, dec("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.goalService.Contribute(ctx, 1, 99, dec("5"))
	assert.ErrorIs(t, err, domain.ErrSavingsGoalNotFound)

	f.expenses.ListFn = func(int32) ([]*domain.ExpenseDefinition, error) {
		return nil, errors.New("connection refused")
	}
	_, err = f.goalService.Contribute(ctx, 1, 2, dec("5"))
	assert.ErrorContains(t, err, "connection refused")
	assert.True(t, f.goals.Goals[2].CurrentAmount.IsZero())
}

func TestContribute_RollsBackWhenTransactionFails(t *testing.T) {
	f := newFixture()
	f.addTransaction(1, domain.TransactionKindIncome, "1000", day(2024, 3, 1))
	f.goals.AddGoal(&domain.SavingsGoal{ID: 2, WorkspaceID: 1, Name: "Bike", TargetAmount: dec("500"), CurrentAmount: dec("50")})
	f.transactions.CreateFn = func(*domain.Transaction) (*domain.Transaction, error) {
		return nil, errors.New("insert failed")
	}

	_, err := f.goalService.Contribute(context.Background(), 1, 2, dec("100"))

	assert.ErrorContains(t, err, "insert failed")
	assert.Equal(t, "50", f.goals.Goals[2].CurrentAmount.String())
	assert.Empty(t, f.publisher.Events)
}

func TestWithdraw(t *testing.T) {
	f := newFixture()
	f.goals.AddGoal(&domain.SavingsGoal{ID: 2, WorkspaceID: 1, Name: "Bike", TargetAmount: dec("500"), CurrentAmount: dec("80")})

	result, err := f.goalService.Withdraw(1, 2, dec("30"))
	require.NoError(t, err)
	assert.Equal(t, "50", result.Goal.CurrentAmount.String())
	assert.Nil(t, result.Transaction)
	assert.Empty(t, f.transactions.Transactions)

	_, err = f.goalService.Withdraw(1, 2, dec("50.01"))
	assert.ErrorIs(t, err, domain.ErrExceedsGoalBalance)

	_, err = f.goalService.Withdraw(1, 2, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Equal(t, []string{"savings_goal.withdrawn"}, f.publisher.Types())
}

func TestSetIconImage_ReplacesPrevious(t *testing.T) {
	f := newFixture()
	f.goals.AddGoal(&domain.SavingsGoal{ID: 2, WorkspaceID: 1, Name: "Bike", TargetAmount: dec("500")})
	ctx := context.Background()
	data, name := createTestImage(t, 200, 200, "png")

	first, err := f.goalService.SetIconImage(ctx, 1, 2, data, name)
	require.NoError(t, err)
	firstPath := *first.IconImagePath

	second, err := f.goalService.SetIconImage(ctx, 1, 2, data, name)
	require.NoError(t, err)

	assert.NotEqual(t, firstPath, *second.IconImagePath)
	assert.NotContains(t, f.objects.Objects, firstPath)
	assert.Len(t, f.objects.Objects, 2)

	url, err := f.goalService.IconImageURL(ctx, 1, 2)
	require.NoError(t, err)
	assert.Contains(t, url, *second.IconImagePath)

	require.NoError(t, f.goalService.DeleteGoal(ctx, 1, 2))
	assert.Empty(t, f.objects.Objects)
}

func TestIconImage_NotConfigured(t *testing.T) {
	goals := testutil.NewMockSavingsGoalRepository()
	goals.AddGoal(&domain.SavingsGoal{ID: 2, WorkspaceID: 1, Name: "Bike", TargetAmount: dec("500")})
	svc := NewSavingsGoalService(goals, testutil.NewMockTransactionRepository(), nil, nil)
	data, name := createTestImage(t, 64, 64, "jpeg")

	_, err := svc.SetIconImage(context.Background(), 1, 2, data, name)
	assert.ErrorIs(t, err, ErrImageStorageNotConfigured)

	_, err = svc.IconImageURL(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeleteGoal(context.Background(), 1, 2))
}
