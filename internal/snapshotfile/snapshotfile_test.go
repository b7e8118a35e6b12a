package snapshotfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
profile:
  base_currency: EUR
  start_date: 2024-01-01
salary:
  schedule_type: biweekly
  pay_days_of_month: [15, 30]
  paycheck_amounts: [1000, "1000.50"]
transactions:
  - kind: expense
    amount: 200
    date: 2024-01-20
    description: Groceries
    category: Food
  - id: 40
    kind: savings
    amount: 25
    date: 2024-01-21
    description: Top up
    goal_id: 1
expenses:
  - description: Rent
    category: Housing
    amount: 800
    recurring: true
    day_of_month: 31
    created_at: 2023-12-01
goals:
  - name: Holiday
    target_amount: 2000
    current_amount: 100
    recurring_contribution: 50
    contribution_frequency: weekly
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.True(t, s.Ready())
	assert.Equal(t, "EUR", s.Profile.BaseCurrency)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 1}, s.Profile.StartDate)

	require.NotNil(t, s.Salary)
	assert.Equal(t, domain.ScheduleBiweekly, s.Salary.ScheduleType)
	assert.Equal(t, []int{15, 30}, s.Salary.PayDaysOfMonth)
	assert.Equal(t, "1000.5", s.Salary.PaycheckAmounts[1].String())

	require.Len(t, s.Transactions, 2)
	assert.Equal(t, int32(1), s.Transactions[0].ID)
	assert.Equal(t, domain.TransactionKindExpense, s.Transactions[0].Kind)
	assert.Equal(t, "Food", *s.Transactions[0].Category)
	assert.Equal(t, int32(40), s.Transactions[1].ID)
	assert.Equal(t, int32(1), *s.Transactions[1].GoalID)

	require.Len(t, s.Expenses, 1)
	assert.True(t, s.Expenses[0].Recurring)
	assert.Equal(t, 31, *s.Expenses[0].DayOfMonth)
	assert.Equal(t, civil.Date{Year: 2023, Month: time.December, Day: 1}, s.Expenses[0].CreatedAt)

	require.Len(t, s.Goals, 1)
	assert.Equal(t, domain.FrequencyWeekly, *s.Goals[0].ContributionFrequency)
	assert.Equal(t, "50", s.Goals[0].RecurringContribution.String())
}

func TestParse_MinimalFileIsReady(t *testing.T) {
	s, err := Parse([]byte("profile:\n  start_date: 2024-05-01\n"))
	require.NoError(t, err)

	assert.True(t, s.Ready())
	assert.Nil(t, s.Salary)
	assert.Empty(t, s.Transactions)
	assert.Equal(t, domain.DefaultCurrency, s.Profile.BaseCurrency)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown kind",
			yaml:    "profile: {start_date: 2024-01-01}\ntransactions:\n  - {kind: refund, amount: 1, date: 2024-01-02}\n",
			wantErr: domain.ErrInvalidTransactionKind,
		},
		{
			name:    "negative amount",
			yaml:    "profile: {start_date: 2024-01-01}\ntransactions:\n  - {kind: income, amount: -1, date: 2024-01-02}\n",
			wantErr: domain.ErrNegativeAmount,
		},
		{
			name:    "recurring without day",
			yaml:    "profile: {start_date: 2024-01-01}\nexpenses:\n  - {description: Gym, amount: 30, recurring: true}\n",
			wantErr: domain.ErrDayOfMonthRequired,
		},
		{
			name:    "bad pay day",
			yaml:    "profile: {start_date: 2024-01-01}\nsalary: {pay_days_of_month: [0], paycheck_amounts: [10]}\n",
			wantErr: domain.ErrInvalidDayOfMonth,
		},
		{
			name:    "bad frequency",
			yaml:    "profile: {start_date: 2024-01-01}\ngoals:\n  - {name: Car, target_amount: 10, contribution_frequency: daily}\n",
			wantErr: domain.ErrInvalidFrequency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_AssignsIDsAfterExplicitOnes(t *testing.T) {
	yamlData := `
profile: {start_date: 2024-01-01}
transactions:
  - {kind: expense, amount: 5, date: 2024-01-02, description: Coffee}
  - {id: 1, kind: expense, amount: 9, date: 2024-01-03, description: Lunch}
  - {kind: income, amount: 100, date: 2024-01-04, description: Refund}
  - {id: 7, kind: expense, amount: 3, date: 2024-01-05, description: Bus}
goals:
  - {name: Trip, target_amount: 500}
  - {id: 2, name: Bike, target_amount: 300}
`
	s, err := Parse([]byte(yamlData))
	require.NoError(t, err)

	var txIDs []int32
	for _, tx := range s.Transactions {
		txIDs = append(txIDs, tx.ID)
	}
	assert.Equal(t, []int32{8, 1, 9, 7}, txIDs)
	assert.Equal(t, int32(3), s.Goals[0].ID)
	assert.Equal(t, int32(2), s.Goals[1].ID)
}

func TestParse_DuplicateID(t *testing.T) {
	yamlData := `
profile: {start_date: 2024-01-01}
expenses:
  - {id: 4, description: Rent, amount: 800, created_at: 2024-01-01}
  - {id: 4, description: Gym, amount: 30, created_at: 2024-01-01}
`
	_, err := Parse([]byte(yamlData))

	assert.ErrorContains(t, err, "expenses[1]: duplicate id 4")
}

func TestParse_MissingStartDate(t *testing.T) {
	_, err := Parse([]byte("profile:\n  base_currency: USD\n"))

	assert.ErrorContains(t, err, "start_date")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Transactions, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading snapshot file")
}
