package projection

import (
	"slices"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func amounts(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func intPtr(i int) *int { return &i }

func decPtr(i int64) *decimal.Decimal {
	d := decimal.NewFromInt(i)
	return &d
}

func TestExpandSalary_ClipsToMonthEnd(t *testing.T) {
	schedule := &domain.SalarySchedule{
		ID:              7,
		ScheduleType:    domain.ScheduleMonthly,
		PayDaysOfMonth:  []int{31},
		PaycheckAmounts: amounts(2000),
	}

	got := slices.Collect(ExpandSalary(schedule, date(2024, 1, 1), date(2024, 4, 30)))

	require.Len(t, got, 4)
	assert.Equal(t, date(2024, 1, 31), got[0].Date)
	assert.Equal(t, date(2024, 2, 29), got[1].Date)
	assert.Equal(t, date(2024, 3, 31), got[2].Date)
	assert.Equal(t, date(2024, 4, 30), got[3].Date)
	assert.Equal(t, int32(7), got[0].ScheduleID)
}

func TestExpandSalary_OrdersByDateAndSkipsZeroAmounts(t *testing.T) {
	schedule := &domain.SalarySchedule{
		ID:              1,
		PayDaysOfMonth:  []int{30, 15, 5},
		PaycheckAmounts: amounts(1000, 500, 0),
	}

	got := slices.Collect(ExpandSalary(schedule, date(2024, 1, 1), date(2024, 1, 31)))

	require.Len(t, got, 2)
	assert.Equal(t, date(2024, 1, 15), got[0].Date)
	assert.Equal(t, 1, got[0].Slot)
	assert.Equal(t, date(2024, 1, 30), got[1].Date)
	assert.Equal(t, 0, got[1].Slot)
}

func TestExpandSalary_MergesSlotsOnSameDate(t *testing.T) {
	schedule := &domain.SalarySchedule{
		ID:              1,
		PayDaysOfMonth:  []int{30, 31},
		PaycheckAmounts: amounts(1000, 200),
	}

	got := slices.Collect(ExpandSalary(schedule, date(2024, 4, 1), date(2024, 4, 30)))

	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 4, 30), got[0].Date)
	assert.Equal(t, "1200", got[0].Amount.String())
}

func TestExpandSalary_UsesMatchedSlotsOnly(t *testing.T) {
	schedule := &domain.SalarySchedule{
		ID:              1,
		PayDaysOfMonth:  []int{1, 15},
		PaycheckAmounts: amounts(900),
	}

	got := slices.Collect(ExpandSalary(schedule, date(2024, 3, 1), date(2024, 3, 31)))

	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 3, 1), got[0].Date)
}

func TestExpandSalary_NilScheduleAndEmptyWindow(t *testing.T) {
	assert.Empty(t, slices.Collect(ExpandSalary(nil, date(2024, 1, 1), date(2024, 12, 31))))

	schedule := &domain.SalarySchedule{PayDaysOfMonth: []int{1}, PaycheckAmounts: amounts(1)}
	assert.Empty(t, slices.Collect(ExpandSalary(schedule, date(2024, 2, 1), date(2024, 1, 1))))
}

func TestExpandSalary_IsRestartable(t *testing.T) {
	schedule := &domain.SalarySchedule{PayDaysOfMonth: []int{10}, PaycheckAmounts: amounts(100)}
	seq := ExpandSalary(schedule, date(2024, 1, 1), date(2024, 6, 30))

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Len(t, first, 6)
	assert.Equal(t, first, second)
}

func TestExpandSalary_StopsWhenConsumerStops(t *testing.T) {
	schedule := &domain.SalarySchedule{PayDaysOfMonth: []int{10}, PaycheckAmounts: amounts(100)}

	count := 0
	for range ExpandSalary(schedule, date(2024, 1, 1), date(2030, 12, 31)) {
		count++
		if count == 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
}

func TestExpandExpense_RecurringCapsFebruaryAt28(t *testing.T) {
	def := &domain.ExpenseDefinition{
		ID:          3,
		Description: "Rent",
		Category:    "Housing",
		Amount:      decimal.NewFromInt(800),
		Recurring:   true,
		DayOfMonth:  intPtr(31),
		CreatedAt:   date(2023, 12, 1),
	}

	got := slices.Collect(ExpandExpense(def, date(2024, 1, 1), date(2024, 4, 30)))

	require.Len(t, got, 4)
	assert.Equal(t, date(2024, 1, 31), got[0].Date)
	assert.Equal(t, date(2024, 2, 28), got[1].Date)
	assert.Equal(t, date(2024, 3, 31), got[2].Date)
	assert.Equal(t, date(2024, 4, 30), got[3].Date)
	assert.Equal(t, "Rent", got[0].Description)
	assert.Equal(t, "Housing", got[0].Category)
}

func TestExpandExpense_RecurringRespectsCreationAndEndDate(t *testing.T) {
	end := date(2024, 4, 10)
	def := &domain.ExpenseDefinition{
		ID:         3,
		Amount:     decimal.NewFromInt(50),
		Recurring:  true,
		DayOfMonth: intPtr(5),
		CreatedAt:  date(2024, 1, 20),
		EndDate:    &end,
	}

	got := slices.Collect(ExpandExpense(def, date(2024, 1, 1), date(2024, 12, 31)))

	require.Len(t, got, 3)
	assert.Equal(t, date(2024, 2, 5), got[0].Date)
	assert.Equal(t, date(2024, 4, 5), got[2].Date)
}

func TestExpandExpense_RecurringWithoutDayYieldsNothing(t *testing.T) {
	def := &domain.ExpenseDefinition{Amount: decimal.NewFromInt(50), Recurring: true, CreatedAt: date(2024, 1, 1)}

	assert.Empty(t, slices.Collect(ExpandExpense(def, date(2024, 1, 1), date(2024, 12, 31))))
}

func TestExpandExpense_OneTimeOccursOnCreationDate(t *testing.T) {
	def := &domain.ExpenseDefinition{ID: 9, Amount: decimal.NewFromInt(120), CreatedAt: date(2024, 3, 12)}

	got := slices.Collect(ExpandExpense(def, date(2024, 3, 1), date(2024, 3, 31)))
	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 3, 12), got[0].Date)

	assert.Empty(t, slices.Collect(ExpandExpense(def, date(2024, 4, 1), date(2024, 4, 30))))
}

func TestExpandSavings_PlacesContributionsOnThe16th(t *testing.T) {
	goal := &domain.SavingsGoal{
		ID:                    4,
		Name:                  "Holiday",
		RecurringContribution: decPtr(50),
	}

	got := slices.Collect(ExpandSavings(goal, date(2024, 1, 1), date(2024, 3, 15), SavingsPolicyApproximate))

	require.Len(t, got, 2)
	assert.Equal(t, date(2024, 1, 16), got[0].Date)
	assert.Equal(t, date(2024, 2, 16), got[1].Date)
	assert.Equal(t, "Holiday", got[0].GoalName)
	assert.Equal(t, "50", got[0].Amount.String())
}

func TestExpandSavings_StartsAtGoalCreation(t *testing.T) {
	goal := &domain.SavingsGoal{
		ID:                    4,
		RecurringContribution: decPtr(50),
		CreatedAt:             time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC),
	}

	got := slices.Collect(ExpandSavings(goal, date(2024, 1, 1), date(2024, 4, 30), SavingsPolicyApproximate))

	require.Len(t, got, 2)
	assert.Equal(t, date(2024, 3, 16), got[0].Date)
}

func TestExpandSavings_Policy(t *testing.T) {
	weekly := domain.FrequencyWeekly
	goal := &domain.SavingsGoal{
		ID:                    4,
		RecurringContribution: decPtr(25),
		ContributionFrequency: &weekly,
	}
	start, end := date(2024, 1, 1), date(2024, 1, 31)

	assert.Len(t, slices.Collect(ExpandSavings(goal, start, end, SavingsPolicyApproximate)), 1)
	assert.Empty(t, slices.Collect(ExpandSavings(goal, start, end, SavingsPolicyMonthlyOnly)))
}

func TestExpandSavings_NoRecurringContribution(t *testing.T) {
	goal := &domain.SavingsGoal{ID: 4, RecurringContribution: decPtr(0)}

	assert.Empty(t, slices.Collect(ExpandSavings(goal, date(2024, 1, 1), date(2024, 12, 31), SavingsPolicyApproximate)))
	assert.Empty(t, slices.Collect(ExpandSavings(nil, date(2024, 1, 1), date(2024, 12, 31), SavingsPolicyApproximate)))
}

func TestNextExpenseOccurrence(t *testing.T) {
	end := date(2024, 3, 31)
	rent := &domain.ExpenseDefinition{
		Amount:     decimal.NewFromInt(800),
		Recurring:  true,
		DayOfMonth: intPtr(15),
		CreatedAt:  date(2024, 1, 1),
		EndDate:    &end,
	}

	next, ok := NextExpenseOccurrence(rent, date(2024, 2, 15))
	require.True(t, ok)
	assert.Equal(t, date(2024, 2, 15), next)

	next, ok = NextExpenseOccurrence(rent, date(2024, 2, 16))
	require.True(t, ok)
	assert.Equal(t, date(2024, 3, 15), next)

	_, ok = NextExpenseOccurrence(rent, date(2024, 3, 16))
	assert.False(t, ok)

	oneTime := &domain.ExpenseDefinition{Amount: decimal.NewFromInt(40), CreatedAt: date(2024, 5, 2)}
	next, ok = NextExpenseOccurrence(oneTime, date(2024, 4, 1))
	require.True(t, ok)
	assert.Equal(t, date(2024, 5, 2), next)
}
