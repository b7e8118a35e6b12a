// Package snapshotfile reads a complete set of SafeSpender records from a YAML file,
// for offline projections without a database.
package snapshotfile

import (
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type File struct {
	Profile      Profile       `yaml:"profile"`
	Salary       *Salary       `yaml:"salary,omitempty"`
	Transactions []Transaction `yaml:"transactions,omitempty"`
	Expenses     []Expense     `yaml:"expenses,omitempty"`
	Goals        []Goal        `yaml:"goals,omitempty"`
}

type Profile struct {
	BaseCurrency string     `yaml:"base_currency,omitempty"`
	StartDate    civil.Date `yaml:"start_date"`
}

type Salary struct {
	ScheduleType    string            `yaml:"schedule_type,omitempty"`
	PayDaysOfMonth  []int             `yaml:"pay_days_of_month"`
	PaycheckAmounts []decimal.Decimal `yaml:"paycheck_amounts"`
}

type Transaction struct {
	ID          int32           `yaml:"id,omitempty"`
	Kind        string          `yaml:"kind"`
	Amount      decimal.Decimal `yaml:"amount"`
	Date        civil.Date      `yaml:"date"`
	Description string          `yaml:"description"`
	Category    *string         `yaml:"category,omitempty"`
	GoalID      *int32          `yaml:"goal_id,omitempty"`
}

type Expense struct {
	ID          int32           `yaml:"id,omitempty"`
	Description string          `yaml:"description"`
	Category    string          `yaml:"category,omitempty"`
	Amount      decimal.Decimal `yaml:"amount"`
	Recurring   bool            `yaml:"recurring,omitempty"`
	DayOfMonth  *int            `yaml:"day_of_month,omitempty"`
	CreatedAt   civil.Date      `yaml:"created_at"`
	EndDate     *civil.Date     `yaml:"end_date,omitempty"`
}

type Goal struct {
	ID                    int32            `yaml:"id,omitempty"`
	Name                  string           `yaml:"name"`
	Icon                  string           `yaml:"icon,omitempty"`
	TargetAmount          decimal.Decimal  `yaml:"target_amount"`
	CurrentAmount         decimal.Decimal  `yaml:"current_amount,omitempty"`
	RecurringContribution *decimal.Decimal `yaml:"recurring_contribution,omitempty"`
	ContributionFrequency string           `yaml:"contribution_frequency,omitempty"`
}

// Load reads and validates the snapshot file at path
func Load(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML snapshot. Missing ids are assigned in file order after
// the highest explicit id of their list; every collection is present (possibly
// empty) in the result.
func Parse(data []byte) (*domain.Snapshot, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing snapshot file: %w", err)
	}
	return f.Snapshot()
}

// Snapshot converts the file into the value the projection core reads
func (f *File) Snapshot() (*domain.Snapshot, error) {
	if !f.Profile.StartDate.IsValid() {
		return nil, errors.New("profile.start_date is required")
	}
	currency := f.Profile.BaseCurrency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	s := &domain.Snapshot{
		Transactions: make([]*domain.Transaction, 0, len(f.Transactions)),
		Expenses:     make([]*domain.ExpenseDefinition, 0, len(f.Expenses)),
		Goals:        make([]*domain.SavingsGoal, 0, len(f.Goals)),
		Profile: &domain.FinancialProfile{
			BaseCurrency:            currency,
			StartDate:               f.Profile.StartDate,
			HasCompletedOnboarding:  true,
			HasCompletedFeatureTour: true,
		},
	}

	if f.Salary != nil {
		scheduleType := domain.ScheduleType(f.Salary.ScheduleType)
		if scheduleType == "" {
			scheduleType = domain.ScheduleMonthly
		}
		if !scheduleType.IsValid() {
			return nil, fmt.Errorf("salary: %w", domain.ErrInvalidScheduleType)
		}
		for _, day := range f.Salary.PayDaysOfMonth {
			if day < 1 || day > 31 {
				return nil, fmt.Errorf("salary: %w", domain.ErrInvalidDayOfMonth)
			}
		}
		s.Salary = &domain.SalarySchedule{
			ID:              1,
			ScheduleType:    scheduleType,
			PayDaysOfMonth:  f.Salary.PayDaysOfMonth,
			PaycheckAmounts: f.Salary.PaycheckAmounts,
		}
	}

	txIDs, err := newIDAllocator("transactions", f.Transactions, func(t Transaction) int32 { return t.ID })
	if err != nil {
		return nil, err
	}
	for i, t := range f.Transactions {
		kind := domain.TransactionKind(t.Kind)
		if !kind.IsValid() {
			return nil, fmt.Errorf("transactions[%d]: %w", i, domain.ErrInvalidTransactionKind)
		}
		if t.Amount.IsNegative() {
			return nil, fmt.Errorf("transactions[%d]: %w", i, domain.ErrNegativeAmount)
		}
		if !t.Date.IsValid() {
			return nil, fmt.Errorf("transactions[%d]: date is required", i)
		}
		s.Transactions = append(s.Transactions, &domain.Transaction{
			ID:          txIDs.assign(t.ID),
			Kind:        kind,
			Amount:      t.Amount,
			Date:        t.Date,
			Description: t.Description,
			Category:    t.Category,
			GoalID:      t.GoalID,
		})
	}

	expenseIDs, err := newIDAllocator("expenses", f.Expenses, func(e Expense) int32 { return e.ID })
	if err != nil {
		return nil, err
	}
	for i, e := range f.Expenses {
		if e.Amount.IsNegative() {
			return nil, fmt.Errorf("expenses[%d]: %w", i, domain.ErrNegativeAmount)
		}
		if e.Recurring && e.DayOfMonth == nil {
			return nil, fmt.Errorf("expenses[%d]: %w", i, domain.ErrDayOfMonthRequired)
		}
		if e.DayOfMonth != nil && (*e.DayOfMonth < 1 || *e.DayOfMonth > 31) {
			return nil, fmt.Errorf("expenses[%d]: %w", i, domain.ErrInvalidDayOfMonth)
		}
		createdAt := e.CreatedAt
		if !createdAt.IsValid() {
			createdAt = f.Profile.StartDate
		}
		s.Expenses = append(s.Expenses, &domain.ExpenseDefinition{
			ID:          expenseIDs.assign(e.ID),
			Description: e.Description,
			Category:    e.Category,
			Amount:      e.Amount,
			Recurring:   e.Recurring,
			DayOfMonth:  e.DayOfMonth,
			CreatedAt:   createdAt,
			EndDate:     e.EndDate,
		})
	}

	goalIDs, err := newIDAllocator("goals", f.Goals, func(g Goal) int32 { return g.ID })
	if err != nil {
		return nil, err
	}
	for i, g := range f.Goals {
		goal := &domain.SavingsGoal{
			ID:                    goalIDs.assign(g.ID),
			Name:                  g.Name,
			Icon:                  g.Icon,
			TargetAmount:          g.TargetAmount,
			CurrentAmount:         g.CurrentAmount,
			RecurringContribution: g.RecurringContribution,
		}
		if g.ContributionFrequency != "" {
			freq := domain.ContributionFrequency(g.ContributionFrequency)
			if !freq.IsValid() {
				return nil, fmt.Errorf("goals[%d]: %w", i, domain.ErrInvalidFrequency)
			}
			goal.ContributionFrequency = &freq
		}
		s.Goals = append(s.Goals, goal)
	}

	return s, nil
}

// idAllocator numbers records without an explicit id. Ids become calendar
// item ids, so they must be unique within a list.
type idAllocator struct {
	next int32
}

func newIDAllocator[T any](list string, items []T, idOf func(T) int32) (*idAllocator, error) {
	seen := make(map[int32]bool, len(items))
	var highest int32
	for i, item := range items {
		id := idOf(item)
		if id == 0 {
			continue
		}
		if id < 0 {
			return nil, fmt.Errorf("%s[%d]: id must be positive", list, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%s[%d]: duplicate id %d", list, i, id)
		}
		seen[id] = true
		highest = max(highest, id)
	}
	return &idAllocator{next: highest + 1}, nil
}

func (a *idAllocator) assign(id int32) int32 {
	if id != 0 {
		return id
	}
	id = a.next
	a.next++
	return id
}
