package projection

import (
	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/util"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusReady   Status = "ready"
	StatusLoading Status = "loading"
)

// nextIncomeSearchMonths bounds the forward search for the next paycheck.
const nextIncomeSearchMonths = 13

// Summary is the safe-to-spend snapshot for one day.
type Summary struct {
	Status            Status           `json:"status"`
	Today             civil.Date       `json:"today"`
	TotalIncome       decimal.Decimal  `json:"totalIncome"`
	ReservedForBills  decimal.Decimal  `json:"reservedForBills"`
	AssignedToSavings decimal.Decimal  `json:"assignedToSavings"`
	FreeToSpend       decimal.Decimal  `json:"freeToSpend"`
	RawFreeToSpend    decimal.Decimal  `json:"rawFreeToSpend"`
	OverBudget        bool             `json:"overBudget"`
	CurrentBalance    decimal.Decimal  `json:"currentBalance"`
	LastIncomeDate    *civil.Date      `json:"lastIncomeDate,omitempty"`
	NextIncomeDate    *civil.Date      `json:"nextIncomeDate,omitempty"`
	NextIncomeAmount  *decimal.Decimal `json:"nextIncomeAmount,omitempty"`
	DailyAllowance    *decimal.Decimal `json:"dailyAllowance,omitempty"`
	HasSalarySchedule bool             `json:"hasSalarySchedule"`
}

// Loading returns the sentinel summary used while the snapshot is incomplete.
func Loading(today civil.Date) Summary {
	return Summary{
		Status:            StatusLoading,
		Today:             today,
		TotalIncome:       decimal.Zero,
		ReservedForBills:  decimal.Zero,
		AssignedToSavings: decimal.Zero,
		FreeToSpend:       decimal.Zero,
		RawFreeToSpend:    decimal.Zero,
		CurrentBalance:    decimal.Zero,
	}
}

// Summarize computes the financial summary of snapshot as of today.
//
// Income counts from the profile start date up to today, combining recorded
// income with projected paychecks. Bills are reserved after the last income up
// to today. Savings are assigned from the last income (or the start date) up to
// the next income, exclusive, or up to today when no next income is known.
func Summarize(snapshot *domain.Snapshot, today civil.Date, opts Options) Summary {
	if !snapshot.Ready() {
		return Loading(today)
	}
	start := snapshot.Profile.StartDate
	s := Loading(today)
	s.Status = StatusReady
	s.HasSalarySchedule = snapshot.Salary != nil

	var lastIncome *civil.Date
	markIncome := func(d civil.Date) {
		if lastIncome == nil || d.After(*lastIncome) {
			lastIncome = &d
		}
	}
	for _, tx := range snapshot.Transactions {
		if tx.Kind != domain.TransactionKindIncome || !domain.DateInRange(tx.Date, start, today) {
			continue
		}
		s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		markIncome(tx.Date)
	}
	for occ := range ExpandSalary(snapshot.Salary, start, today) {
		s.TotalIncome = s.TotalIncome.Add(occ.Amount)
		markIncome(occ.Date)
	}
	s.LastIncomeDate = lastIncome

	if lastIncome != nil {
		from := lastIncome.AddDays(1)
		for _, tx := range snapshot.Transactions {
			if tx.Kind == domain.TransactionKindExpense && domain.DateInRange(tx.Date, from, today) {
				s.ReservedForBills = s.ReservedForBills.Add(tx.Amount)
			}
		}
		for _, def := range snapshot.Expenses {
			for occ := range ExpandExpense(def, from, today) {
				s.ReservedForBills = s.ReservedForBills.Add(occ.Amount)
			}
		}
	}

	if date, amount, ok := NextIncome(snapshot.Salary, today); ok {
		s.NextIncomeDate = &date
		s.NextIncomeAmount = &amount
	}

	s.AssignedToSavings = assignedToSavings(snapshot, start, today, lastIncome, s.NextIncomeDate, opts.savingsPolicy())

	spent := decimal.Zero
	for _, tx := range snapshot.Transactions {
		if tx.Kind == domain.TransactionKindExpense && domain.DateInRange(tx.Date, start, today) {
			spent = spent.Add(tx.Amount)
		}
	}
	s.CurrentBalance = s.TotalIncome.Sub(spent)

	s.RawFreeToSpend = s.TotalIncome.Sub(s.ReservedForBills).Sub(s.AssignedToSavings)
	s.OverBudget = s.RawFreeToSpend.IsNegative()
	s.FreeToSpend = decimal.Max(decimal.Zero, s.RawFreeToSpend)

	if s.NextIncomeDate != nil {
		days := max(s.NextIncomeDate.DaysSince(today), 1)
		allowance := s.FreeToSpend.Div(decimal.NewFromInt(int64(days))).Round(2)
		s.DailyAllowance = &allowance
	}
	return s
}

func assignedToSavings(snapshot *domain.Snapshot, start, today civil.Date, lastIncome, nextIncome *civil.Date, policy SavingsPolicy) decimal.Decimal {
	lower := start
	if lastIncome != nil {
		lower = *lastIncome
	}
	inWindow := func(d civil.Date) bool {
		if d.Before(lower) {
			return false
		}
		if nextIncome != nil {
			return d.Before(*nextIncome)
		}
		return !d.After(today)
	}

	total := decimal.Zero
	for _, tx := range snapshot.Transactions {
		if tx.Kind == domain.TransactionKindSavings && inWindow(tx.Date) {
			total = total.Add(tx.Amount)
		}
	}

	contributionDay := civil.Date{Year: today.Year, Month: today.Month, Day: SavingsContributionDay}
	if !inWindow(contributionDay) {
		return total
	}
	for _, goal := range snapshot.Goals {
		if policy.Includes(goal) && contributesOn(goal, contributionDay) {
			total = total.Add(*goal.RecurringContribution)
		}
	}
	return total
}

// NextIncome returns the first paycheck strictly after today, built the same way
// as ExpandSalary so merged pay days carry their summed amount. A pay day
// without its own amount is paid the mean of all configured amounts.
func NextIncome(schedule *domain.SalarySchedule, today civil.Date) (civil.Date, decimal.Decimal, bool) {
	if schedule == nil || len(schedule.PayDaysOfMonth) == 0 {
		return civil.Date{}, decimal.Zero, false
	}
	mean := schedule.MeanPaycheck()
	year, month := today.Year, today.Month
	for range nextIncomeSearchMonths {
		for _, occ := range salaryMonth(schedule, year, month, &mean) {
			if occ.Date.After(today) {
				return occ.Date, occ.Amount, true
			}
		}
		year, month = util.NextMonth(year, month)
	}
	return civil.Date{}, decimal.Zero, false
}
