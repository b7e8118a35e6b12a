package projection

import (
	"iter"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/util"
	"github.com/shopspring/decimal"
)

// SavingsContributionDay is the fixed day of month on which programmed
// savings contributions are placed.
const SavingsContributionDay = 16

type SavingsPolicy string

const (
	// SavingsPolicyApproximate projects every goal with a recurring contribution
	// once per month, whatever its declared frequency.
	SavingsPolicyApproximate SavingsPolicy = "approximate"
	// SavingsPolicyMonthlyOnly projects only goals whose frequency is monthly.
	SavingsPolicyMonthlyOnly SavingsPolicy = "monthly-only"
)

// IsValid reports whether p is a known savings policy
func (p SavingsPolicy) IsValid() bool {
	return p == SavingsPolicyApproximate || p == SavingsPolicyMonthlyOnly
}

// Includes reports whether programmed contributions of goal are projected under p
func (p SavingsPolicy) Includes(goal *domain.SavingsGoal) bool {
	if goal == nil || !goal.HasRecurringContribution() {
		return false
	}
	if p == SavingsPolicyMonthlyOnly {
		return goal.Frequency() == domain.FrequencyMonthly
	}
	return true
}

// Options tunes projections that depend on configurable policy.
type Options struct {
	SavingsPolicy SavingsPolicy
}

func DefaultOptions() Options {
	return Options{SavingsPolicy: SavingsPolicyApproximate}
}

func (o Options) savingsPolicy() SavingsPolicy {
	if !o.SavingsPolicy.IsValid() {
		return SavingsPolicyApproximate
	}
	return o.SavingsPolicy
}

type SalaryOccurrence struct {
	ScheduleID int32
	Slot       int
	Date       civil.Date
	Amount     decimal.Decimal
}

type ExpenseOccurrence struct {
	ExpenseID   int32
	Date        civil.Date
	Amount      decimal.Decimal
	Description string
	Category    string
}

type SavingsOccurrence struct {
	GoalID   int32
	GoalName string
	Date     civil.Date
	Amount   decimal.Decimal
}

// ExpandSalary yields the paychecks of schedule between start and end inclusive,
// in date order. Pay days past the end of a month fall on its last day. Slots that
// clip onto the same date are merged into one occurrence carrying the first slot
// index and the summed amount. Zero-amount paychecks are never yielded.
func ExpandSalary(schedule *domain.SalarySchedule, start, end civil.Date) iter.Seq[SalaryOccurrence] {
	return func(yield func(SalaryOccurrence) bool) {
		if schedule == nil || end.Before(start) || schedule.Slots() == 0 {
			return
		}
		for _, month := range util.MonthsInRange(start, end) {
			for _, occ := range salaryMonth(schedule, month.Year, month.Month, nil) {
				if !domain.DateInRange(occ.Date, start, end) {
					continue
				}
				if !yield(occ) {
					return
				}
			}
		}
	}
}

// salaryMonth builds the paychecks of one month in date order. Pay days without
// a positional amount are dropped unless fallback supplies one.
func salaryMonth(schedule *domain.SalarySchedule, year int, month time.Month, fallback *decimal.Decimal) []SalaryOccurrence {
	days := schedule.Slots()
	if fallback != nil {
		days = len(schedule.PayDaysOfMonth)
	}
	var out []SalaryOccurrence
	for slot := range days {
		date := util.CalculateActualDate(year, month, schedule.PayDaysOfMonth[slot], util.ClipToMonthEnd)
		amount := paycheckAmount(schedule.PaycheckAmounts, slot, fallback)
		if i := slices.IndexFunc(out, func(o SalaryOccurrence) bool { return o.Date == date }); i >= 0 {
			out[i].Amount = out[i].Amount.Add(amount)
			continue
		}
		out = append(out, SalaryOccurrence{
			ScheduleID: schedule.ID,
			Slot:       slot,
			Date:       date,
			Amount:     amount,
		})
	}
	out = slices.DeleteFunc(out, func(o SalaryOccurrence) bool { return o.Amount.IsZero() })
	slices.SortFunc(out, func(a, b SalaryOccurrence) int { return a.Date.Compare(b.Date) })
	return out
}

func paycheckAmount(amounts []decimal.Decimal, slot int, fallback *decimal.Decimal) decimal.Decimal {
	if slot < len(amounts) {
		return amounts[slot]
	}
	return *fallback
}

// ExpandExpense yields the occurrences of def between start and end inclusive.
// A one-time definition occurs once, on its creation date. A recurring one occurs
// every month on DayOfMonth, never before its creation date nor after EndDate.
// Recurring days are capped at 28 in February and clipped to the month end otherwise.
func ExpandExpense(def *domain.ExpenseDefinition, start, end civil.Date) iter.Seq[ExpenseOccurrence] {
	return func(yield func(ExpenseOccurrence) bool) {
		if def == nil || end.Before(start) {
			return
		}
		occurrence := func(d civil.Date) ExpenseOccurrence {
			return ExpenseOccurrence{
				ExpenseID:   def.ID,
				Date:        d,
				Amount:      def.Amount,
				Description: def.Description,
				Category:    def.Category,
			}
		}

		if !def.Recurring {
			if domain.DateInRange(def.CreatedAt, start, end) {
				yield(occurrence(def.CreatedAt))
			}
			return
		}
		if def.DayOfMonth == nil {
			return
		}

		from := start
		if def.CreatedAt.IsValid() {
			from = domain.MaxDate(start, def.CreatedAt)
		}
		to := end
		if def.EndDate != nil {
			to = domain.MinDate(end, *def.EndDate)
		}
		for _, month := range util.MonthsInRange(from, to) {
			d := util.CalculateActualDate(month.Year, month.Month, *def.DayOfMonth, util.ClipFebruaryTo28)
			if !domain.DateInRange(d, from, to) {
				continue
			}
			if !yield(occurrence(d)) {
				return
			}
		}
	}
}

// nextOccurrenceHorizon covers a full year plus the February cap slack.
const nextOccurrenceHorizon = 400

// NextExpenseOccurrence returns the first occurrence of def on or after from.
func NextExpenseOccurrence(def *domain.ExpenseDefinition, from civil.Date) (civil.Date, bool) {
	for occ := range ExpandExpense(def, from, from.AddDays(nextOccurrenceHorizon)) {
		return occ.Date, true
	}
	return civil.Date{}, false
}

// contributesOn reports whether goal existed on d. Contributions scheduled
// before a goal was created are never projected.
func contributesOn(goal *domain.SavingsGoal, d civil.Date) bool {
	return goal.CreatedAt.IsZero() || !d.Before(civil.DateOf(goal.CreatedAt))
}

// ExpandSavings yields the programmed contributions of goal between start and end
// inclusive, one per month on SavingsContributionDay, starting no earlier than the
// goal's creation date. Goals excluded by policy yield nothing.
func ExpandSavings(goal *domain.SavingsGoal, start, end civil.Date, policy SavingsPolicy) iter.Seq[SavingsOccurrence] {
	return func(yield func(SavingsOccurrence) bool) {
		if end.Before(start) || !policy.Includes(goal) {
			return
		}
		for _, month := range util.MonthsInRange(start, end) {
			d := civil.Date{Year: month.Year, Month: month.Month, Day: SavingsContributionDay}
			if !domain.DateInRange(d, start, end) || !contributesOn(goal, d) {
				continue
			}
			occ := SavingsOccurrence{
				GoalID:   goal.ID,
				GoalName: goal.Name,
				Date:     d,
				Amount:   *goal.RecurringContribution,
			}
			if !yield(occ) {
				return
			}
		}
	}
}
