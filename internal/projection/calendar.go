package projection

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Virtual item id prefixes. Real items use the decimal transaction id.
const (
	SalaryItemPrefix    = "salary-"
	RecurringItemPrefix = "recurring-"
	SavingsItemPrefix   = "savings-"
)

type ItemKind string

const (
	ItemIncome  ItemKind = "income"
	ItemExpense ItemKind = "expense"
	ItemSavings ItemKind = "savings"
)

type ItemSource string

const (
	SourceTransaction ItemSource = "transaction"
	SourceSalary      ItemSource = "salary"
	SourceExpense     ItemSource = "expense"
	SourceSavingsGoal ItemSource = "savings_goal"
)

// Item is a single entry on the calendar, either a recorded transaction or a
// projected (virtual) occurrence.
type Item struct {
	ID          string          `json:"id"`
	Date        civil.Date      `json:"date"`
	Kind        ItemKind        `json:"kind"`
	Source      ItemSource      `json:"source"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    *string         `json:"category,omitempty"`
	Virtual     bool            `json:"virtual"`
	SourceID    int32           `json:"sourceId"`
}

// DayTotals aggregates the items of one date.
type DayTotals struct {
	Date    civil.Date      `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
	Items   int             `json:"items"`
}

// Calendar is the merged view of real and virtual items over an inclusive window.
type Calendar struct {
	start  civil.Date
	end    civil.Date
	items  []Item
	byDate map[string][]Item
}

// SalaryItemID builds the id of a projected paycheck
func SalaryItemID(scheduleID int32, date civil.Date, slot int) string {
	return fmt.Sprintf("%s%d-%s-%d", SalaryItemPrefix, scheduleID, date, slot)
}

// RecurringItemID builds the id of a projected bill
func RecurringItemID(expenseID int32, date civil.Date) string {
	return fmt.Sprintf("%s%d-%s", RecurringItemPrefix, expenseID, date)
}

// SavingsItemID builds the id of a projected savings contribution
func SavingsItemID(goalID int32, date civil.Date) string {
	return fmt.Sprintf("%s%d-%s", SavingsItemPrefix, goalID, date)
}

// IsVirtualItemID reports whether id names a projected item
func IsVirtualItemID(id string) bool {
	return strings.HasPrefix(id, SalaryItemPrefix) ||
		strings.HasPrefix(id, RecurringItemPrefix) ||
		strings.HasPrefix(id, SavingsItemPrefix)
}

// ParseTransactionItemID resolves a calendar item id to a transaction id.
// Virtual ids are rejected with ErrVirtualItemNotDeletable.
func ParseTransactionItemID(id string) (int32, error) {
	if IsVirtualItemID(id) {
		return 0, domain.ErrVirtualItemNotDeletable
	}
	n, err := strconv.ParseInt(id, 10, 32)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return int32(n), nil
}

// NewCalendar merges the recorded transactions of snapshot with the projected
// paychecks, bills and savings contributions falling between start and end.
func NewCalendar(snapshot *domain.Snapshot, start, end civil.Date, opts Options) (*Calendar, error) {
	if !snapshot.Ready() {
		return nil, domain.ErrDataNotReady
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}

	var items []Item
	for _, tx := range snapshot.Transactions {
		if !domain.DateInRange(tx.Date, start, end) {
			continue
		}
		items = append(items, Item{
			ID:          strconv.FormatInt(int64(tx.ID), 10),
			Date:        tx.Date,
			Kind:        itemKindOf(tx.Kind),
			Source:      SourceTransaction,
			Amount:      tx.Amount,
			Description: tx.Description,
			Category:    tx.Category,
			SourceID:    tx.ID,
		})
	}

	for occ := range ExpandSalary(snapshot.Salary, start, end) {
		items = append(items, Item{
			ID:          SalaryItemID(occ.ScheduleID, occ.Date, occ.Slot),
			Date:        occ.Date,
			Kind:        ItemIncome,
			Source:      SourceSalary,
			Amount:      occ.Amount,
			Description: "Salary",
			Virtual:     true,
			SourceID:    occ.ScheduleID,
		})
	}

	for _, def := range snapshot.Expenses {
		for occ := range ExpandExpense(def, start, end) {
			category := occ.Category
			items = append(items, Item{
				ID:          RecurringItemID(occ.ExpenseID, occ.Date),
				Date:        occ.Date,
				Kind:        ItemExpense,
				Source:      SourceExpense,
				Amount:      occ.Amount,
				Description: occ.Description,
				Category:    &category,
				Virtual:     true,
				SourceID:    occ.ExpenseID,
			})
		}
	}

	policy := opts.savingsPolicy()
	for _, goal := range snapshot.Goals {
		for occ := range ExpandSavings(goal, start, end, policy) {
			items = append(items, Item{
				ID:          SavingsItemID(occ.GoalID, occ.Date),
				Date:        occ.Date,
				Kind:        ItemSavings,
				Source:      SourceSavingsGoal,
				Amount:      occ.Amount,
				Description: "Contribution to " + occ.GoalName,
				Virtual:     true,
				SourceID:    occ.GoalID,
			})
		}
	}

	slices.SortStableFunc(items, compareItems)

	byDate := make(map[string][]Item)
	for _, item := range items {
		key := domain.DateKey(item.Date)
		byDate[key] = append(byDate[key], item)
	}

	return &Calendar{start: start, end: end, items: items, byDate: byDate}, nil
}

func itemKindOf(kind domain.TransactionKind) ItemKind {
	switch kind {
	case domain.TransactionKindIncome:
		return ItemIncome
	case domain.TransactionKindSavings:
		return ItemSavings
	default:
		return ItemExpense
	}
}

var kindOrder = map[ItemKind]int{ItemIncome: 0, ItemExpense: 1, ItemSavings: 2}

func compareItems(a, b Item) int {
	return cmp.Or(
		a.Date.Compare(b.Date),
		cmp.Compare(kindOrder[a.Kind], kindOrder[b.Kind]),
		cmp.Compare(boolRank(a.Virtual), boolRank(b.Virtual)),
		strings.Compare(a.ID, b.ID),
	)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (c *Calendar) Start() civil.Date { return c.start }

func (c *Calendar) End() civil.Date { return c.end }

// Items returns every item in the window ordered by date
func (c *Calendar) Items() []Item {
	return slices.Clone(c.items)
}

// ItemsForDate returns the items of one day, empty outside the window
func (c *Calendar) ItemsForDate(date civil.Date) []Item {
	return slices.Clone(c.byDate[domain.DateKey(date)])
}

// NetFlow returns income minus expenses and savings for date
func (c *Calendar) NetFlow(date civil.Date) decimal.Decimal {
	return c.totals(date).Net
}

// Days returns per-day totals for every date of the window, including empty days
func (c *Calendar) Days() []DayTotals {
	days := make([]DayTotals, 0, c.end.DaysSince(c.start)+1)
	for d := c.start; !d.After(c.end); d = d.AddDays(1) {
		days = append(days, c.totals(d))
	}
	return days
}

func (c *Calendar) totals(date civil.Date) DayTotals {
	t := DayTotals{
		Date:    date,
		Income:  decimal.Zero,
		Outflow: decimal.Zero,
	}
	for _, item := range c.byDate[domain.DateKey(date)] {
		if item.Kind == ItemIncome {
			t.Income = t.Income.Add(item.Amount)
		} else {
			t.Outflow = t.Outflow.Add(item.Amount)
		}
		t.Items++
	}
	t.Net = t.Income.Sub(t.Outflow)
	return t
}
