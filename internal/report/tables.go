package report

import (
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with two decimals and its currency code
func FormatAmount(d decimal.Decimal, currency string) string {
	if currency == "" {
		return d.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", d.StringFixed(2), currency)
}

func formatDate(d *civil.Date) string {
	if d == nil {
		return text.FgHiBlack.Sprint("-")
	}
	return d.String()
}

// PrintSummaryTable outputs the free-to-spend summary as a two-column table
func PrintSummaryTable(w io.Writer, s projection.Summary, currency string) {
	if s.Status == projection.StatusLoading {
		fmt.Fprintln(w, "Financial data is still loading")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Summary as of %s", s.Today)

	free := text.FgGreen.Sprint(FormatAmount(s.FreeToSpend, currency))
	if s.OverBudget {
		free = text.FgRed.Sprint(FormatAmount(s.FreeToSpend, currency))
	}

	t.AppendRows([]table.Row{
		{"Total income", FormatAmount(s.TotalIncome, currency)},
		{"Reserved for bills", FormatAmount(s.ReservedForBills, currency)},
		{"Assigned to savings", FormatAmount(s.AssignedToSavings, currency)},
		{"Current balance", FormatAmount(s.CurrentBalance, currency)},
		{"Last income", formatDate(s.LastIncomeDate)},
		{"Next income", formatDate(s.NextIncomeDate)},
	})
	if s.NextIncomeAmount != nil {
		t.AppendRow(table.Row{"Next paycheck", FormatAmount(*s.NextIncomeAmount, currency)})
	}
	if s.DailyAllowance != nil {
		t.AppendRow(table.Row{"Daily allowance", FormatAmount(*s.DailyAllowance, currency)})
	}
	if !s.HasSalarySchedule {
		t.AppendRow(table.Row{"Salary schedule", text.FgYellow.Sprint("not configured")})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Free to spend"), text.Bold.Sprint(free)})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	t.Render()
}

// PrintCalendarTable outputs every calendar item followed by the window totals
func PrintCalendarTable(w io.Writer, cal *projection.Calendar, currency string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Calendar %s to %s", cal.Start(), cal.End())
	t.AppendHeader(table.Row{"Date", "Kind", "Description", "Amount", ""})

	income, outflow := decimal.Zero, decimal.Zero
	for _, item := range cal.Items() {
		amount := FormatAmount(item.Amount, currency)
		switch item.Kind {
		case projection.ItemIncome:
			income = income.Add(item.Amount)
			amount = text.FgGreen.Sprint(amount)
		default:
			outflow = outflow.Add(item.Amount)
		}

		marker := ""
		if item.Virtual {
			marker = text.FgHiBlack.Sprint("projected")
		}
		t.AppendRow(table.Row{item.Date.String(), string(item.Kind), item.Description, amount, marker})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Income"), text.Bold.Sprint(FormatAmount(income, currency)), ""})
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Outflow"), text.Bold.Sprint(FormatAmount(outflow, currency)), ""})
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Net"), text.Bold.Sprint(FormatAmount(income.Sub(outflow), currency)), ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	t.Render()
}
