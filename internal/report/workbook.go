package report

import (
	"fmt"
	"io"

	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/xuri/excelize/v2"
)

const (
	calendarSheet = "Calendar"
	dailySheet    = "Daily"
	summarySheet  = "Summary"

	// XLSXContentType is the MIME type of generated workbooks
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// NewCalendarWorkbook builds a workbook with one row per calendar item, one row per day
// and, when summary is non-nil, the headline figures.
func NewCalendarWorkbook(cal *projection.Calendar, summary *projection.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), calendarSheet); err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, calendarSheet, 1, []any{"Date", "Kind", "Description", "Category", "Amount", "Projected", "ID"}); err != nil {
		return nil, err
	}
	items := cal.Items()
	for i, item := range items {
		category := ""
		if item.Category != nil {
			category = *item.Category
		}
		row := []any{item.Date.String(), string(item.Kind), item.Description, category,
			item.Amount.InexactFloat64(), item.Virtual, item.ID}
		if err := writeRow(f, calendarSheet, i+2, row); err != nil {
			return nil, err
		}
	}
	if len(items) > 0 {
		if err := f.SetCellStyle(calendarSheet, "E2", fmt.Sprintf("E%d", len(items)+1), money); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, dailySheet, 1, []any{"Date", "Income", "Outflow", "Net", "Items"}); err != nil {
		return nil, err
	}
	days := cal.Days()
	for i, day := range days {
		row := []any{day.Date.String(), day.Income.InexactFloat64(), day.Outflow.InexactFloat64(),
			day.Net.InexactFloat64(), day.Items}
		if err := writeRow(f, dailySheet, i+2, row); err != nil {
			return nil, err
		}
	}
	if len(days) > 0 {
		if err := f.SetCellStyle(dailySheet, "B2", fmt.Sprintf("D%d", len(days)+1), money); err != nil {
			return nil, err
		}
	}

	if summary != nil {
		if err := writeSummarySheet(f, *summary, money); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func writeSummarySheet(f *excelize.File, s projection.Summary, money int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]any{
		{"As of", s.Today.String()},
		{"Total income", s.TotalIncome.InexactFloat64()},
		{"Reserved for bills", s.ReservedForBills.InexactFloat64()},
		{"Assigned to savings", s.AssignedToSavings.InexactFloat64()},
		{"Free to spend", s.FreeToSpend.InexactFloat64()},
		{"Current balance", s.CurrentBalance.InexactFloat64()},
	}
	if s.NextIncomeDate != nil {
		rows = append(rows, []any{"Next income", s.NextIncomeDate.String()})
	}
	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(summarySheet, "B2", "B6", money)
}

// writeRow writes values into row starting at column A
func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// WriteCalendarWorkbook renders the calendar workbook to w
func WriteCalendarWorkbook(w io.Writer, cal *projection.Calendar, summary *projection.Summary) error {
	f, err := NewCalendarWorkbook(cal, summary)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveCalendarWorkbook renders the calendar workbook to the file at path
func SaveCalendarWorkbook(path string, cal *projection.Calendar, summary *projection.Summary) error {
	f, err := NewCalendarWorkbook(cal, summary)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
