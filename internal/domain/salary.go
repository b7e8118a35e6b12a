package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ScheduleType string

const (
	ScheduleMonthly  ScheduleType = "monthly"
	ScheduleBiweekly ScheduleType = "biweekly"
	ScheduleYearly   ScheduleType = "yearly"
)

// IsValid reports whether t is one of the known schedule types
func (t ScheduleType) IsValid() bool {
	switch t {
	case ScheduleMonthly, ScheduleBiweekly, ScheduleYearly:
		return true
	}
	return false
}

// SalarySchedule lists the pay days of every month with their paycheck amounts.
// PaycheckAmounts[i] belongs to PayDaysOfMonth[i].
type SalarySchedule struct {
	ID              int32             `json:"id"`
	WorkspaceID     int32             `json:"workspaceId"`
	ScheduleType    ScheduleType      `json:"scheduleType"`
	PayDaysOfMonth  []int             `json:"payDaysOfMonth"`
	PaycheckAmounts []decimal.Decimal `json:"paycheckAmounts"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Slots returns the number of positionally matched (day, amount) pairs
func (s *SalarySchedule) Slots() int {
	return min(len(s.PayDaysOfMonth), len(s.PaycheckAmounts))
}

// MeanPaycheck returns the arithmetic mean of all configured paycheck amounts
func (s *SalarySchedule) MeanPaycheck() decimal.Decimal {
	if len(s.PaycheckAmounts) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, s.PaycheckAmounts...).
		Div(decimal.NewFromInt(int64(len(s.PaycheckAmounts))))
}

type SalaryScheduleRepository interface {
	// GetByWorkspace returns ErrSalaryScheduleNotFound when none is configured
	GetByWorkspace(workspaceID int32) (*SalarySchedule, error)
	Upsert(schedule *SalarySchedule) (*SalarySchedule, error)
	Delete(workspaceID int32) error
}
