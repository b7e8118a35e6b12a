package service

import (
	"errors"

	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// SalaryService manages the workspace's single salary schedule
type SalaryService struct {
	eventSource
	salaryRepo domain.SalaryScheduleRepository
}

// NewSalaryService creates a new SalaryService
func NewSalaryService(salaryRepo domain.SalaryScheduleRepository) *SalaryService {
	return &SalaryService{salaryRepo: salaryRepo}
}

// SalaryScheduleInput lists pay days with their paycheck amounts, matched by position
type SalaryScheduleInput struct {
	ScheduleType    domain.ScheduleType
	PayDaysOfMonth  []int
	PaycheckAmounts []decimal.Decimal
}

// GetSchedule returns the schedule, or nil when none is configured
func (s *SalaryService) GetSchedule(workspaceID int32) (*domain.SalarySchedule, error) {
	schedule, err := s.salaryRepo.GetByWorkspace(workspaceID)
	if errors.Is(err, domain.ErrSalaryScheduleNotFound) {
		return nil, nil
	}
	return schedule, err
}

// SaveSchedule creates or replaces the schedule. Arrays of different lengths are
// accepted; only matched positions ever produce a paycheck.
func (s *SalaryService) SaveSchedule(workspaceID int32, input SalaryScheduleInput) (*domain.SalarySchedule, error) {
	scheduleType := input.ScheduleType
	if scheduleType == "" {
		scheduleType = domain.ScheduleMonthly
	}
	if !scheduleType.IsValid() {
		return nil, domain.ErrInvalidScheduleType
	}
	for _, d := range input.PayDaysOfMonth {
		if d < 1 || d > 31 {
			return nil, domain.ErrInvalidDayOfMonth
		}
	}
	for _, a := range input.PaycheckAmounts {
		if a.IsNegative() {
			return nil, domain.ErrNegativeAmount
		}
	}

	days := input.PayDaysOfMonth
	if days == nil {
		days = []int{}
	}
	amounts := input.PaycheckAmounts
	if amounts == nil {
		amounts = []decimal.Decimal{}
	}

	schedule, err := s.salaryRepo.Upsert(&domain.SalarySchedule{
		WorkspaceID:     workspaceID,
		ScheduleType:    scheduleType,
		PayDaysOfMonth:  days,
		PaycheckAmounts: amounts,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(workspaceID, websocket.SalaryScheduleUpdated(schedule))
	return schedule, nil
}

// DeleteSchedule removes the schedule; projections then fall back to recorded income only
func (s *SalaryService) DeleteSchedule(workspaceID int32) error {
	if err := s.salaryRepo.Delete(workspaceID); err != nil {
		return err
	}
	s.publishEvent(workspaceID, websocket.SalaryScheduleDeleted(map[string]int32{"workspaceId": workspaceID}))
	return nil
}
