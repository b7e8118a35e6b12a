package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safespender/safespender-backend/internal/domain"
)

const salaryScheduleColumns = `id, workspace_id, schedule_type, pay_days_of_month, paycheck_amounts, updated_at`

// SalaryScheduleRepository implements domain.SalaryScheduleRepository using PostgreSQL.
// A workspace has at most one schedule.
type SalaryScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewSalaryScheduleRepository creates a new SalaryScheduleRepository
func NewSalaryScheduleRepository(pool *pgxpool.Pool) *SalaryScheduleRepository {
	return &SalaryScheduleRepository{pool: pool}
}

// GetByWorkspace retrieves the workspace's salary schedule
func (r *SalaryScheduleRepository) GetByWorkspace(workspaceID int32) (*domain.SalarySchedule, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+salaryScheduleColumns+` FROM salary_schedules WHERE workspace_id = $1`, workspaceID)
	return scanSalarySchedule(row)
}

// Upsert creates or replaces the workspace's salary schedule
func (r *SalaryScheduleRepository) Upsert(schedule *domain.SalarySchedule) (*domain.SalarySchedule, error) {
	amounts, err := decimalsToPgNumerics(schedule.PaycheckAmounts)
	if err != nil {
		return nil, fmt.Errorf("invalid paycheck amount: %w", err)
	}
	days := make([]int32, len(schedule.PayDaysOfMonth))
	for i, d := range schedule.PayDaysOfMonth {
		days[i] = int32(d)
	}

	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO salary_schedules (workspace_id, schedule_type, pay_days_of_month, paycheck_amounts)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (workspace_id) DO UPDATE
		   SET schedule_type = EXCLUDED.schedule_type,
		       pay_days_of_month = EXCLUDED.pay_days_of_month,
		       paycheck_amounts = EXCLUDED.paycheck_amounts,
		       updated_at = NOW()
		 RETURNING `+salaryScheduleColumns,
		schedule.WorkspaceID, string(schedule.ScheduleType), days, amounts)
	return scanSalarySchedule(row)
}

// Delete removes the workspace's salary schedule
func (r *SalaryScheduleRepository) Delete(workspaceID int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM salary_schedules WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSalaryScheduleNotFound
	}
	return nil
}

func scanSalarySchedule(row pgx.Row) (*domain.SalarySchedule, error) {
	var (
		s            domain.SalarySchedule
		scheduleType string
		days         []int32
		amounts      []pgtype.Numeric
	)
	err := row.Scan(&s.ID, &s.WorkspaceID, &scheduleType, &days, &amounts, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSalaryScheduleNotFound
		}
		return nil, err
	}
	s.ScheduleType = domain.ScheduleType(scheduleType)
	s.PayDaysOfMonth = make([]int, len(days))
	for i, d := range days {
		s.PayDaysOfMonth[i] = int(d)
	}
	s.PaycheckAmounts = pgNumericsToDecimals(amounts)
	return &s, nil
}
