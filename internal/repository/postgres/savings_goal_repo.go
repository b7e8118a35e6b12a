package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const savingsGoalColumns = `id, workspace_id, name, icon, icon_image_path, target_amount, current_amount,
	recurring_contribution, contribution_frequency, created_at, updated_at`

// SavingsGoalRepository implements domain.SavingsGoalRepository using PostgreSQL
type SavingsGoalRepository struct {
	pool *pgxpool.Pool
}

// NewSavingsGoalRepository creates a new SavingsGoalRepository
func NewSavingsGoalRepository(pool *pgxpool.Pool) *SavingsGoalRepository {
	return &SavingsGoalRepository{pool: pool}
}

// Create creates a new savings goal
func (r *SavingsGoalRepository) Create(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	params, err := savingsGoalParams(goal)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO savings_goals (workspace_id, name, icon, icon_image_path, target_amount, current_amount,
		                            recurring_contribution, contribution_frequency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+savingsGoalColumns,
		goal.WorkspaceID, goal.Name, goal.Icon, stringPtrToPgText(goal.IconImagePath),
		params.target, params.current, params.contribution, params.frequency,
	)
	return scanSavingsGoal(row)
}

// GetByID retrieves a savings goal by its ID within a workspace
func (r *SavingsGoalRepository) GetByID(workspaceID int32, id int32) (*domain.SavingsGoal, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+savingsGoalColumns+` FROM savings_goals WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	return scanSavingsGoal(row)
}

// ListByWorkspace retrieves all savings goals of a workspace
func (r *SavingsGoalRepository) ListByWorkspace(workspaceID int32) ([]*domain.SavingsGoal, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+savingsGoalColumns+` FROM savings_goals WHERE workspace_id = $1 ORDER BY id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.SavingsGoal, error) {
		return scanSavingsGoal(row)
	})
}

// Update updates an existing savings goal
func (r *SavingsGoalRepository) Update(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	params, err := savingsGoalParams(goal)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE savings_goals
		 SET name = $3, icon = $4, icon_image_path = $5, target_amount = $6, current_amount = $7,
		     recurring_contribution = $8, contribution_frequency = $9, updated_at = NOW()
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+savingsGoalColumns,
		goal.WorkspaceID, goal.ID, goal.Name, goal.Icon, stringPtrToPgText(goal.IconImagePath),
		params.target, params.current, params.contribution, params.frequency,
	)
	return scanSavingsGoal(row)
}

// AdjustCurrentAmount adds delta to the goal's current amount in a single statement
func (r *SavingsGoalRepository) AdjustCurrentAmount(workspaceID int32, id int32, delta decimal.Decimal) (*domain.SavingsGoal, error) {
	pgDelta, err := decimalToPgNumeric(delta)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE savings_goals
		 SET current_amount = current_amount + $3, updated_at = NOW()
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+savingsGoalColumns,
		workspaceID, id, pgDelta)
	goal, err := scanSavingsGoal(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return nil, domain.ErrExceedsGoalBalance
		}
		return nil, err
	}
	return goal, nil
}

// Delete removes a savings goal; logged contributions keep their rows with goal_id cleared
func (r *SavingsGoalRepository) Delete(workspaceID int32, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM savings_goals WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSavingsGoalNotFound
	}
	return nil
}

type goalParams struct {
	target       pgtype.Numeric
	current      pgtype.Numeric
	contribution pgtype.Numeric
	frequency    pgtype.Text
}

func savingsGoalParams(goal *domain.SavingsGoal) (goalParams, error) {
	var (
		p   goalParams
		err error
	)
	if p.target, err = decimalToPgNumeric(goal.TargetAmount); err != nil {
		return p, fmt.Errorf("invalid target amount: %w", err)
	}
	if p.current, err = decimalToPgNumeric(goal.CurrentAmount); err != nil {
		return p, fmt.Errorf("invalid current amount: %w", err)
	}
	if p.contribution, err = decimalPtrToPgNumeric(goal.RecurringContribution); err != nil {
		return p, fmt.Errorf("invalid recurring contribution: %w", err)
	}
	if goal.ContributionFrequency != nil {
		p.frequency = pgtype.Text{String: string(*goal.ContributionFrequency), Valid: true}
	}
	return p, nil
}

func scanSavingsGoal(row pgx.Row) (*domain.SavingsGoal, error) {
	var (
		g             domain.SavingsGoal
		iconImagePath pgtype.Text
		target        pgtype.Numeric
		current       pgtype.Numeric
		contribution  pgtype.Numeric
		frequency     pgtype.Text
	)
	err := row.Scan(&g.ID, &g.WorkspaceID, &g.Name, &g.Icon, &iconImagePath, &target, &current,
		&contribution, &frequency, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSavingsGoalNotFound
		}
		return nil, err
	}
	g.IconImagePath = pgTextToStringPtr(iconImagePath)
	g.TargetAmount = pgNumericToDecimal(target)
	g.CurrentAmount = pgNumericToDecimal(current)
	g.RecurringContribution = pgNumericToDecimalPtr(contribution)
	if frequency.Valid {
		f := domain.ContributionFrequency(frequency.String)
		g.ContributionFrequency = &f
	}
	return &g, nil
}
