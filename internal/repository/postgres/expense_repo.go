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

const expenseColumns = `id, workspace_id, description, category, amount, recurring, day_of_month, created_on, end_date, updated_at`

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create creates a new expense definition
func (r *ExpenseRepository) Create(expense *domain.ExpenseDefinition) (*domain.ExpenseDefinition, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO expense_definitions (workspace_id, description, category, amount, recurring, day_of_month, created_on, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+expenseColumns,
		expense.WorkspaceID,
		expense.Description,
		expense.Category,
		amount,
		expense.Recurring,
		intPtrToPgInt2(expense.DayOfMonth),
		civilToPgDate(expense.CreatedAt),
		civilPtrToPgDate(expense.EndDate),
	)
	return scanExpense(row)
}

// GetByID retrieves an expense definition by its ID within a workspace
func (r *ExpenseRepository) GetByID(workspaceID int32, id int32) (*domain.ExpenseDefinition, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+expenseColumns+` FROM expense_definitions WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	return scanExpense(row)
}

// ListByWorkspace retrieves all expense definitions of a workspace
func (r *ExpenseRepository) ListByWorkspace(workspaceID int32) ([]*domain.ExpenseDefinition, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+expenseColumns+` FROM expense_definitions WHERE workspace_id = $1 ORDER BY id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.ExpenseDefinition, error) {
		return scanExpense(row)
	})
}

// Update updates an existing expense definition
func (r *ExpenseRepository) Update(expense *domain.ExpenseDefinition) (*domain.ExpenseDefinition, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE expense_definitions
		 SET description = $3, category = $4, amount = $5, recurring = $6, day_of_month = $7,
		     end_date = $8, updated_at = NOW()
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+expenseColumns,
		expense.WorkspaceID,
		expense.ID,
		expense.Description,
		expense.Category,
		amount,
		expense.Recurring,
		intPtrToPgInt2(expense.DayOfMonth),
		civilPtrToPgDate(expense.EndDate),
	)
	return scanExpense(row)
}

// Delete removes an expense definition; its projected occurrences go with it
func (r *ExpenseRepository) Delete(workspaceID int32, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM expense_definitions WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (*domain.ExpenseDefinition, error) {
	var (
		e          domain.ExpenseDefinition
		amount     pgtype.Numeric
		dayOfMonth pgtype.Int2
		createdOn  pgtype.Date
		endDate    pgtype.Date
	)
	err := row.Scan(&e.ID, &e.WorkspaceID, &e.Description, &e.Category, &amount, &e.Recurring,
		&dayOfMonth, &createdOn, &endDate, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	e.DayOfMonth = pgInt2ToIntPtr(dayOfMonth)
	e.CreatedAt = pgDateToCivil(createdOn)
	e.EndDate = pgDateToCivilPtr(endDate)
	return &e, nil
}
