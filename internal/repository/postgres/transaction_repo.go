package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safespender/safespender-backend/internal/domain"
)

const transactionColumns = `id, workspace_id, kind, amount, date, description, category, goal_id, reserved, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (workspace_id, kind, amount, date, description, category, goal_id, reserved)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+transactionColumns,
		transaction.WorkspaceID,
		string(transaction.Kind),
		amount,
		civilToPgDate(transaction.Date),
		transaction.Description,
		stringPtrToPgText(transaction.Category),
		int32PtrToPgInt4(transaction.GoalID),
		transaction.Reserved,
	)
	created, err := scanTransaction(row)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrSavingsGoalNotFound
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a transaction by its ID within a workspace
func (r *TransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	return scanTransaction(row)
}

// ListByWorkspace retrieves transactions for a workspace with optional filters, oldest first
func (r *TransactionRepository) ListByWorkspace(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	where := []string{"workspace_id = $1"}
	args := []any{workspaceID}
	if filters != nil {
		if filters.From != nil {
			args = append(args, civilToPgDate(*filters.From))
			where = append(where, fmt.Sprintf("date >= $%d", len(args)))
		}
		if filters.To != nil {
			args = append(args, civilToPgDate(*filters.To))
			where = append(where, fmt.Sprintf("date <= $%d", len(args)))
		}
		if filters.Kind != nil {
			args = append(args, string(*filters.Kind))
			where = append(where, fmt.Sprintf("kind = $%d", len(args)))
		}
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY date, id`, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Transaction, error) {
		return scanTransaction(row)
	})
}

// Update updates an existing transaction
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE transactions
		 SET kind = $3, amount = $4, date = $5, description = $6, category = $7, goal_id = $8,
		     reserved = $9, updated_at = NOW()
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+transactionColumns,
		transaction.WorkspaceID,
		transaction.ID,
		string(transaction.Kind),
		amount,
		civilToPgDate(transaction.Date),
		transaction.Description,
		stringPtrToPgText(transaction.Category),
		int32PtrToPgInt4(transaction.GoalID),
		transaction.Reserved,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrSavingsGoalNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a single transaction
func (r *TransactionRepository) Delete(workspaceID int32, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM transactions WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t        domain.Transaction
		kind     string
		amount   pgtype.Numeric
		date     pgtype.Date
		category pgtype.Text
		goalID   pgtype.Int4
	)
	err := row.Scan(&t.ID, &t.WorkspaceID, &kind, &amount, &date, &t.Description, &category, &goalID,
		&t.Reserved, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	t.Kind = domain.TransactionKind(kind)
	t.Amount = pgNumericToDecimal(amount)
	t.Date = pgDateToCivil(date)
	t.Category = pgTextToStringPtr(category)
	t.GoalID = pgInt4ToInt32Ptr(goalID)
	return &t, nil
}
