package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
	TransactionKindSavings TransactionKind = "savings"
)

// IsValid reports whether k is one of the known kinds
func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindIncome, TransactionKindExpense, TransactionKindSavings:
		return true
	}
	return false
}

// Transaction is a single persisted money movement. Savings transactions referencing a goal
// are an audit log of contributions; the goal's CurrentAmount stays authoritative.
type Transaction struct {
	ID          int32           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	Kind        TransactionKind `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	Category    *string         `json:"category,omitempty"`
	GoalID      *int32          `json:"goalId,omitempty"`
	Reserved    bool            `json:"reserved"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type TransactionFilters struct {
	From *civil.Date
	To   *civil.Date
	Kind *TransactionKind
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(workspaceID int32, id int32) (*Transaction, error)
	ListByWorkspace(workspaceID int32, filters *TransactionFilters) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(workspaceID int32, id int32) error
}
