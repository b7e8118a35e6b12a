package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ExpenseDefinition is a bill the user expects to pay. One-time definitions occur on
// CreatedAt; recurring ones repeat monthly on DayOfMonth until EndDate.
type ExpenseDefinition struct {
	ID             int32           `json:"id"`
	WorkspaceID    int32           `json:"workspaceId"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Recurring      bool            `json:"recurring"`
	DayOfMonth     *int            `json:"dayOfMonth,omitempty"`
	CreatedAt      civil.Date      `json:"createdAt"`
	NextOccurrence *civil.Date     `json:"nextOccurrence,omitempty"`
	EndDate        *civil.Date     `json:"endDate,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type ExpenseRepository interface {
	Create(expense *ExpenseDefinition) (*ExpenseDefinition, error)
	GetByID(workspaceID int32, id int32) (*ExpenseDefinition, error)
	ListByWorkspace(workspaceID int32) ([]*ExpenseDefinition, error)
	Update(expense *ExpenseDefinition) (*ExpenseDefinition, error)
	Delete(workspaceID int32, id int32) error
}
