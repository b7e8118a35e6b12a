package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternalError     = errors.New("internal error")
	ErrUserNotFound      = errors.New("user not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name exceeds maximum length")

	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
	ErrCategoryTooLong        = errors.New("category exceeds maximum length")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrDateRangeTooLarge      = errors.New("date range exceeds the maximum window")

	ErrExpenseNotFound    = errors.New("expense definition not found")
	ErrInvalidDayOfMonth  = errors.New("day of month must be between 1 and 31")
	ErrDayOfMonthRequired = errors.New("day of month is required for recurring expenses")

	ErrSavingsGoalNotFound     = errors.New("savings goal not found")
	ErrInvalidFrequency        = errors.New("invalid contribution frequency")
	ErrExceedsAvailableBalance = errors.New("amount exceeds the available balance")
	ErrExceedsGoalBalance      = errors.New("amount exceeds the goal balance")

	ErrSalaryScheduleNotFound = errors.New("salary schedule not found")
	ErrInvalidScheduleType    = errors.New("invalid schedule type")

	ErrProfileNotFound = errors.New("financial profile not found")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter ISO code")

	// ErrDataNotReady is returned when a projection is requested before every
	// required collection has been loaded.
	ErrDataNotReady = errors.New("financial data is still loading")

	// ErrVirtualItemNotDeletable is returned when a caller tries to delete a projected
	// calendar item. The originating definition has to be changed instead.
	ErrVirtualItemNotDeletable = errors.New("projected items cannot be deleted; edit the salary schedule, recurring expense or savings goal instead")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 255
	MaxCategoryLength    = 100
)
