package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/service"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation         = "https://safespender.app/errors/validation"
	ErrorTypeNotFound           = "https://safespender.app/errors/not-found"
	ErrorTypeUnauthorized       = "https://safespender.app/errors/unauthorized"
	ErrorTypeVirtualItem        = "https://safespender.app/errors/virtual-item"
	ErrorTypeNotReady           = "https://safespender.app/errors/not-ready"
	ErrorTypeServiceUnavailable = "https://safespender.app/errors/service-unavailable"
	ErrorTypeInternal           = "https://safespender.app/errors/internal"
)

func problem(c echo.Context, status int, errorType, title, detail string) error {
	return c.JSON(status, ProblemDetails{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewFieldError is a validation error about a single field
func NewFieldError(c echo.Context, field, message string) error {
	return NewValidationError(c, "Validation failed", []ValidationError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail)
}

// NewVirtualItemError rejects an operation on a projected calendar item
func NewVirtualItemError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeVirtualItem, "Projected Item", detail)
}

// NewNotReadyError reports that the financial data has not finished loading
func NewNotReadyError(c echo.Context, detail string) error {
	return problem(c, http.StatusServiceUnavailable, ErrorTypeNotReady, "Data Not Ready", detail)
}

// NewServiceUnavailableError reports a feature whose backing service is not configured
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return problem(c, http.StatusServiceUnavailable, ErrorTypeServiceUnavailable, "Service Unavailable", detail)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail)
}

// fieldErrors maps validation sentinels to the request field they concern
var fieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrInvalidAmount, "amount", "Amount must be positive"},
	{domain.ErrNegativeAmount, "amount", "Amount must not be negative"},
	{domain.ErrInvalidTransactionKind, "kind", "Kind must be one of: income, expense, savings"},
	{domain.ErrDescriptionRequired, "description", "Description is required"},
	{domain.ErrDescriptionTooLong, "description", "Description must be 255 characters or less"},
	{domain.ErrCategoryTooLong, "category", "Category must be 100 characters or less"},
	{domain.ErrNameRequired, "name", "Name is required"},
	{domain.ErrNameTooLong, "name", "Name must be 255 characters or less"},
	{domain.ErrDayOfMonthRequired, "dayOfMonth", "Day of month is required for recurring expenses"},
	{domain.ErrInvalidDayOfMonth, "dayOfMonth", "Day of month must be between 1 and 31"},
	{domain.ErrInvalidFrequency, "contributionFrequency", "Frequency must be one of: weekly, biweekly, monthly"},
	{domain.ErrInvalidScheduleType, "scheduleType", "Schedule type must be one of: monthly, biweekly, yearly"},
	{domain.ErrInvalidCurrency, "baseCurrency", "Currency must be a 3-letter ISO code"},
	{domain.ErrInvalidDateRange, "endDate", "End date must not be before start date"},
	{domain.ErrDateRangeTooLarge, "end", "Date range must not exceed 366 days"},
	{domain.ErrExceedsAvailableBalance, "amount", "Amount exceeds what is free to spend"},
	{domain.ErrExceedsGoalBalance, "amount", "Amount exceeds the goal balance"},
	{service.ErrImageTooLarge, "file", "File too large. Maximum size is 5MB"},
	{service.ErrInvalidFormat, "file", "Invalid format. Supported: JPEG, PNG"},
	{service.ErrImageTooSmall, "file", "Image too small. Minimum 32x32 pixels"},
	{service.ErrInvalidImageData, "file", "Invalid image data"},
}

var notFoundErrors = []error{
	domain.ErrNotFound,
	domain.ErrUserNotFound,
	domain.ErrTransactionNotFound,
	domain.ErrExpenseNotFound,
	domain.ErrSavingsGoalNotFound,
	domain.ErrSalaryScheduleNotFound,
	domain.ErrProfileNotFound,
}

// respondError translates a service error into a problem response. Anything
// unrecognised is logged and answered with a generic 500 carrying fallback.
func respondError(c echo.Context, err error, fallback string) error {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return NewFieldError(c, fe.field, fe.message)
		}
	}
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			return NewNotFoundError(c, capitalize(nf.Error()))
		}
	}
	switch {
	case errors.Is(err, domain.ErrVirtualItemNotDeletable):
		return NewVirtualItemError(c, err.Error())
	case errors.Is(err, domain.ErrDataNotReady):
		return NewNotReadyError(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Invalid input", nil)
	case errors.Is(err, service.ErrImageStorageNotConfigured), errors.Is(err, service.ErrExportStorageNotConfigured):
		return NewServiceUnavailableError(c, "Storage is not configured")
	}

	log.Error().Err(err).Int32("workspace_id", middleware.GetWorkspaceID(c)).Msg(fallback)
	return NewInternalError(c, fallback)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
