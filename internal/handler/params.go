package handler

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// parseIDParam reads a positive int32 path parameter
func parseIDParam(c echo.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// parseDate parses a YYYY-MM-DD value
func parseDate(value string) (civil.Date, bool) {
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, false
	}
	return d, true
}

// parseOptionalDate parses an optional YYYY-MM-DD value. Empty means absent.
func parseOptionalDate(value *string) (*civil.Date, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	d, ok := parseDate(*value)
	if !ok {
		return nil, false
	}
	return &d, true
}

// parseAmount parses a decimal amount sent as a string
func parseAmount(value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseOptionalAmount parses an optional decimal string
func parseOptionalAmount(value *string) (*decimal.Decimal, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	d, ok := parseAmount(*value)
	if !ok {
		return nil, false
	}
	return &d, true
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatOptionalAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := formatAmount(*d)
	return &s
}

func formatOptionalDate(d *civil.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// dateQuery reads a required YYYY-MM-DD query parameter. It writes nothing;
// a rejected value comes back as the ValidationError to respond with.
func dateQuery(c echo.Context, name string) (civil.Date, *ValidationError) {
	value := c.QueryParam(name)
	if value == "" {
		return civil.Date{}, &ValidationError{Field: name, Message: "Required, in YYYY-MM-DD format"}
	}
	d, ok := parseDate(value)
	if !ok {
		return civil.Date{}, &ValidationError{Field: name, Message: "Must be in YYYY-MM-DD format"}
	}
	return d, nil
}
