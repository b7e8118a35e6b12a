package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// DateLayout is the wire format of every calendar date in the API.
const DateLayout = "2006-01-02"

// Today returns the current calendar date in loc. A nil loc means UTC.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now.In(loc))
}

// ParseDate parses a YYYY-MM-DD string without any timezone interpretation.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, ErrInvalidInput
	}
	return d, nil
}

// DateKey normalises a date to its YYYY-MM-DD key.
func DateKey(d civil.Date) string {
	return d.String()
}

// DateInRange reports whether start <= d <= end.
func DateInRange(d, start, end civil.Date) bool {
	return !d.Before(start) && !d.After(end)
}

// MaxDate returns the later of a and b.
func MaxDate(a, b civil.Date) civil.Date {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of a and b.
func MinDate(a, b civil.Date) civil.Date {
	if a.Before(b) {
		return a
	}
	return b
}
