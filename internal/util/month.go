package util

import (
	"time"

	"cloud.google.com/go/civil"
)

// ClipPolicy decides which day a target day-of-month lands on when the month is shorter
type ClipPolicy int

const (
	// ClipToMonthEnd moves days past the end of the month to the month's last day
	ClipToMonthEnd ClipPolicy = iota
	// ClipFebruaryTo28 behaves like ClipToMonthEnd but caps February at day 28 even in
	// leap years. Recurring expenses have always been projected this way.
	ClipFebruaryTo28
)

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CalculateActualDate returns the date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in April returns April 30)
func CalculateActualDate(year int, month time.Month, targetDay int, policy ClipPolicy) civil.Date {
	lastDay := DaysInMonth(year, month)
	if policy == ClipFebruaryTo28 && month == time.February {
		lastDay = 28
	}

	actualDay := targetDay
	if actualDay > lastDay {
		actualDay = lastDay
	}
	if actualDay < 1 {
		actualDay = 1
	}

	return civil.Date{Year: year, Month: month, Day: actualDay}
}

// MonthStart returns the first day of d's month
func MonthStart(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthEnd returns the last day of d's month
func MonthEnd(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: DaysInMonth(d.Year, d.Month)}
}

// NextMonth returns the year and month after the given one
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// MonthsInRange returns the first day of every month touched by [start, end].
// It returns nil when end is before start.
func MonthsInRange(start, end civil.Date) []civil.Date {
	if end.Before(start) {
		return nil
	}

	var months []civil.Date
	year, month := start.Year, start.Month
	for {
		first := civil.Date{Year: year, Month: month, Day: 1}
		if first.After(end) {
			break
		}
		months = append(months, first)
		year, month = NextMonth(year, month)
	}
	return months
}
