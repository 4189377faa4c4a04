package localtime

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day or zone attached.
// It identifies the user-day that events and sessions are filed under.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the date components of t as observed in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, &ParseError{Input: s, Reason: "expected date as YYYY-MM-DD"}
	}
	return DateOf(t), nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays returns the date n days after d (n may be negative).
// Normalization is delegated to the time package, so month and year
// boundaries carry correctly.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return DateOf(t)
}

// DaysSince returns the number of whole days from other to d.
// Positive when d is later than other.
func (d Date) DaysSince(other Date) int {
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(other.Year, other.Month, other.Day, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b) / (24 * time.Hour))
}

// Before reports whether d is chronologically before other.
func (d Date) Before(other Date) bool {
	return d.DaysSince(other) < 0
}

// After reports whether d is chronologically after other.
func (d Date) After(other Date) bool {
	return d.DaysSince(other) > 0
}

// Weekday returns the day of the week for d.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// StartOfWeek returns the Monday of the week containing d.
func (d Date) StartOfWeek() Date {
	// Weekday is Sunday-based; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// StartOfMonth returns the first day of the month containing d.
func (d Date) StartOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}
