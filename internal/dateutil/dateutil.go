// Package dateutil provides day-granular date parsing and range helpers.
package dateutil

import (
	"errors"
	"time"
)

// DayFormat is the wire and storage format for calendar days.
const DayFormat = "2006-01-02"

// MonthFormat parses "YYYY-MM" month arguments.
const MonthFormat = "2006-01"

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidMonthFormat = errors.New("month must be in YYYY-MM format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

// ParseDay parses a date string in YYYY-MM-DD format.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseMonth parses "YYYY-MM" and returns the first day of that month.
// An empty string returns the first day of the month containing now.
func ParseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		n := TruncateToDay(now)
		return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(MonthFormat, s)
	if err != nil {
		return time.Time{}, ErrInvalidMonthFormat
	}
	return t, nil
}

// DayKey returns the normalized lookup key for a calendar day.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}

// TruncateToDay returns t with the time portion set to midnight UTC.
// All range math in the engine happens on day-truncated UTC times.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return TruncateToDay(a).Equal(TruncateToDay(b))
}

// DaysBetween returns the number of whole days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	a = TruncateToDay(a)
	b = TruncateToDay(b)
	return int(b.Sub(a).Hours() / 24)
}

// AddDays shifts a date by n calendar days, truncating to midnight UTC.
func AddDays(t time.Time, n int) time.Time {
	return TruncateToDay(t).AddDate(0, 0, n)
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (first, last time.Time) {
	t = TruncateToDay(t)
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// DayRange represents a validated inclusive date range.
type DayRange struct {
	From time.Time
	To   time.Time
}

// NewDayRange parses and validates an inclusive from/to pair.
func NewDayRange(from, to string) (*DayRange, error) {
	f, err := ParseDay(from)
	if err != nil {
		return nil, err
	}
	t, err := ParseDay(to)
	if err != nil {
		return nil, err
	}
	if t.Before(f) {
		return nil, ErrEndDateBeforeStart
	}
	return &DayRange{From: f, To: t}, nil
}

// Days returns the inclusive length of the range in days.
func (r *DayRange) Days() int {
	return DaysBetween(r.From, r.To) + 1
}

// Clamp constrains t into [from, to].
func Clamp(t, from, to time.Time) time.Time {
	if t.Before(from) {
		return from
	}
	if t.After(to) {
		return to
	}
	return t
}
