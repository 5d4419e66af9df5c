package accrual

import (
	"math"
	"time"

	leaveerrors "go-erp/internal/leave/errors"
)

// DateLayout is the wire format for every date exchanged with the store.
const DateLayout = "2006-01-02"

// Date drops the clock part of t, keeping its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, n int) time.Time {
	return Date(t).AddDate(0, 0, n)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Date(t).Format(DateLayout)
}

func daysBetween(end, start time.Time) float64 {
	return Date(end).Sub(Date(start)).Hours() / 24
}

// ComputeDuration counts the calendar days of the inclusive range start..end.
// Callers normalize reversed ranges first; see NormalizeRange.
func ComputeDuration(start, end time.Time) int {
	return int(math.Ceil(daysBetween(end, start))) + 1
}

// NormalizeRange returns the two dates earliest first.
func NormalizeRange(a, b time.Time) (time.Time, time.Time) {
	a, b = Date(a), Date(b)
	if b.Before(a) {
		return b, a
	}
	return a, b
}

func CheckRange(start, end time.Time) error {
	if Date(end).Before(Date(start)) {
		return leaveerrors.ErrInvalidDateRange
	}
	return nil
}
