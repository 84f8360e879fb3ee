// Package schedule projects each developer's ranked ticket queue forward in
// working days and flags the tickets that will miss their ETA.
package schedule

import (
	"errors"
	"time"
)

// ErrNegativeDays is returned when asked to move a date backwards.
var ErrNegativeDays = errors.New("working days must not be negative")

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddWorkingDays advances start by exactly days business days (Mon-Fri).
// Weekend days are stepped over and do not count toward days. Zero days
// returns start unchanged, even when start is itself a weekend day.
func AddWorkingDays(start time.Time, days int) (time.Time, error) {
	if days < 0 {
		return start, ErrNegativeDays
	}
	result := start
	for added := 0; added < days; {
		result = result.AddDate(0, 0, 1)
		if !IsWeekend(result) {
			added++
		}
	}
	return result, nil
}

// WorkingDaysBetween counts business days in (from, to]. It returns a
// negative count when to is before from.
func WorkingDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return -WorkingDaysBetween(to, from)
	}
	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			n++
		}
	}
	return n
}
