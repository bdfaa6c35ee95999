// Package dates implements the pure calendar-date arithmetic every deadline
// rule is built on: business-day classification, business-day advancement
// with weekend/holiday/August exclusion, and month addition with end-of-month
// clamping.
package dates

import (
	"time"

	"github.com/legaldefense/plazos/pkg/errors"
)

// WorkingCalendar answers the two exclusion questions business-day counting
// needs.  *calendar.Calendar satisfies it.
type WorkingCalendar interface {
	IsHoliday(d time.Time) bool
	IsNonWorkingMonth(d time.Time) bool
}

// maxSkipRun bounds the iteration of AddBusinessDays per requested business
// day.  The longest possible run of consecutive non-business days is the
// excluded month (31 days) flanked by weekends and holidays, far below this
// bound; hitting it means the calendar configuration is pathological.
const maxSkipRun = 366

// Normalize strips the time-of-day and location from d, returning midnight
// UTC of the same calendar date.  All arithmetic in this package operates on
// normalized dates.
func Normalize(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay reports whether d counts toward administrative deadlines:
// not a Saturday or Sunday, not a registered holiday, and not inside an
// excluded month.
func IsBusinessDay(cal WorkingCalendar, d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if cal.IsNonWorkingMonth(d) {
		return false
	}
	return !cal.IsHoliday(d)
}

// AddBusinessDays advances n business days from d and returns the date on
// which the n-th business day is reached.  The starting date itself never
// counts; the result is strictly after d and is itself a business day.
// n = 0 therefore rolls forward to the next business day.
//
// A zero d or negative n is a caller bug and fails with ErrCodeInvalidDate;
// bad arguments are never silently echoed back.
func AddBusinessDays(cal WorkingCalendar, d time.Time, n int) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, errors.New(errors.ErrCodeInvalidDate, "cannot add business days to a zero date")
	}
	if n < 0 {
		return time.Time{}, errors.Newf(errors.ErrCodeInvalidDate, "business-day count must be ≥ 0, got %d", n)
	}

	cur := Normalize(d)
	counted := 0
	for iter := 0; iter < maxSkipRun*(n+1); iter++ {
		cur = cur.AddDate(0, 0, 1)
		if !IsBusinessDay(cal, cur) {
			continue
		}
		counted++
		// n ≥ 1 stops on the n-th business day; n = 0 stops on the first.
		if counted == n || n == 0 {
			return cur, nil
		}
	}
	return time.Time{}, errors.Newf(errors.ErrCodeInvalidDate,
		"no business day found within %d calendar days of %s", maxSkipRun*(n+1), FormatISO(d))
}

// AddMonths advances the month field of d by n, preserving the day-of-month
// where valid.  When the target month is shorter than the source day, the
// result clamps to the last day of the target month (31 Jan + 1 month =
// 28/29 Feb) instead of overflowing into the following month.
func AddMonths(d time.Time, n int) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, errors.New(errors.ErrCodeInvalidDate, "cannot add months to a zero date")
	}

	nd := Normalize(d)
	year, month := nd.Year(), int(nd.Month())+n
	// Bring month into 1..12, carrying into the year.
	year += (month - 1) / 12
	month = (month-1)%12 + 1
	if month < 1 {
		month += 12
		year--
	}

	day := nd.Day()
	if last := daysIn(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the signed number of calendar days from 'from' to 'to',
// comparing calendar dates only.  This is intentionally a natural-day count:
// deadlines are computed in business days, but the remaining time until one
// is always expressed in natural days.
func DaysBetween(from, to time.Time) int {
	f, t := Normalize(from), Normalize(to)
	return int(t.Sub(f).Hours() / 24)
}
