// Package calendar supplies the set of dates and months excluded from
// business-day counting in Spanish administrative procedures.
package calendar

import (
	"context"
	"time"

	"github.com/legaldefense/plazos/pkg/errors"
)

// isoDate is the key format used for O(1) holiday membership tests.
// Deadlines compare calendar dates only; time-of-day never participates.
const isoDate = "2006-01-02"

// DefaultNonWorkingMonths lists the months treated as fully non-working for
// deadline purposes.  August is inhábil for AEAT administrative deadlines
// regardless of weekday.
var DefaultNonWorkingMonths = []time.Month{time.August}

// Calendar is the immutable registry of non-working dates and months.
// It is loaded once at process start and is safe for concurrent reads.
type Calendar struct {
	holidays         map[string]struct{}
	nonWorkingMonths map[time.Month]struct{}
}

// New constructs a Calendar from an explicit holiday list and the months to
// exclude entirely.  A zero time in the holiday list indicates a malformed
// source and yields an ErrCodeCalendarConfig error.
func New(holidays []time.Time, nonWorkingMonths []time.Month) (*Calendar, error) {
	c := &Calendar{
		holidays:         make(map[string]struct{}, len(holidays)),
		nonWorkingMonths: make(map[time.Month]struct{}, len(nonWorkingMonths)),
	}
	for _, h := range holidays {
		if h.IsZero() {
			return nil, errors.New(errors.ErrCodeCalendarConfig, "holiday list contains a zero date")
		}
		c.holidays[h.Format(isoDate)] = struct{}{}
	}
	for _, m := range nonWorkingMonths {
		if m < time.January || m > time.December {
			return nil, errors.Newf(errors.ErrCodeCalendarConfig, "invalid non-working month %d", int(m))
		}
		c.nonWorkingMonths[m] = struct{}{}
	}
	return c, nil
}

// Load builds a Calendar by pulling the holiday set for each requested year
// from the given provider.  Years with no registered holidays contribute
// nothing; provider failures abort the load.
func Load(ctx context.Context, p HolidayProvider, years []int, nonWorkingMonths []time.Month) (*Calendar, error) {
	var all []time.Time
	for _, y := range years {
		hs, err := p.Holidays(ctx, y)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeHolidaySourceFailed,
				"failed to load holiday calendar for year")
		}
		all = append(all, hs...)
	}
	return New(all, nonWorkingMonths)
}

// IsHoliday reports whether the calendar date of d is a registered holiday.
func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[d.Format(isoDate)]
	return ok
}

// IsNonWorkingMonth reports whether d falls inside a fully excluded month.
func (c *Calendar) IsNonWorkingMonth(d time.Time) bool {
	_, ok := c.nonWorkingMonths[d.Month()]
	return ok
}

// HolidayCount returns the number of registered holiday dates.
func (c *Calendar) HolidayCount() int {
	return len(c.holidays)
}
