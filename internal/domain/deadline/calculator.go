package deadline

import (
	"sort"
	"time"

	"github.com/legaldefense/plazos/internal/domain/dates"
	"github.com/legaldefense/plazos/internal/domain/procedure"
	"github.com/legaldefense/plazos/pkg/errors"
)

// Calculator derives the deadline set of a notified tax document from the
// working calendar and the procedure rule table.
type Calculator struct {
	cal      dates.WorkingCalendar
	registry procedure.Registry
	now      func() time.Time
}

// Option customizes a Calculator.
type Option func(*Calculator)

// WithClock overrides the reference clock used for remaining-day counts.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// NewCalculator builds a Calculator over the given calendar and rule table.
func NewCalculator(cal dates.WorkingCalendar, registry procedure.Registry, opts ...Option) *Calculator {
	c := &Calculator{
		cal:      cal,
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate computes every deadline of the document's procedure, counted
// from the notification date.
func (c *Calculator) Calculate(docType string, notifiedOn time.Time) (*Set, error) {
	if notifiedOn.IsZero() {
		return nil, errors.New(errors.ErrCodeMissingAnchorDate,
			"se necesita la fecha de notificación para calcular plazos")
	}

	profile := c.registry.Resolve(docType)
	anchor := dates.Normalize(notifiedOn)

	set := &Set{
		Type:       profile.Type,
		Label:      profile.Label,
		NotifiedOn: anchor,
		Entries:    make([]Entry, 0, len(profile.Rules)),
		Notice:     profile.Notice,
	}

	for _, rule := range profile.Rules {
		var (
			due time.Time
			err error
		)
		if rule.Months > 0 {
			due, err = dates.AddMonths(anchor, rule.Months)
		} else {
			due, err = dates.AddBusinessDays(c.cal, anchor, rule.BusinessDays)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDeadlineComputeFailed,
				"no se pudo calcular el plazo "+rule.Name)
		}
		set.Entries = append(set.Entries, Entry{Name: rule.Name, Label: rule.Label, Due: due})
	}

	return set, nil
}

// CalculateFromString parses the notification date before computing, so the
// caller can hand over the raw text extracted from a document.
func (c *Calculator) CalculateFromString(docType, rawDate string) (*Set, error) {
	notifiedOn, err := dates.ParseNotificationDate(rawDate)
	if err != nil {
		return nil, err
	}
	return c.Calculate(docType, notifiedOn)
}

// RemainingDays counts the natural days from today until due. Negative
// values mean the deadline already passed.
func (c *Calculator) RemainingDays(due time.Time) int {
	return dates.DaysBetween(c.now(), due)
}

// Alerts grades every deadline of the set against today, most urgent first.
func (c *Calculator) Alerts(set *Set) []Alert {
	alerts := make([]Alert, 0, len(set.Entries))
	for _, e := range set.Entries {
		remaining := c.RemainingDays(e.Due)
		severity := Classify(remaining)
		alerts = append(alerts, Alert{
			Deadline:      e,
			RemainingDays: remaining,
			Severity:      severity,
			Message:       Message(severity),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Deadline.Due.Before(alerts[j].Deadline.Due)
	})
	return alerts
}
