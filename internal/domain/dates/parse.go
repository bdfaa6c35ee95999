package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/legaldefense/plazos/pkg/errors"
)

// AcceptedFormats names every notification-date format the engine accepts.
// The list is surfaced verbatim in DateParse errors so the caller can
// re-prompt the user.
var AcceptedFormats = []string{
	"DD/MM/YYYY",
	"DD-MM-YYYY",
	"YYYY-MM-DD",
	`"15 de agosto de 2024"`,
}

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// "15 de agosto de 2024", case-insensitive, tolerant of extra spacing.
var longFormRe = regexp.MustCompile(`^(\d{1,2})\s+de\s+([a-záéíóúñ]+)\s+de\s+(\d{4})$`)

// ParseNotificationDate converts the textual notification date extracted from
// a document into a normalized calendar date.  Unparseable input fails with
// an ErrCodeDateParse error naming the accepted formats; the legacy behavior
// of silently returning the input is deliberately not preserved.
func ParseNotificationDate(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, errors.New(errors.ErrCodeMissingAnchorDate,
			"se necesita la fecha de notificación para calcular plazos")
	}

	switch {
	case strings.Contains(raw, "/"):
		if d, err := time.ParseInLocation("02/01/2006", raw, time.UTC); err == nil {
			return d, nil
		}
	case strings.Contains(raw, "-"):
		// YYYY-MM-DD when the first segment is a year, DD-MM-YYYY otherwise.
		layout := "02-01-2006"
		if i := strings.Index(raw, "-"); i == 4 {
			layout = "2006-01-02"
		}
		if d, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return d, nil
		}
	default:
		if d, ok := parseSpanishLongForm(raw); ok {
			return d, nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeDateParse,
		"fecha de notificación no reconocida: %q", raw).
		WithDetail("formatos aceptados: " + strings.Join(AcceptedFormats, ", "))
}

func parseSpanishLongForm(raw string) (time.Time, bool) {
	m := longFormRe.FindStringSubmatch(strings.ToLower(raw))
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := spanishMonths[m[2]]
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])
	if day < 1 || day > daysIn(year, month) {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// ParseISO parses a YYYY-MM-DD string as produced by FormatISO.
func ParseISO(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Newf(errors.ErrCodeDateParse, "invalid ISO date %q", s)
	}
	return d, nil
}
