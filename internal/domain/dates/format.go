package dates

import (
	"fmt"
	"time"
)

var spanishMonthNames = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// FormatISO renders d as YYYY-MM-DD for machine comparison and storage.
func FormatISO(d time.Time) string {
	return d.Format("2006-01-02")
}

// FormatShort renders d as DD/MM/YYYY, the compact Spanish display form.
func FormatShort(d time.Time) string {
	return d.Format("02/01/2006")
}

// FormatLong renders d in the Spanish long form used for citizen-facing
// display, e.g. "15 de agosto de 2025".
func FormatLong(d time.Time) string {
	return fmt.Sprintf("%d de %s de %d", d.Day(), spanishMonthNames[d.Month()], d.Year())
}
