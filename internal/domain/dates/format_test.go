package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatISO(t *testing.T) {
	assert.Equal(t, "2025-03-05", FormatISO(date(2025, 3, 5)))
}

func TestFormatShort(t *testing.T) {
	assert.Equal(t, "05/03/2025", FormatShort(date(2025, 3, 5)))
}

func TestFormatLong(t *testing.T) {
	assert.Equal(t, "15 de agosto de 2025", FormatLong(date(2025, 8, 15)))
	assert.Equal(t, "1 de enero de 2026", FormatLong(date(2026, 1, 1)))
	assert.Equal(t, "29 de febrero de 2024", FormatLong(date(2024, 2, 29)))
}

func TestFormatLong_RoundTrip(t *testing.T) {
	for _, d := range []struct{ y, m, day int }{
		{2025, 1, 3},
		{2025, 9, 30},
		{2026, 12, 25},
	} {
		in := date(d.y, time.Month(d.m), d.day)
		got, err := ParseNotificationDate(FormatLong(in))
		assert.NoError(t, err)
		assert.Equal(t, in, got)
	}
}
