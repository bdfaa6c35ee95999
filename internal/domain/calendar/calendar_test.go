package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaldefense/plazos/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_IsHoliday_IgnoresTimeOfDay(t *testing.T) {
	cal, err := New([]time.Time{date(2025, 12, 25)}, DefaultNonWorkingMonths)
	require.NoError(t, err)

	assert.True(t, cal.IsHoliday(date(2025, 12, 25)))
	assert.True(t, cal.IsHoliday(time.Date(2025, 12, 25, 23, 59, 0, 0, time.UTC)))
	assert.False(t, cal.IsHoliday(date(2025, 12, 24)))
}

func TestCalendar_IsNonWorkingMonth(t *testing.T) {
	cal, err := New(nil, DefaultNonWorkingMonths)
	require.NoError(t, err)

	assert.True(t, cal.IsNonWorkingMonth(date(2025, 8, 1)))
	assert.True(t, cal.IsNonWorkingMonth(date(2025, 8, 31)))
	assert.False(t, cal.IsNonWorkingMonth(date(2025, 7, 31)))
	assert.False(t, cal.IsNonWorkingMonth(date(2025, 9, 1)))
}

func TestNew_RejectsZeroDate(t *testing.T) {
	_, err := New([]time.Time{{}}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCalendarConfig))
}

func TestNew_RejectsInvalidMonth(t *testing.T) {
	_, err := New(nil, []time.Month{time.Month(13)})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCalendarConfig))
}

func TestLoad_MergesYears(t *testing.T) {
	p := NewStaticProvider()
	cal, err := Load(context.Background(), p, []int{2025, 2026}, DefaultNonWorkingMonths)
	require.NoError(t, err)

	assert.True(t, cal.IsHoliday(date(2025, 1, 1)))
	assert.True(t, cal.IsHoliday(date(2026, 4, 3)))
	assert.Equal(t, 20, cal.HolidayCount())
}

func TestStaticProvider_UnknownYearIsEmpty(t *testing.T) {
	p := NewStaticProvider()
	hs, err := p.Holidays(context.Background(), 2023)
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestStaticProvider_RegisterISO(t *testing.T) {
	p := NewStaticProvider()
	err := p.RegisterISO(2027, []string{"2027-01-01", "2027-12-25"})
	require.NoError(t, err)

	hs, err := p.Holidays(context.Background(), 2027)
	require.NoError(t, err)
	assert.Len(t, hs, 2)
	assert.Contains(t, p.Years(), 2027)
}

func TestStaticProvider_RegisterISO_Malformed(t *testing.T) {
	p := NewStaticProvider()

	err := p.RegisterISO(2027, []string{"01/01/2027"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCalendarConfig))

	err = p.RegisterISO(2027, []string{"2026-01-01"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCalendarConfig))
}
