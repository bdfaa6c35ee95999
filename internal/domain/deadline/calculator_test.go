package deadline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaldefense/plazos/internal/domain/calendar"
	"github.com/legaldefense/plazos/internal/domain/dates"
	"github.com/legaldefense/plazos/internal/domain/procedure"
	"github.com/legaldefense/plazos/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newCalculator(t *testing.T, opts ...Option) *Calculator {
	t.Helper()
	provider := calendar.NewStaticProvider()
	cal, err := calendar.Load(context.Background(), provider, provider.Years(), calendar.DefaultNonWorkingMonths)
	require.NoError(t, err)
	return NewCalculator(cal, procedure.NewRegistry(), opts...)
}

func fixedClock(d time.Time) Option {
	return WithClock(func() time.Time { return d })
}

func TestCalculate_Sancion(t *testing.T) {
	c := newCalculator(t)

	set, err := c.Calculate("sancion_iva", date(2023, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, procedure.TypeSancionIVA, set.Type)
	assert.Empty(t, set.Notice)

	pago, ok := set.Get(procedure.DeadlineVoluntaryPayment)
	require.True(t, ok)
	assert.Equal(t, date(2023, 4, 26), pago.Due)

	reposicion, ok := set.Get(procedure.DeadlineReposicion)
	require.True(t, ok)
	assert.Equal(t, date(2023, 4, 5), reposicion.Due)

	economica, ok := set.Get(procedure.DeadlineEconomicAdmin)
	require.True(t, ok)
	assert.Equal(t, date(2023, 4, 15), economica.Due)

	aplazamiento, ok := set.Get(procedure.DeadlineAplazamiento)
	require.True(t, ok)
	assert.Equal(t, pago.Due, aplazamiento.Due)
}

func TestCalculate_Requerimiento(t *testing.T) {
	c := newCalculator(t)

	set, err := c.Calculate("requerimiento_informacion", date(2023, 3, 15))
	require.NoError(t, err)

	respuesta, ok := set.Get(procedure.DeadlineRespuesta)
	require.True(t, ok)
	assert.Equal(t, date(2023, 3, 29), respuesta.Due)
}

func TestCalculate_LiquidacionEndOfMonth(t *testing.T) {
	c := newCalculator(t)

	set, err := c.Calculate("liquidacion_irpf", date(2024, 1, 31))
	require.NoError(t, err)

	reposicion, ok := set.Get(procedure.DeadlineReposicion)
	require.True(t, ok)
	assert.Equal(t, date(2024, 2, 21), reposicion.Due)

	// One calendar month from 31 Jan 2024 clamps to the leap-year 29 Feb.
	economica, ok := set.Get(procedure.DeadlineEconomicAdmin)
	require.True(t, ok)
	assert.Equal(t, date(2024, 2, 29), economica.Due)
}

func TestCalculate_ActaSkipsAugust(t *testing.T) {
	c := newCalculator(t)

	set, err := c.Calculate("acta_inspeccion", date(2025, 8, 1))
	require.NoError(t, err)

	alegaciones, ok := set.Get(procedure.DeadlineAlegaciones)
	require.True(t, ok)
	assert.Equal(t, date(2025, 9, 19), alegaciones.Due)
}

func TestCalculate_UnknownTypeUsesGeneralRule(t *testing.T) {
	c := newCalculator(t)

	set, err := c.Calculate("comunicacion extraña", date(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, procedure.TypeDesconocido, set.Type)
	assert.NotEmpty(t, set.Notice)

	general, ok := set.Get(procedure.DeadlineGenerico)
	require.True(t, ok)
	assert.Equal(t, date(2025, 3, 24), general.Due)
}

func TestCalculate_ZeroNotificationDate(t *testing.T) {
	c := newCalculator(t)

	_, err := c.Calculate("sancion_iva", time.Time{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingAnchorDate))
}

func TestCalculate_NormalizesTimeOfDay(t *testing.T) {
	c := newCalculator(t)

	noon := time.Date(2023, 3, 15, 12, 30, 0, 0, time.UTC)
	set, err := c.Calculate("requerimiento_generico", noon)
	require.NoError(t, err)
	assert.Equal(t, date(2023, 3, 15), set.NotifiedOn)
}

func TestCalculateFromString(t *testing.T) {
	c := newCalculator(t)

	set, err := c.CalculateFromString("requerimiento_generico", "15 de marzo de 2023")
	require.NoError(t, err)
	respuesta, ok := set.Get(procedure.DeadlineRespuesta)
	require.True(t, ok)
	assert.Equal(t, date(2023, 3, 29), respuesta.Due)

	_, err = c.CalculateFromString("requerimiento_generico", "pronto")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDateParse))
}

func TestSet_Earliest(t *testing.T) {
	c := newCalculator(t)

	set, err := c.Calculate("sancion_generica", date(2023, 3, 15))
	require.NoError(t, err)

	earliest, ok := set.Earliest()
	require.True(t, ok)
	assert.Equal(t, procedure.DeadlineReposicion, earliest.Name)

	empty := &Set{}
	_, ok = empty.Earliest()
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		remaining int
		want      Severity
	}{
		{-10, SeverityExpired},
		{-1, SeverityExpired},
		{0, SeverityCritical},
		{1, SeverityHigh},
		{3, SeverityHigh},
		{4, SeverityMedium},
		{7, SeverityMedium},
		{8, SeverityLow},
		{45, SeverityLow},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.remaining), "remaining=%d", tc.remaining)
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Plazo vencido", Message(SeverityExpired))
	assert.Equal(t, "El plazo vence hoy", Message(SeverityCritical))
	assert.Equal(t, "Plazo muy próximo a vencer", Message(SeverityHigh))
	assert.Equal(t, "Plazo próximo a vencer", Message(SeverityMedium))
	assert.Equal(t, "Plazo en curso", Message(SeverityLow))
}

func TestAlerts_SortedAndGraded(t *testing.T) {
	today := date(2023, 4, 4)
	c := newCalculator(t, fixedClock(today))

	set, err := c.Calculate("sancion_iva", date(2023, 3, 15))
	require.NoError(t, err)

	alerts := c.Alerts(set)
	require.Len(t, alerts, 4)

	// Most urgent first.
	for i := 1; i < len(alerts); i++ {
		assert.False(t, alerts[i].Deadline.Due.Before(alerts[i-1].Deadline.Due))
	}

	// Recurso de reposición expires 5 Apr, one day after the reference date.
	first := alerts[0]
	assert.Equal(t, procedure.DeadlineReposicion, first.Deadline.Name)
	assert.Equal(t, 1, first.RemainingDays)
	assert.Equal(t, SeverityHigh, first.Severity)
	assert.Equal(t, "Plazo muy próximo a vencer", first.Message)
}

func TestAlerts_ExpiredDeadline(t *testing.T) {
	c := newCalculator(t, fixedClock(date(2023, 6, 1)))

	set, err := c.Calculate("requerimiento_generico", date(2023, 3, 15))
	require.NoError(t, err)

	alerts := c.Alerts(set)
	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityExpired, alerts[0].Severity)
	assert.Negative(t, alerts[0].RemainingDays)
	assert.Equal(t, "Plazo vencido", alerts[0].Message)
}

func TestRemainingDays_UsesDateOnly(t *testing.T) {
	now := time.Date(2023, 3, 29, 23, 50, 0, 0, time.UTC)
	c := newCalculator(t, fixedClock(now))

	assert.Equal(t, 0, c.RemainingDays(date(2023, 3, 29)))
	assert.Equal(t, 1, c.RemainingDays(dates.Normalize(date(2023, 3, 30))))
}
