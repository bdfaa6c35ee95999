package prometheus

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaldefense/plazos/pkg/errors"
)

func newCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "plazos"}, nil)
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestCollector_ExposesMetrics(t *testing.T) {
	c := newCollector(t)

	counter := c.RegisterCounter("calculations_total", "Total calculations", "type", "status")
	counter.WithLabelValues("sancion_iva", "ok").Inc()
	counter.WithLabelValues("sancion_iva", "ok").Add(2)

	gauge := c.RegisterGauge("years_loaded", "Loaded years", "source")
	gauge.WithLabelValues("static").Set(2)

	hist := c.RegisterHistogram("calc_duration_seconds", "Calc duration", DefaultCalcDurationBuckets, "type")
	hist.WithLabelValues("sancion_iva").Observe(0.002)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `plazos_calculations_total{status="ok",type="sancion_iva"} 3`)
	assert.Contains(t, out, `plazos_years_loaded{source="static"} 2`)
	assert.Contains(t, out, "plazos_calc_duration_seconds_bucket")
}

func TestCollector_DeduplicatesByName(t *testing.T) {
	c := newCollector(t)

	first := c.RegisterCounter("hits_total", "Hits", "source")
	second := c.RegisterCounter("hits_total", "Hits", "source")

	first.WithLabelValues("redis").Inc()
	second.WithLabelValues("redis").Inc()

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// Both handles feed the same series.
	assert.Contains(t, string(body), `plazos_hits_total{source="redis"} 2`)
	assert.Equal(t, 1, strings.Count(string(body), "# HELP plazos_hits_total"))
}

func TestAppMetrics_Helpers(t *testing.T) {
	c := newCollector(t)
	m := NewAppMetrics(c)

	RecordHTTPRequest(m, "POST", "/api/v1/plazos", 200, 5*time.Millisecond)
	RecordCalculation(m, "sancion_iva", nil, time.Millisecond)
	RecordCalculation(m, "sancion_iva", assert.AnError, time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	out := string(body)
	assert.Contains(t, out, `status_code="200"`)
	assert.Contains(t, out, `status="ok"`)
	assert.Contains(t, out, `status="error"`)
}

func TestAppMetrics_HelpersNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest(nil, "GET", "/", 200, time.Millisecond)
		RecordCalculation(nil, "x", nil, time.Millisecond)
	})
}
