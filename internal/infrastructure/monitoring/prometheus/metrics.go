package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Deadline engine
	CalculationsTotal   CounterVec
	CalculationDuration HistogramVec
	AlertsEmittedTotal  CounterVec

	// Holiday calendar
	HolidayCacheHits     CounterVec
	HolidayCacheMisses   CounterVec
	HolidaySourceErrors  CounterVec
	HolidayYearsLoaded   GaugeVec

	// Messaging
	AlertPublishTotal    CounterVec
	AlertPublishDuration HistogramVec

	// System health
	HealthCheckStatus GaugeVec
}

var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultCalcDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1}
)

// NewAppMetrics registers all metrics on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")

	m.CalculationsTotal = collector.RegisterCounter("calculations_total", "Deadline calculations", "document_type", "status")
	m.CalculationDuration = collector.RegisterHistogram("calculation_duration_seconds", "Deadline calculation duration", DefaultCalcDurationBuckets, "document_type")
	m.AlertsEmittedTotal = collector.RegisterCounter("alerts_emitted_total", "Deadline alerts emitted", "severity")

	m.HolidayCacheHits = collector.RegisterCounter("holiday_cache_hits_total", "Holiday lookups served from cache", "source")
	m.HolidayCacheMisses = collector.RegisterCounter("holiday_cache_misses_total", "Holiday lookups resolved upstream", "source")
	m.HolidaySourceErrors = collector.RegisterCounter("holiday_source_errors_total", "Holiday source failures", "source")
	m.HolidayYearsLoaded = collector.RegisterGauge("holiday_years_loaded", "Calendar years with holiday data", "source")

	m.AlertPublishTotal = collector.RegisterCounter("alert_publish_total", "Alert events published to the broker", "status")
	m.AlertPublishDuration = collector.RegisterHistogram("alert_publish_duration_seconds", "Alert publish duration", DefaultHTTPDurationBuckets)

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// RecordHTTPRequest updates the HTTP layer metrics for one handled request.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCalculation updates the engine metrics for one calculation attempt.
func RecordCalculation(m *AppMetrics, documentType string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CalculationsTotal.WithLabelValues(documentType, status).Inc()
	m.CalculationDuration.WithLabelValues(documentType).Observe(duration.Seconds())
}
