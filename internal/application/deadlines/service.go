package deadlines

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/legaldefense/plazos/internal/domain/calendar"
	"github.com/legaldefense/plazos/internal/domain/dates"
	"github.com/legaldefense/plazos/internal/domain/deadline"
	"github.com/legaldefense/plazos/internal/domain/procedure"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/prometheus"
	"github.com/legaldefense/plazos/pkg/errors"
)

// Service exposes the deadline engine to the HTTP and CLI interfaces.
type Service interface {
	Calculate(ctx context.Context, req *CalculateRequest) (*CalculateResult, error)
	Alerts(ctx context.Context, req *CalculateRequest) (*AlertsResult, error)
	Holidays(ctx context.Context, year int) (*HolidaysResult, error)
	ExportICal(ctx context.Context, req *CalculateRequest) ([]byte, error)
	Procedures() []procedure.Type
}

type serviceImpl struct {
	calculator *deadline.Calculator
	registry   *procedure.InMemoryRegistry
	provider   calendar.HolidayProvider
	publisher  AlertPublisher
	metrics    *prometheus.AppMetrics
	logger     logging.Logger
}

// ServiceOption customizes the service.
type ServiceOption func(*serviceImpl)

// WithAlertPublisher forwards urgent alerts to the messaging layer.
func WithAlertPublisher(p AlertPublisher) ServiceOption {
	return func(s *serviceImpl) { s.publisher = p }
}

// WithMetrics records engine metrics.
func WithMetrics(m *prometheus.AppMetrics) ServiceOption {
	return func(s *serviceImpl) { s.metrics = m }
}

// NewService wires the deadline engine.
func NewService(
	calculator *deadline.Calculator,
	registry *procedure.InMemoryRegistry,
	provider calendar.HolidayProvider,
	logger logging.Logger,
	opts ...ServiceOption,
) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		calculator: calculator,
		registry:   registry,
		provider:   provider,
		logger:     logger.Named("deadlines"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate computes the full deadline set and dresses it for transport.
func (s *serviceImpl) Calculate(ctx context.Context, req *CalculateRequest) (*CalculateResult, error) {
	if req == nil {
		return nil, errors.Validation("request must not be nil")
	}

	started := time.Now()
	set, err := s.calculator.CalculateFromString(req.DocumentType, req.NotificationDate)
	prometheus.RecordCalculation(s.metrics, req.DocumentType, err, time.Since(started))
	if err != nil {
		s.logger.Warn("calculation failed",
			logging.String("document_type", req.DocumentType),
			logging.Err(err))
		return nil, err
	}

	alerts := s.calculator.Alerts(set)
	result := &CalculateResult{
		DocumentType:     string(set.Type),
		Label:            set.Label,
		NotificationDate: dates.FormatISO(set.NotifiedOn),
		Deadlines:        make([]DeadlineDTO, 0, len(alerts)),
		Notice:           set.Notice,
		LegalLinks:       BuildLegalLinks(set.Label),
	}
	for _, a := range alerts {
		result.Deadlines = append(result.Deadlines, DeadlineDTO{
			Name:          a.Deadline.Name,
			Label:         a.Deadline.Label,
			Due:           dates.FormatISO(a.Deadline.Due),
			DueLong:       dates.FormatLong(a.Deadline.Due),
			RemainingDays: a.RemainingDays,
			Severity:      string(a.Severity),
			Status:        a.Message,
		})
	}

	s.logger.Debug("calculation complete",
		logging.String("document_type", result.DocumentType),
		logging.Int("deadlines", len(result.Deadlines)))
	return result, nil
}

// Alerts grades the deadline set and publishes the urgent entries.
func (s *serviceImpl) Alerts(ctx context.Context, req *CalculateRequest) (*AlertsResult, error) {
	if req == nil {
		return nil, errors.Validation("request must not be nil")
	}

	set, err := s.calculator.CalculateFromString(req.DocumentType, req.NotificationDate)
	if err != nil {
		return nil, err
	}

	alerts := s.calculator.Alerts(set)
	result := &AlertsResult{
		DocumentType: string(set.Type),
		Alerts:       make([]AlertDTO, 0, len(alerts)),
		Notice:       set.Notice,
	}
	for _, a := range alerts {
		result.Alerts = append(result.Alerts, AlertDTO{
			Name:          a.Deadline.Name,
			Label:         a.Deadline.Label,
			Due:           dates.FormatISO(a.Deadline.Due),
			RemainingDays: a.RemainingDays,
			Severity:      string(a.Severity),
			Message:       a.Message,
		})
		if s.metrics != nil {
			s.metrics.AlertsEmittedTotal.WithLabelValues(string(a.Severity)).Inc()
		}
		s.publish(ctx, set, a)
	}
	return result, nil
}

// publish forwards one urgent alert; delivery failures are logged, never
// surfaced, so a broker outage cannot block a calculation.
func (s *serviceImpl) publish(ctx context.Context, set *deadline.Set, a deadline.Alert) {
	if s.publisher == nil || !severityNeedsPublishing(a.Severity) {
		return
	}
	event := &AlertEvent{
		ID:            uuid.NewString(),
		DocumentType:  set.Type,
		DeadlineName:  a.Deadline.Name,
		Due:           a.Deadline.Due,
		RemainingDays: a.RemainingDays,
		Severity:      string(a.Severity),
		Message:       a.Message,
		EmittedAt:     time.Now().UTC(),
	}
	if err := s.publisher.PublishAlert(ctx, event); err != nil {
		s.logger.Error("alert publish failed",
			logging.String("deadline", a.Deadline.Name),
			logging.Err(err))
	}
}

// Holidays lists the known non-working dates of a year.
func (s *serviceImpl) Holidays(ctx context.Context, year int) (*HolidaysResult, error) {
	if year < 1900 || year > 2200 {
		return nil, errors.Newf(errors.ErrCodeYearOutOfRange, "year %d out of range", year)
	}

	days, err := s.provider.Holidays(ctx, year)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHolidaySourceFailed, "holiday lookup failed")
	}

	result := &HolidaysResult{Year: year, Holidays: make([]string, 0, len(days))}
	for _, d := range days {
		result.Holidays = append(result.Holidays, dates.FormatISO(d))
	}
	return result, nil
}

// ExportICal renders the deadline set as an iCalendar document with one
// all-day event per deadline and a reminder three days ahead.
func (s *serviceImpl) ExportICal(ctx context.Context, req *CalculateRequest) ([]byte, error) {
	if req == nil {
		return nil, errors.Validation("request must not be nil")
	}

	set, err := s.calculator.CalculateFromString(req.DocumentType, req.NotificationDate)
	if err != nil {
		return nil, err
	}
	return buildICalData(set), nil
}

// Procedures lists every recognized document type.
func (s *serviceImpl) Procedures() []procedure.Type {
	return s.registry.List()
}

func buildICalData(set *deadline.Set) []byte {
	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	buf.WriteString("VERSION:2.0\r\n")
	buf.WriteString("PRODID:-//LegalDefense//Plazos AEAT//ES\r\n")
	buf.WriteString("CALSCALE:GREGORIAN\r\n")
	buf.WriteString("METHOD:PUBLISH\r\n")

	for _, e := range set.Entries {
		buf.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&buf, "UID:%s-%s@legaldefense\r\n", set.Type, e.Name)
		fmt.Fprintf(&buf, "DTSTART;VALUE=DATE:%s\r\n", e.Due.Format("20060102"))
		fmt.Fprintf(&buf, "DTEND;VALUE=DATE:%s\r\n", e.Due.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(&buf, "SUMMARY:%s\r\n", e.Label)
		fmt.Fprintf(&buf, "DESCRIPTION:Notificación del %s\r\n", dates.FormatLong(set.NotifiedOn))
		fmt.Fprintf(&buf, "CATEGORIES:%s\r\n", set.Type)
		buf.WriteString("BEGIN:VALARM\r\n")
		buf.WriteString("ACTION:DISPLAY\r\n")
		buf.WriteString("TRIGGER:-P3D\r\n")
		fmt.Fprintf(&buf, "DESCRIPTION:Recordatorio: %s\r\n", e.Label)
		buf.WriteString("END:VALARM\r\n")
		buf.WriteString("END:VEVENT\r\n")
	}

	buf.WriteString("END:VCALENDAR\r\n")
	return buf.Bytes()
}
