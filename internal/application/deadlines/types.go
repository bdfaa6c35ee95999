package deadlines

import (
	"context"
	"net/url"
	"time"

	"github.com/legaldefense/plazos/internal/domain/deadline"
	"github.com/legaldefense/plazos/internal/domain/procedure"
)

// CalculateRequest asks for the deadline set of one notified document.
// NotificationDate accepts any of the formats listed by
// dates.AcceptedFormats, matching what document extraction produces.
type CalculateRequest struct {
	DocumentType     string `json:"document_type"`
	NotificationDate string `json:"notification_date"`
}

// DeadlineDTO is the wire form of a single computed deadline.
type DeadlineDTO struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	Due           string `json:"due"`
	DueLong       string `json:"due_long"`
	RemainingDays int    `json:"remaining_days"`
	Severity      string `json:"severity"`
	Status        string `json:"status"`
}

// CalculateResult is the full answer to a calculation request.
type CalculateResult struct {
	DocumentType     string        `json:"document_type"`
	Label            string        `json:"label"`
	NotificationDate string        `json:"notification_date"`
	Deadlines        []DeadlineDTO `json:"deadlines"`
	Notice           string        `json:"notice,omitempty"`
	LegalLinks       LegalLinks    `json:"legal_links"`
}

// AlertDTO is the wire form of one urgency-graded deadline.
type AlertDTO struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	Due           string `json:"due"`
	RemainingDays int    `json:"remaining_days"`
	Severity      string `json:"severity"`
	Message       string `json:"message"`
}

// AlertsResult lists alerts most urgent first.
type AlertsResult struct {
	DocumentType string     `json:"document_type"`
	Alerts       []AlertDTO `json:"alerts"`
	Notice       string     `json:"notice,omitempty"`
}

// HolidaysResult lists the non-working dates known for one year.
type HolidaysResult struct {
	Year     int      `json:"year"`
	Holidays []string `json:"holidays"`
}

// LegalLinks points at the public Spanish legal databases, pre-filled with a
// search for the procedure at hand.
type LegalLinks struct {
	BOE      string `json:"boe"`
	CENDOJ   string `json:"cendoj"`
	AEAT     string `json:"aeat"`
	Tributos string `json:"tributos"`
}

// BuildLegalLinks assembles search URLs for the given term.
func BuildLegalLinks(term string) LegalLinks {
	encoded := url.QueryEscape(term)
	return LegalLinks{
		BOE:      "https://www.boe.es/buscar/?q=" + encoded,
		CENDOJ:   "https://www.poderjudicial.es/search/indexAN.jsp?tipoBusqueda=CONTENIDO&contenido=" + encoded,
		AEAT:     "https://sede.agenciatributaria.gob.es/Sede/consulta-vinculante.html?q=" + encoded,
		Tributos: "https://petete.minhafp.gob.es/consultas/?texto=" + encoded,
	}
}

// AlertEvent is the message published to the broker when a deadline needs
// attention.
type AlertEvent struct {
	ID            string         `json:"id"`
	DocumentType  procedure.Type `json:"document_type"`
	DeadlineName  string         `json:"deadline_name"`
	Due           time.Time      `json:"due"`
	RemainingDays int            `json:"remaining_days"`
	Severity      string         `json:"severity"`
	Message       string         `json:"message"`
	EmittedAt     time.Time      `json:"emitted_at"`
}

// AlertPublisher forwards alert events to the messaging layer.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, event *AlertEvent) error
}

func severityNeedsPublishing(s deadline.Severity) bool {
	switch s {
	case deadline.SeverityExpired, deadline.SeverityCritical, deadline.SeverityHigh:
		return true
	default:
		return false
	}
}
