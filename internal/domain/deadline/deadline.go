package deadline

import (
	"time"

	"github.com/legaldefense/plazos/internal/domain/procedure"
)

// Severity grades how urgent a deadline is for the taxpayer.
type Severity string

const (
	SeverityExpired  Severity = "vencido"
	SeverityCritical Severity = "critico"
	SeverityHigh     Severity = "alto"
	SeverityMedium   Severity = "medio"
	SeverityLow      Severity = "bajo"
)

// Entry is one computed deadline within a procedure.
type Entry struct {
	Name  string
	Label string
	Due   time.Time
}

// Set holds every deadline derived from a single notification.
type Set struct {
	Type       procedure.Type
	Label      string
	NotifiedOn time.Time
	Entries    []Entry

	// Notice is non-empty when the general fallback rule was applied
	// because the document type was not recognized.
	Notice string
}

// Get returns the entry with the given name.
func (s *Set) Get(name string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Earliest returns the entry that expires first. The second return value is
// false for an empty set.
func (s *Set) Earliest() (Entry, bool) {
	if len(s.Entries) == 0 {
		return Entry{}, false
	}
	min := s.Entries[0]
	for _, e := range s.Entries[1:] {
		if e.Due.Before(min.Due) {
			min = e
		}
	}
	return min, true
}

// Alert pairs a deadline with its urgency relative to a reference date.
type Alert struct {
	Deadline      Entry
	RemainingDays int
	Severity      Severity
	Message       string
}

// Classify grades a deadline by the natural days left until it expires.
func Classify(remainingDays int) Severity {
	switch {
	case remainingDays < 0:
		return SeverityExpired
	case remainingDays == 0:
		return SeverityCritical
	case remainingDays <= 3:
		return SeverityHigh
	case remainingDays <= 7:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Message returns the standard Spanish status line for a severity grade.
func Message(s Severity) string {
	switch s {
	case SeverityExpired:
		return "Plazo vencido"
	case SeverityCritical:
		return "El plazo vence hoy"
	case SeverityHigh:
		return "Plazo muy próximo a vencer"
	case SeverityMedium:
		return "Plazo próximo a vencer"
	default:
		return "Plazo en curso"
	}
}
