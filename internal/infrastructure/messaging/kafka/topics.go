package kafka

import (
	"encoding/json"
	"time"
)

// Topic constants.
const (
	TopicDeadlineAlerts   = "plazos.deadline.alerts"
	TopicCalendarUpdated  = "plazos.calendar.updated"
	TopicDeadLetterAlerts = "plazos.dead_letter.alerts"
)

// EventEnvelope standardizes event messages on every topic.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// Event types carried on TopicDeadlineAlerts.
const (
	EventTypeDeadlineAlert   = "deadline.alert"
	EventTypeCalendarUpdated = "calendar.updated"
)

const schemaVersion = "1.0"

// ValidTopics lists every topic the service writes to.
func ValidTopics() []string {
	return []string{TopicDeadlineAlerts, TopicCalendarUpdated, TopicDeadLetterAlerts}
}

// IsValidTopic reports whether the producer may write to topic.
func IsValidTopic(topic string) bool {
	for _, t := range ValidTopics() {
		if t == topic {
			return true
		}
	}
	return false
}
