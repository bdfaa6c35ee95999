// Package testutil provides common test helpers.
package testutil

import (
	"sync"

	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
)

// LogEntry is a single captured log line.
type LogEntry struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// entrySink is shared by a MockLogger and the children it spawns via
// With/Named, so assertions on the root see everything.
type entrySink struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (s *entrySink) append(e LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

// MockLogger implements logging.Logger and records every entry so tests can
// assert on logging behavior.
type MockLogger struct {
	name string
	with []logging.Field
	sink *entrySink
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &entrySink{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := append(append([]logging.Field{}, m.with...), fields...)
	m.sink.append(LogEntry{Level: level, Logger: m.name, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }

// With returns a child logger sharing the same entry sink.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	return &MockLogger{
		name: m.name,
		with: append(append([]logging.Field{}, m.with...), fields...),
		sink: m.sink,
	}
}

// Named returns a child logger sharing the same entry sink.
func (m *MockLogger) Named(name string) logging.Logger {
	child := m.name
	if child == "" {
		child = name
	} else {
		child = child + "." + name
	}
	return &MockLogger{name: child, with: m.with, sink: m.sink}
}

// Entries returns a copy of everything logged so far.
func (m *MockLogger) Entries() []LogEntry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	out := make([]LogEntry, len(m.sink.entries))
	copy(out, m.sink.entries)
	return out
}

// HasMessage reports whether any entry at the given level carries msg.
func (m *MockLogger) HasMessage(level, msg string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}

// Reset discards all captured entries.
func (m *MockLogger) Reset() {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.entries = m.sink.entries[:0]
}
