package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaldefense/plazos/internal/application/deadlines"
	"github.com/legaldefense/plazos/internal/domain/procedure"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
	"github.com/legaldefense/plazos/pkg/errors"
)

type fakeWriter struct {
	messages []segkafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer(w WriterInterface) *Producer {
	return NewProducerWithWriter(w, ProducerConfig{}, logging.NewNopLogger())
}

func TestPublish_WrapsInEnvelope(t *testing.T) {
	writer := &fakeWriter{}
	p := newTestProducer(writer)

	err := p.Publish(context.Background(), TopicDeadlineAlerts, EventTypeDeadlineAlert,
		"sancion_iva", map[string]string{"deadline": "recurso_reposicion"})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, TopicDeadlineAlerts, msg.Topic)
	assert.Equal(t, "sancion_iva", string(msg.Key))

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, EventTypeDeadlineAlert, envelope.EventType)
	assert.Equal(t, "plazos", envelope.Source)
	assert.NotEmpty(t, envelope.EventID)
	assert.Contains(t, string(envelope.Payload), "recurso_reposicion")

	assert.Equal(t, int64(1), p.Metrics().MessagesSent.Load())
}

func TestPublish_RejectsUnknownTopic(t *testing.T) {
	p := newTestProducer(&fakeWriter{})

	err := p.Publish(context.Background(), "otros.eventos", EventTypeDeadlineAlert, "k", "v")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestPublish_WriteFailureCounts(t *testing.T) {
	writer := &fakeWriter{err: assert.AnError}
	p := newTestProducer(writer)

	err := p.Publish(context.Background(), TopicDeadlineAlerts, EventTypeDeadlineAlert, "k", "v")
	require.Error(t, err)
	assert.Equal(t, int64(1), p.Metrics().MessagesFailed.Load())
}

func TestPublish_AfterCloseFails(t *testing.T) {
	writer := &fakeWriter{}
	p := newTestProducer(writer)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
	// Close is idempotent.
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), TopicDeadlineAlerts, EventTypeDeadlineAlert, "k", "v")
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(ProducerConfig{}, logging.NewNopLogger())
	require.Error(t, err)

	p, err := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}}, logging.NewNopLogger())
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 4, p.config.MaxRetries+1)
	assert.Equal(t, time.Second, p.config.BatchTimeout)
}

func TestAlertProducer_PublishAlert(t *testing.T) {
	writer := &fakeWriter{}
	ap := NewAlertProducer(newTestProducer(writer))

	event := &deadlines.AlertEvent{
		ID:            "evt-1",
		DocumentType:  procedure.TypeSancionIVA,
		DeadlineName:  procedure.DeadlineReposicion,
		Due:           time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		RemainingDays: 2,
		Severity:      "alto",
		Message:       "Plazo muy próximo a vencer",
		EmittedAt:     time.Now().UTC(),
	}
	require.NoError(t, ap.PublishAlert(context.Background(), event))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "sancion_iva", string(writer.messages[0].Key))

	err := ap.PublishAlert(context.Background(), nil)
	require.Error(t, err)
}

func TestIsValidTopic(t *testing.T) {
	assert.True(t, IsValidTopic(TopicDeadlineAlerts))
	assert.True(t, IsValidTopic(TopicCalendarUpdated))
	assert.False(t, IsValidTopic("patente.ingerida"))
}
