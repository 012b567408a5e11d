package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ceodigitcare/bizledger/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
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

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	writer := &fakeWriter{}
	p := &KafkaPublisher{writer: writer}

	created := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), &domain.OutboxEvent{
		ID:            "evt-1",
		TenantID:      "tenant-a",
		AggregateType: domain.AggregateTypeDocument,
		AggregateID:   "doc-1",
		EventType:     domain.EventTypeDocumentStatusChanged,
		Payload:       map[string]any{"from": "draft", "to": "paid"},
		CreatedAt:     created,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(writer.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]

	if string(msg.Key) != "doc-1" {
		t.Fatalf("expected aggregate id key, got %q", msg.Key)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[0].Value) != domain.EventTypeDocumentStatusChanged {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}

	var decoded eventMessage
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("invalid message value: %v", err)
	}
	if decoded.TenantID != "tenant-a" || decoded.Payload["to"] != "paid" || !decoded.CreatedAt.Equal(created) {
		t.Fatalf("unexpected message %+v", decoded)
	}
}

func TestKafkaPublisherPropagatesWriteError(t *testing.T) {
	writeErr := errors.New("broker unavailable")
	p := &KafkaPublisher{writer: &fakeWriter{err: writeErr}}

	err := p.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1"})
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestKafkaPublisherClose(t *testing.T) {
	writer := &fakeWriter{}
	p := &KafkaPublisher{writer: writer}

	if err := p.Close(); err != nil || !writer.closed {
		t.Fatalf("expected writer to be closed, err=%v", err)
	}
}
