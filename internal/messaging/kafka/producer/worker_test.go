package producer

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-erp/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return nil
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}
func (f *fakeOutboxRepo) PurgeSent(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failKey  string
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == f.failKey {
			return errors.New("broker unavailable")
		}
		f.messages = append(f.messages, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	repo := &fakeOutboxRepo{
		pending: []kafka.OutboxEvent{
			{ID: "o1", AggregateType: "leave", AggregateID: "leave-1", EventType: "leave.requested", Topic: "hr.leave.lifecycle.v1", Payload: []byte(`{}`), RequestID: "req-1"},
			{ID: "o2", AggregateType: "leave", AggregateID: "leave-2", EventType: "leave.reviewed", Topic: "hr.leave.lifecycle.v1", Payload: []byte(`{}`)},
		},
	}
	writer := &fakeWriter{failKey: "leave-2"}

	sent, err := ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"o1"}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed["o2"])

	if assert.Len(t, writer.messages, 1) {
		msg := writer.messages[0]
		assert.Equal(t, "hr.leave.lifecycle.v1", msg.Topic)
		assert.Equal(t, []byte("leave-1"), msg.Key)
		assert.Contains(t, msg.Headers, kafkago.Header{Key: "request_id", Value: []byte("req-1")})
		assert.Contains(t, msg.Headers, kafkago.Header{Key: "event_type", Value: []byte("leave.requested")})
	}
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	sent, err := ProcessPendingEvents(context.Background(), &fakeOutboxRepo{}, &fakeWriter{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Zero(t, sent)
}
