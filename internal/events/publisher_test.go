package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatermillPublisherOverGoChannel(t *testing.T) {
	logger := testLogger()
	pubsub := NewGoChannelPubSub(8, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubsub.Subscribe(ctx, "sessions")
	require.NoError(t, err)

	publisher := NewWatermillEventPublisher(pubsub, "sessions", logger)
	event := NewSessionEvent(EventSessionStarted, "user-1", "tok", SessionStartedData{
		Variant:        models.VariantInterview,
		Category:       "technical",
		TotalQuestions: 3,
	})
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, "session.started", msg.Metadata.Get("event_type"))
		assert.Equal(t, "user-1", msg.Metadata.Get("owner_id"))

		var decoded SessionEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, "tok", decoded.SessionToken)
		assert.Equal(t, EventSessionStarted, decoded.Type)
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}

	require.NoError(t, publisher.Close())
}

func TestLogEventPublisherKeepsNothing(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	publisher := NewLogEventPublisher(logger)

	for i := 0; i < 1000; i++ {
		event := NewSessionEvent(EventAnswerSubmitted, "user-1", "tok", nil)
		require.NoError(t, publisher.Publish(context.Background(), event))
	}

	assert.Equal(t, LogEventPublisher{logger: logger}, *publisher)
	assert.Contains(t, buf.String(), "event_type=answer.submitted")
	assert.NoError(t, publisher.Close())
}

func TestAsyncPublisherDeliversQueuedEventsOnClose(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())
	async := NewAsyncPublisher(mock, 16, time.Second, testLogger())

	for i := 0; i < 5; i++ {
		require.NoError(t, async.Publish(context.Background(), NewSessionEvent(EventAnswerSubmitted, "u", "t", nil)))
	}
	require.NoError(t, async.Close())

	assert.Len(t, mock.GetPublishedEvents(), 5)
	assert.Error(t, async.Publish(context.Background(), NewSessionEvent(EventAnswerSubmitted, "u", "t", nil)))
	assert.NoError(t, async.Close())
}

type blockingPublisher struct {
	release chan struct{}
	calls   chan struct{}
}

func (b *blockingPublisher) Publish(ctx context.Context, _ *SessionEvent) error {
	b.calls <- struct{}{}
	<-b.release
	return errors.New("broker unavailable")
}

func (b *blockingPublisher) Close() error { return nil }

func TestAsyncPublisherDropsWhenBufferFull(t *testing.T) {
	next := &blockingPublisher{release: make(chan struct{}), calls: make(chan struct{}, 8)}
	async := NewAsyncPublisher(next, 1, time.Second, testLogger())

	require.NoError(t, async.Publish(context.Background(), NewSessionEvent(EventSessionStarted, "u", "t", nil)))
	<-next.calls // worker holds the first event

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = async.Publish(context.Background(), NewSessionEvent(EventSessionStarted, "u", "t", nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}

	close(next.release)
	require.NoError(t, async.Close())
}
