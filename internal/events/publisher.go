package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher defines the interface for publishing session events
type EventPublisher interface {
	Publish(ctx context.Context, event *SessionEvent) error
	Close() error
}

// WatermillEventPublisher publishes JSON encoded events to one topic of any
// watermill publisher.
type WatermillEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the Kafka publisher
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaEventPublisher creates a Kafka backed publisher using Watermill
func NewKafkaEventPublisher(config PublisherConfig) (*WatermillEventPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return NewWatermillEventPublisher(publisher, config.TopicName, config.Logger), nil
}

// NewGoChannelPubSub creates the in-process pub/sub used when no broker is configured
func NewGoChannelPubSub(buffer int, logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(buffer),
	}, watermill.NewSlogLogger(logger))
}

func NewWatermillEventPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillEventPublisher {
	return &WatermillEventPublisher{
		publisher: publisher,
		logger:    logger,
		topicName: topic,
	}
}

func (p *WatermillEventPublisher) Publish(ctx context.Context, event *SessionEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("owner_id", event.OwnerID)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	p.logger.Debug("Published session event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)
	return nil
}

func (p *WatermillEventPublisher) Close() error {
	return p.publisher.Close()
}

// LogEventPublisher writes events to the debug log and keeps nothing.
// It backs the server when event publishing is off.
type LogEventPublisher struct {
	logger *slog.Logger
}

func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

func (p *LogEventPublisher) Publish(ctx context.Context, event *SessionEvent) error {
	p.logger.DebugContext(ctx, "Discarded session event",
		"event_id", event.ID,
		"event_type", event.Type,
		"session_token", event.SessionToken)
	return nil
}

func (p *LogEventPublisher) Close() error {
	return nil
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []SessionEvent
	Logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]SessionEvent, 0),
		Logger: logger,
	}
}

// Publish stores the event in memory
func (m *MockEventPublisher) Publish(ctx context.Context, event *SessionEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, *event)
	m.mu.Unlock()
	m.Logger.Debug("Mock: Published session event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of all published events
func (m *MockEventPublisher) GetPublishedEvents() []SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	m.Events = make([]SessionEvent, 0)
	m.mu.Unlock()
}

// AsyncPublisher hands events to a background worker through a bounded
// buffer. Publish never blocks; events that do not fit are dropped.
type AsyncPublisher struct {
	next    EventPublisher
	queue   chan *SessionEvent
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncPublisher(next EventPublisher, buffer int, timeout time.Duration, logger *slog.Logger) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 1
	}
	p := &AsyncPublisher{
		next:    next,
		queue:   make(chan *SessionEvent, buffer),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.Publish(ctx, event); err != nil {
			observability.EventResult(string(event.Type), "failed")
		} else {
			observability.EventResult(string(event.Type), "published")
		}
		cancel()
	}
}

// Publish enqueues event. It only returns an error after Close.
func (p *AsyncPublisher) Publish(_ context.Context, event *SessionEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("publisher closed")
	}

	select {
	case p.queue <- event:
	default:
		observability.EventResult(string(event.Type), "dropped")
		p.logger.Warn("Event buffer full, dropping session event",
			"event_id", event.ID,
			"event_type", event.Type)
	}
	return nil
}

// Close drains queued events and closes the wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.next.Close()
}
