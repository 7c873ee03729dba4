package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled      bool
	Publisher    string // kafka, gochannel or log
	KafkaBrokers string
	Topic        string
	Buffer       int
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CreateEventPublisher creates an event publisher based on configuration.
// Real publishers are wrapped so session operations never wait on the broker.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, events are only logged")
		return events.NewLogEventPublisher(logger), nil
	}

	var publisher events.EventPublisher
	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.Topic)

		kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.Topic,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		publisher = kafkaPublisher
	case "gochannel":
		logger.Info("Using in-process event publisher", "topic", c.Topic)
		publisher = events.NewWatermillEventPublisher(events.NewGoChannelPubSub(c.Buffer, logger), c.Topic, logger)
	case "log", "mock":
		logger.Info("Using log event publisher")
		return events.NewLogEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, events are only logged", "publisher", c.Publisher)
		return events.NewLogEventPublisher(logger), nil
	}

	return events.NewAsyncPublisher(publisher, c.Buffer, 5*time.Second, logger), nil
}
