package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/events"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventConfig holds configuration for the event bus
type EventConfig struct {
	Enabled        bool
	Publisher      string // kafka or mock
	KafkaBrokers   string
	AnalyticsTopic string
	ResponsesTopic string
	ConsumerGroup  string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	brokers := strings.Split(c.KafkaBrokers, ",")
	out := brokers[:0]
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c *EventConfig) usesKafka() bool {
	return c.Enabled && c.Publisher == "kafka"
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.AnalyticsTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.AnalyticsTopic,
			Logger:       logger,
		})
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}

// CreateResponseSubscriber returns the subscriber for response.submitted events.
// Without Kafka an in-process channel is used, which only sees events
// published inside this process.
func (c *EventConfig) CreateResponseSubscriber(logger *slog.Logger) (message.Subscriber, error) {
	if !c.usesKafka() {
		logger.Info("Using in-process subscriber for response events")
		return events.NewChannelPubSub(logger), nil
	}

	logger.Info("Creating Kafka response subscriber",
		"brokers", c.KafkaBrokers,
		"topic", c.ResponsesTopic,
		"consumer_group", c.ConsumerGroup)

	return events.NewKafkaSubscriber(events.SubscriberConfig{
		KafkaBrokers:  c.GetKafkaBrokers(),
		ConsumerGroup: c.ConsumerGroup,
		Logger:        logger,
	})
}
