package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ResponseSubmittedHandler reacts to a response being submitted
type ResponseSubmittedHandler func(ctx context.Context, event *ResponseSubmittedEvent) error

type SubscriberConfig struct {
	KafkaBrokers  []string
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewKafkaSubscriber creates a Kafka consumer-group subscriber
func NewKafkaSubscriber(config SubscriberConfig) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               config.KafkaBrokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		ConsumerGroup:         config.ConsumerGroup,
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return subscriber, nil
}

// ResponseConsumer feeds response.submitted events from a topic to a handler.
// Undecodable messages are acked and dropped; handler failures are nacked
// for redelivery.
type ResponseConsumer struct {
	subscriber message.Subscriber
	topic      string
	handler    ResponseSubmittedHandler
	logger     *slog.Logger
}

func NewResponseConsumer(subscriber message.Subscriber, topic string, handler ResponseSubmittedHandler, logger *slog.Logger) *ResponseConsumer {
	return &ResponseConsumer{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled or the subscription closes
func (c *ResponseConsumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.topic, err)
	}

	c.logger.Info("Consuming response events", "topic", c.topic)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *ResponseConsumer) handle(ctx context.Context, msg *message.Message) {
	event, err := DecodeResponseSubmitted(msg.Payload)
	if err != nil {
		c.logger.Warn("Dropping undecodable response event",
			"message_uuid", msg.UUID,
			"error", err)
		msg.Ack()
		return
	}

	if err := c.handler(ctx, event); err != nil {
		c.logger.Error("Failed to handle response event",
			"message_uuid", msg.UUID,
			"questionnaire_id", event.QuestionnaireID,
			"error", err)
		msg.Nack()
		return
	}

	msg.Ack()
}

func (c *ResponseConsumer) Close() error {
	return c.subscriber.Close()
}
