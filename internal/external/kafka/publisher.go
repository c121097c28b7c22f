package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"cookiegallery/internal/messaging"
	"cookiegallery/pkg/correlation"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements messaging.Publisher using Kafka.
type Publisher struct {
	topic  string
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish keys the message by envelope key so one order's transitions share a partition.
func (p *Publisher) Publish(ctx context.Context, env messaging.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(env.Key),
		Value:   value,
		Headers: headersFromContext(ctx),
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish message",
			"topic", p.topic,
			"key", env.Key,
			slog.Any("error", err))
		return err
	}

	slog.DebugContext(ctx, "Message published",
		"topic", p.topic,
		"key", env.Key,
		"event_id", env.EventID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func headersFromContext(ctx context.Context) []kafka.Header {
	corrID := correlation.FromContext(ctx)
	if corrID == "" {
		return nil
	}
	return []kafka.Header{{Key: correlation.HeaderName, Value: []byte(corrID)}}
}
