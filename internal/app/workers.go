package app

import (
	"context"
	"log/slog"

	"cookiegallery/config"
	"cookiegallery/internal/controller/message"
	"cookiegallery/internal/external/kafka"
	"cookiegallery/internal/messaging"
	"cookiegallery/internal/webhook"
)

// StartWorkers consumes payment transitions published by the webhook route.
// The returned func blocks until the consumer has stopped, then closes the DLQ writer.
func StartWorkers(ctx context.Context, cfg config.Config, applier webhook.Applier) (wait func()) {
	dlq := kafka.NewDLQPublisher(cfg.KafkaBrokers, cfg.KafkaTransitionsDLQTopic)

	controller := message.NewTransitionController(applier)
	handler := messaging.WithMetrics(
		cfg.KafkaTransitionsTopic,
		cfg.KafkaTransitionsConsumerGroup,
		messaging.WithDLQ(
			messaging.WithRetry(controller.HandleMessage, messaging.DefaultRetryConfig()),
			dlq,
		),
	)
	consumer := kafka.NewConsumer(
		cfg.KafkaBrokers,
		cfg.KafkaTransitionsTopic,
		cfg.KafkaTransitionsConsumerGroup,
	)
	runner := messaging.NewRunner([]messaging.Worker{consumer}, handler)

	done := make(chan struct{})
	go func() {
		defer close(done)
		slog.Info("Starting transition consumer",
			"topic", cfg.KafkaTransitionsTopic,
			"group", cfg.KafkaTransitionsConsumerGroup)
		if err := runner.Start(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Transition runner failed", slog.Any("error", err))
		}
	}()

	return func() {
		<-done
		if err := dlq.Close(); err != nil {
			slog.Error("Failed to close DLQ publisher", slog.Any("error", err))
		}
	}
}
