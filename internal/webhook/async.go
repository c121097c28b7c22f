package webhook

import (
	"context"
	"fmt"

	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/messaging"
	"cookiegallery/pkg/metrics"
)

const TransitionMessageType = "payment.transition"

// AsyncDispatcher publishes transitions to Kafka, keyed by order id so one order's events stay ordered.
type AsyncDispatcher struct {
	publisher messaging.Publisher
}

func NewAsyncDispatcher(publisher messaging.Publisher) *AsyncDispatcher {
	return &AsyncDispatcher{publisher: publisher}
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, t order.Transition) error {
	envelope, err := messaging.NewEnvelope(t.OrderID, TransitionMessageType, t)
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}

	if err := d.publisher.Publish(ctx, envelope); err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(t.Status), metrics.OutcomeError).Inc()
		return fmt.Errorf("publish transition for order %s: %w", t.OrderID, err)
	}

	metrics.TransitionsTotal.WithLabelValues(string(t.Status), metrics.OutcomePublished).Inc()
	return nil
}
