package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/messaging"
	"cookiegallery/internal/webhook"
	"cookiegallery/pkg/metrics"
)

// TransitionController applies payment transitions consumed from Kafka.
type TransitionController struct {
	applier webhook.Applier
}

func NewTransitionController(applier webhook.Applier) *TransitionController {
	return &TransitionController{applier: applier}
}

// HandleMessage applies one transition. Undecodable messages are permanent failures;
// duplicate deliveries come back from the service as a successful no-op.
func (c *TransitionController) HandleMessage(ctx context.Context, key, value []byte) error {
	env, err := messaging.ParseEnvelope(value)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse envelope", "key", string(key), "error", err)
		return err
	}

	if env.Type != webhook.TransitionMessageType {
		slog.WarnContext(ctx, "Skipping message of unknown type", "event_id", env.EventID, "type", env.Type)
		return nil
	}

	var t order.Transition
	if err := env.Decode(&t); err != nil {
		slog.ErrorContext(ctx, "Failed to decode transition", "event_id", env.EventID, "error", err)
		return err
	}

	slog.DebugContext(ctx, "Processing transition",
		"event_id", env.EventID, "order_id", t.OrderID, "status", t.Status)

	result, err := c.applier.ApplyTransition(ctx, t)
	metrics.TransitionsTotal.WithLabelValues(string(t.Status), webhook.TransitionOutcome(result, err)).Inc()
	if err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			return fmt.Errorf("%w: %w", messaging.ErrPermanent, err)
		}
		slog.ErrorContext(ctx, "Failed to apply transition",
			"event_id", env.EventID, "order_id", t.OrderID, "event_type", t.EventType, "error", err)
		return err
	}

	slog.InfoContext(ctx, "Transition processed",
		"event_id", env.EventID, "order_id", t.OrderID, "outcome", result.Outcome, "status", result.Status)
	return nil
}
