package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/messaging"
	"cookiegallery/pkg/metrics"
)

// ErrPersistenceDisabled is returned by a dispatcher built without an applier.
var ErrPersistenceDisabled = errors.New("persistence not configured")

// Applier is implemented by order.OrderService.
type Applier interface {
	ApplyTransition(ctx context.Context, t order.Transition) (order.ApplyResult, error)
}

// SyncDispatcher applies transitions in-request, retrying transient persistence failures.
type SyncDispatcher struct {
	applier Applier
	retry   messaging.RetryConfig
}

// NewSyncDispatcher accepts a nil applier; every Dispatch then fails with ErrPersistenceDisabled.
func NewSyncDispatcher(applier Applier, retry messaging.RetryConfig) *SyncDispatcher {
	return &SyncDispatcher{applier: applier, retry: retry}
}

// Dispatch keeps going after the provider hangs up; the delivery has already been verified.
func (d *SyncDispatcher) Dispatch(ctx context.Context, t order.Transition) error {
	if d.applier == nil {
		return ErrPersistenceDisabled
	}
	ctx = context.WithoutCancel(ctx)

	var result order.ApplyResult
	err := messaging.Retry(ctx, d.retry, func(ctx context.Context) error {
		var err error
		result, err = d.applier.ApplyTransition(ctx, t)
		if errors.Is(err, order.ErrInvalidTransition) {
			return fmt.Errorf("%w: %w", messaging.ErrPermanent, err)
		}
		return err
	})

	metrics.TransitionsTotal.WithLabelValues(string(t.Status), TransitionOutcome(result, err)).Inc()
	if err != nil {
		return fmt.Errorf("apply %s for order %s: %w", t.EventType, t.OrderID, err)
	}

	slog.InfoContext(ctx, "Transition applied",
		"order_id", t.OrderID, "event_type", t.EventType, "outcome", result.Outcome, "status", result.Status)
	return nil
}

// TransitionOutcome maps an apply result onto the transitions counter label.
func TransitionOutcome(result order.ApplyResult, err error) string {
	if err != nil {
		return metrics.OutcomeError
	}
	switch result.Outcome {
	case order.OutcomeStale:
		return metrics.OutcomeStale
	case order.OutcomeDuplicate:
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeOK
	}
}
