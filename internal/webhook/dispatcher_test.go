package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cookiegallery/internal/domain/checkout"
	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/messaging"
	"cookiegallery/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fastRetry = messaging.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}

func capturedTransition() order.Transition {
	return order.Transition{
		OrderID:   "order_abc",
		PaymentID: "pay_123",
		Status:    order.StatusCaptured,
		Source:    order.SourceWebhook,
		EventType: checkout.EventPaymentCaptured,
	}
}

func TestSyncDispatcher_Dispatch(t *testing.T) {
	t.Run("applies once on success", func(t *testing.T) {
		applier := checkout.NewMockTransitionApplier(gomock.NewController(t))
		applier.EXPECT().ApplyTransition(gomock.Any(), capturedTransition()).
			Return(order.ApplyResult{Outcome: order.OutcomeApplied, Status: order.StatusCaptured}, nil)

		err := NewSyncDispatcher(applier, fastRetry).Dispatch(context.Background(), capturedTransition())

		require.NoError(t, err)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		applier := checkout.NewMockTransitionApplier(gomock.NewController(t))
		gomock.InOrder(
			applier.EXPECT().ApplyTransition(gomock.Any(), gomock.Any()).Return(order.ApplyResult{}, errors.New("conn reset")),
			applier.EXPECT().ApplyTransition(gomock.Any(), gomock.Any()).
				Return(order.ApplyResult{Outcome: order.OutcomeDuplicate, Status: order.StatusCaptured}, nil),
		)

		err := NewSyncDispatcher(applier, fastRetry).Dispatch(context.Background(), capturedTransition())

		require.NoError(t, err)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		applier := checkout.NewMockTransitionApplier(gomock.NewController(t))
		applier.EXPECT().ApplyTransition(gomock.Any(), gomock.Any()).
			Return(order.ApplyResult{}, errors.New("db down")).Times(3)

		err := NewSyncDispatcher(applier, fastRetry).Dispatch(context.Background(), capturedTransition())

		assert.ErrorIs(t, err, messaging.ErrMaxRetriesExceeded)
		assert.ErrorContains(t, err, "order_abc")
	})

	t.Run("does not retry invalid transitions", func(t *testing.T) {
		applier := checkout.NewMockTransitionApplier(gomock.NewController(t))
		applier.EXPECT().ApplyTransition(gomock.Any(), gomock.Any()).
			Return(order.ApplyResult{}, order.ErrInvalidTransition).Times(1)

		err := NewSyncDispatcher(applier, fastRetry).Dispatch(context.Background(), capturedTransition())

		assert.ErrorIs(t, err, messaging.ErrPermanent)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("without persistence", func(t *testing.T) {
		err := NewSyncDispatcher(nil, fastRetry).Dispatch(context.Background(), capturedTransition())

		assert.ErrorIs(t, err, ErrPersistenceDisabled)
	})

	t.Run("survives a cancelled request context", func(t *testing.T) {
		applier := checkout.NewMockTransitionApplier(gomock.NewController(t))
		applier.EXPECT().ApplyTransition(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ order.Transition) (order.ApplyResult, error) {
				assert.NoError(t, ctx.Err())
				return order.ApplyResult{Outcome: order.OutcomeApplied, Status: order.StatusCaptured}, nil
			})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewSyncDispatcher(applier, fastRetry).Dispatch(ctx, capturedTransition())

		require.NoError(t, err)
	})
}

func TestTransitionOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeOK, TransitionOutcome(order.ApplyResult{Outcome: order.OutcomeApplied}, nil))
	assert.Equal(t, metrics.OutcomeStale, TransitionOutcome(order.ApplyResult{Outcome: order.OutcomeStale}, nil))
	assert.Equal(t, metrics.OutcomeDuplicate, TransitionOutcome(order.ApplyResult{Outcome: order.OutcomeDuplicate}, nil))
	assert.Equal(t, metrics.OutcomeError, TransitionOutcome(order.ApplyResult{}, errors.New("boom")))
}

type recordingPublisher struct {
	envelopes []messaging.Envelope
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, envelope messaging.Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestAsyncDispatcher_Dispatch(t *testing.T) {
	t.Run("publishes keyed envelope", func(t *testing.T) {
		pub := &recordingPublisher{}

		err := NewAsyncDispatcher(pub).Dispatch(context.Background(), capturedTransition())

		require.NoError(t, err)
		require.Len(t, pub.envelopes, 1)
		env := pub.envelopes[0]
		assert.Equal(t, "order_abc", env.Key)
		assert.Equal(t, TransitionMessageType, env.Type)
		assert.NotEmpty(t, env.EventID)

		var decoded order.Transition
		require.NoError(t, json.Unmarshal(env.Payload, &decoded))
		assert.Equal(t, capturedTransition(), decoded)
	})

	t.Run("wraps publish error", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("broker unavailable")}

		err := NewAsyncDispatcher(pub).Dispatch(context.Background(), capturedTransition())

		assert.ErrorContains(t, err, "broker unavailable")
	})
}
