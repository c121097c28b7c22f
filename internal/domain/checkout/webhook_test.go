package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/domain/signature"
	"cookiegallery/pkg/pointers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const webhookSecret = "whsec_test"

// key order and spacing are deliberate: signatures cover the raw bytes
const capturedBody = `{"entity":"event","account_id":"acc_1","event":"payment.captured","contains":["payment"],` +
	`"payload":{"payment":{"entity":{"id":"pay_123","entity":"payment","amount":10000,"currency":"INR",` +
	`"status":"captured","order_id":"order_abc"}}},"created_at":1767225600}`

func signed(body string) Delivery {
	return Delivery{
		Body:      []byte(body),
		Signature: signature.Compute([]byte(webhookSecret), []byte(body)),
		EventID:   "evt_1",
	}
}

func ingestor(t *testing.T) (*WebhookIngestor, *MockTransitionDispatcher) {
	t.Helper()

	dispatcher := NewMockTransitionDispatcher(gomock.NewController(t))
	return NewWebhookIngestor(webhookSecret, dispatcher), dispatcher
}

func TestWebhookIngestor_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("should dispatch captured transition", func(t *testing.T) {
		// given
		w, dispatcher := ingestor(t)
		expected := order.Transition{
			OrderID:         "order_abc",
			PaymentID:       "pay_123",
			Status:          order.StatusCaptured,
			Amount:          pointers.Ptr(int64(10000)),
			Currency:        "INR",
			Source:          order.SourceWebhook,
			EventType:       EventPaymentCaptured,
			ProviderEventID: "evt_1",
			OccurredAt:      time.Unix(1767225600, 0).UTC(),
		}
		dispatcher.EXPECT().Dispatch(ctx, expected).Return(nil)

		// when
		result, err := w.Ingest(ctx, signed(capturedBody))

		// then
		require.NoError(t, err)
		assert.Equal(t, IngestDispatched, result.Outcome)
		assert.Equal(t, &expected, result.Transition)
		assert.NoError(t, result.DispatchErr)
	})

	t.Run("should dispatch failed transition", func(t *testing.T) {
		// given
		w, dispatcher := ingestor(t)
		body := `{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_abc","status":"failed"}}}}`
		dispatcher.EXPECT().Dispatch(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, tr order.Transition) error {
			assert.Equal(t, order.StatusFailed, tr.Status)
			assert.Nil(t, tr.Amount)
			return nil
		})

		// when
		result, err := w.Ingest(ctx, signed(body))

		// then
		require.NoError(t, err)
		assert.Equal(t, IngestDispatched, result.Outcome)
	})

	t.Run("should verify raw bytes rather than a re-encoding", func(t *testing.T) {
		// given
		w, _ := ingestor(t)
		delivery := signed(capturedBody)
		// same JSON value, different bytes
		delivery.Body = []byte(`{"event":"payment.captured","entity":"event"` + capturedBody[len(`{"entity":"event"`):])

		// when
		result, err := w.Ingest(ctx, delivery)

		// then
		require.NoError(t, err)
		assert.Equal(t, IngestRejected, result.Outcome)
	})

	t.Run("should reject tampered signature without dispatching", func(t *testing.T) {
		// given
		w, _ := ingestor(t)
		delivery := signed(capturedBody)
		delivery.Signature = signature.Compute([]byte("other-secret"), delivery.Body)

		// when
		result, err := w.Ingest(ctx, delivery)

		// then
		require.NoError(t, err)
		assert.Equal(t, IngestRejected, result.Outcome)
	})

	t.Run("should ignore unknown verified event", func(t *testing.T) {
		// given
		w, _ := ingestor(t)

		// when
		result, err := w.Ingest(ctx, signed(`{"event":"refund.processed","payload":{}}`))

		// then
		require.NoError(t, err)
		assert.Equal(t, IngestIgnored, result.Outcome)
		assert.Equal(t, "refund.processed", result.EventType)
	})

	t.Run("should report malformed verified payload", func(t *testing.T) {
		// given
		w, _ := ingestor(t)

		// when
		_, err := w.Ingest(ctx, signed(`{"event":"payment.captured"`))

		// then
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("should report captured event without order id", func(t *testing.T) {
		// given
		w, _ := ingestor(t)

		// when
		_, err := w.Ingest(ctx, signed(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`))

		// then
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("should acknowledge even when dispatch fails", func(t *testing.T) {
		// given
		w, dispatcher := ingestor(t)
		dispatcher.EXPECT().Dispatch(ctx, gomock.Any()).Return(errors.New("broker unavailable"))

		// when
		result, err := w.Ingest(ctx, signed(capturedBody))

		// then
		require.NoError(t, err)
		assert.Equal(t, IngestDispatched, result.Outcome)
		assert.EqualError(t, result.DispatchErr, "broker unavailable")
	})

	t.Run("should fail as configuration error without secret", func(t *testing.T) {
		// given
		w := NewWebhookIngestor("", nil)

		// when
		_, err := w.Ingest(ctx, signed(capturedBody))

		// then
		assert.ErrorIs(t, err, ErrWebhookSecretNotConfigured)
	})
}
