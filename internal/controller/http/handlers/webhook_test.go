package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cookiegallery/internal/domain/checkout"
	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/domain/signature"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const webhookSecret = "whsec_test"

const capturedBody = `{"entity":"event","event":"payment.captured","contains":["payment"],` +
	`"payload":{"payment":{"entity":{"id":"pay_123","amount":10000,"currency":"INR","order_id":"order_abc"}}},` +
	`"created_at":1767225600}`

func webhookEngine(secret string, dispatcher checkout.TransitionDispatcher) *gin.Engine {
	h := NewWebhookHandler(checkout.NewWebhookIngestor(secret, dispatcher))
	return newEngine(func(e *gin.Engine) { e.POST("/api/razorpay-webhook", h.Razorpay) })
}

func webhookHeaders(body string) map[string]string {
	return map[string]string{
		SignatureHeader: signature.Compute([]byte(webhookSecret), []byte(body)),
		EventIDHeader:   "evt_1",
	}
}

func TestWebhookHandler_Razorpay(t *testing.T) {
	t.Run("verified capture is dispatched", func(t *testing.T) {
		dispatcher := checkout.NewMockTransitionDispatcher(gomock.NewController(t))
		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tr order.Transition) error {
			assert.Equal(t, "order_abc", tr.OrderID)
			assert.Equal(t, order.StatusCaptured, tr.Status)
			assert.Equal(t, "evt_1", tr.ProviderEventID)
			return nil
		})

		w := doJSON(t, webhookEngine(webhookSecret, dispatcher), http.MethodPost, "/api/razorpay-webhook", capturedBody, webhookHeaders(capturedBody))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Webhook received and processed.", w.Body.String())
	})

	t.Run("signature covers raw bytes", func(t *testing.T) {
		dispatcher := checkout.NewMockTransitionDispatcher(gomock.NewController(t))
		reordered := `{"event":"payment.captured","entity":"event","contains":["payment"],` +
			`"payload":{"payment":{"entity":{"id":"pay_123","amount":10000,"currency":"INR","order_id":"order_abc"}}},` +
			`"created_at":1767225600}`

		w := doJSON(t, webhookEngine(webhookSecret, dispatcher), http.MethodPost, "/api/razorpay-webhook", reordered, webhookHeaders(capturedBody))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Invalid signature", w.Body.String())
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		dispatcher := checkout.NewMockTransitionDispatcher(gomock.NewController(t))

		w := doJSON(t, webhookEngine(webhookSecret, dispatcher), http.MethodPost, "/api/razorpay-webhook", capturedBody, nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unconfigured secret is a server error", func(t *testing.T) {
		dispatcher := checkout.NewMockTransitionDispatcher(gomock.NewController(t))

		w := doJSON(t, webhookEngine("", dispatcher), http.MethodPost, "/api/razorpay-webhook", capturedBody, webhookHeaders(capturedBody))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Webhook secret not configured.", w.Body.String())
	})

	t.Run("unknown event is acknowledged", func(t *testing.T) {
		dispatcher := checkout.NewMockTransitionDispatcher(gomock.NewController(t))
		body := `{"event":"refund.processed","payload":{}}`

		w := doJSON(t, webhookEngine(webhookSecret, dispatcher), http.MethodPost, "/api/razorpay-webhook", body, webhookHeaders(body))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("verified but unusable payload", func(t *testing.T) {
		dispatcher := checkout.NewMockTransitionDispatcher(gomock.NewController(t))
		body := `{"event":"payment.captured","payload":{}}`

		w := doJSON(t, webhookEngine(webhookSecret, dispatcher), http.MethodPost, "/api/razorpay-webhook", body, webhookHeaders(body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("persistence failure is still acknowledged", func(t *testing.T) {
		dispatcher := checkout.NewMockTransitionDispatcher(gomock.NewController(t))
		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		w := doJSON(t, webhookEngine(webhookSecret, dispatcher), http.MethodPost, "/api/razorpay-webhook", capturedBody, webhookHeaders(capturedBody))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
