package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"cookiegallery/internal/domain/checkout"
	"cookiegallery/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const (
	SignatureHeader = "x-razorpay-signature"
	EventIDHeader   = "x-razorpay-event-id"
)

type WebhookHandler struct {
	ingestor *checkout.WebhookIngestor
}

func NewWebhookHandler(ingestor *checkout.WebhookIngestor) WebhookHandler {
	return WebhookHandler{ingestor: ingestor}
}

// Razorpay verifies the raw body. Once verified and dispatched the provider gets 200,
// whether or not persistence succeeded.
func (h *WebhookHandler) Razorpay(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "Unable to read body")
		return
	}

	result, err := h.ingestor.Ingest(ctx, checkout.Delivery{
		Body:      body,
		Signature: c.GetHeader(SignatureHeader),
		EventID:   c.GetHeader(EventIDHeader),
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrWebhookSecretNotConfigured):
			metrics.ConfigurationErrorsTotal.WithLabelValues(c.FullPath()).Inc()
			slog.ErrorContext(ctx, "RAZORPAY_WEBHOOK_SECRET is not set")
			c.String(http.StatusInternalServerError, "Webhook secret not configured.")
		case errors.Is(err, checkout.ErrInvalidPayload):
			metrics.SignatureChecksTotal.WithLabelValues("webhook", metrics.OutcomeOK).Inc()
			slog.WarnContext(ctx, "Verified webhook with unusable payload", "error", err)
			c.String(http.StatusBadRequest, "Invalid webhook payload.")
		default:
			slog.ErrorContext(ctx, "Webhook ingestion failed", "error", err)
			c.String(http.StatusInternalServerError, "Webhook processing failed.")
		}
		return
	}

	if result.Outcome == checkout.IngestRejected {
		metrics.SignatureChecksTotal.WithLabelValues("webhook", metrics.OutcomeRejected).Inc()
		slog.WarnContext(ctx, "Webhook signature verification failed", "event_id", c.GetHeader(EventIDHeader))
		c.String(http.StatusForbidden, "Invalid signature")
		return
	}
	metrics.SignatureChecksTotal.WithLabelValues("webhook", metrics.OutcomeOK).Inc()

	switch {
	case result.Outcome == checkout.IngestIgnored:
		metrics.WebhookEventsTotal.WithLabelValues(result.EventType, metrics.OutcomeIgnored).Inc()
		slog.InfoContext(ctx, "Webhook event ignored", "event_type", result.EventType)
	case result.DispatchErr != nil:
		metrics.WebhookEventsTotal.WithLabelValues(result.EventType, metrics.OutcomeError).Inc()
		slog.ErrorContext(ctx, "Verified webhook not persisted",
			"order_id", result.Transition.OrderID, "event_type", result.EventType, "error", result.DispatchErr)
	default:
		metrics.WebhookEventsTotal.WithLabelValues(result.EventType, metrics.OutcomeDispatched).Inc()
		slog.InfoContext(ctx, "Webhook event dispatched",
			"order_id", result.Transition.OrderID, "payment_id", result.Transition.PaymentID, "event_type", result.EventType)
	}

	c.String(http.StatusOK, "Webhook received and processed.")
}
