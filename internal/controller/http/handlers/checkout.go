package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"cookiegallery/internal/domain/checkout"
	"cookiegallery/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CheckoutHandler struct {
	intents       *checkout.IntentService
	confirmations *checkout.ConfirmationService
}

func NewCheckoutHandler(intents *checkout.IntentService, confirmations *checkout.ConfirmationService) CheckoutHandler {
	return CheckoutHandler{intents: intents, confirmations: confirmations}
}

type createOrderRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	if !h.intents.Configured() {
		metrics.ConfigurationErrorsTotal.WithLabelValues(c.FullPath()).Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Payments not configured on server."})
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Amount and currency are required."})
		return
	}

	order, err := h.intents.CreateOrder(c.Request.Context(), checkout.CreateOrderInput{
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, checkout.ErrGatewayNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Payments not configured on server."})
		default:
			slog.ErrorContext(c.Request.Context(), "Failed to create gateway order", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create Razorpay order.", "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

type verifySignatureRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifySignature answers only from the signature check; a failed "verified" write is logged, not reported.
func (h *CheckoutHandler) VerifySignature(c *gin.Context) {
	var req verifySignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required verification data."})
		return
	}

	outcome, err := h.confirmations.Confirm(c.Request.Context(), checkout.ConfirmationClaim{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		if errors.Is(err, checkout.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required verification data."})
			return
		}
		slog.ErrorContext(c.Request.Context(), "Confirmation failed", "order_id", req.OrderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to verify payment."})
		return
	}

	if outcome.Result != checkout.Verified {
		metrics.SignatureChecksTotal.WithLabelValues("confirmation", metrics.OutcomeRejected).Inc()
		slog.WarnContext(c.Request.Context(), "Payment signature verification failed", "order_id", req.OrderID)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signature"})
		return
	}

	metrics.SignatureChecksTotal.WithLabelValues("confirmation", metrics.OutcomeOK).Inc()
	slog.InfoContext(c.Request.Context(), "Payment signature verified",
		"order_id", req.OrderID, "payment_id", req.PaymentID, "persisted", outcome.Persisted)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment has been verified"})
}
