package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/domain/signature"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

var eventStatus = map[string]order.PaymentStatus{
	EventPaymentCaptured: order.StatusCaptured,
	EventPaymentFailed:   order.StatusFailed,
}

//go:generate mockgen -source webhook.go -destination mock_webhook.go -package checkout

// TransitionDispatcher hands a verified transition to persistence, in-request or via a queue.
type TransitionDispatcher interface {
	Dispatch(ctx context.Context, t order.Transition) error
}

// Delivery is one inbound provider notification. Body must be the raw request bytes.
type Delivery struct {
	Body      []byte
	Signature string
	EventID   string
}

type IngestOutcome string

const (
	IngestDispatched IngestOutcome = "dispatched"
	IngestIgnored    IngestOutcome = "ignored"
	IngestRejected   IngestOutcome = "rejected"
)

type IngestResult struct {
	Outcome    IngestOutcome
	EventType  string
	Transition *order.Transition
	// DispatchErr is set when the signature passed but handing off failed; the delivery is still acknowledged.
	DispatchErr error
}

type WebhookIngestor struct {
	verifier   *signature.Verifier
	dispatcher TransitionDispatcher
	now        func() time.Time
}

func NewWebhookIngestor(webhookSecret string, dispatcher TransitionDispatcher) *WebhookIngestor {
	return &WebhookIngestor{
		verifier:   signature.NewVerifier(webhookSecret),
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

type webhookEvent struct {
	Event     string `json:"event"`
	CreatedAt int64  `json:"created_at"`
	Payload   struct {
		Payment *struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   *int64 `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (w *WebhookIngestor) Ingest(ctx context.Context, d Delivery) (IngestResult, error) {
	if !w.verifier.Configured() {
		return IngestResult{}, ErrWebhookSecretNotConfigured
	}
	if !w.verifier.Verify(d.Body, d.Signature) {
		return IngestResult{Outcome: IngestRejected}, nil
	}

	var ev webhookEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		return IngestResult{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	status, known := eventStatus[ev.Event]
	if !known {
		return IngestResult{Outcome: IngestIgnored, EventType: ev.Event}, nil
	}
	if ev.Payload.Payment == nil || ev.Payload.Payment.Entity.OrderID == "" {
		return IngestResult{}, fmt.Errorf("%w: %s without payment entity order id", ErrInvalidPayload, ev.Event)
	}

	entity := ev.Payload.Payment.Entity
	occurredAt := w.now().UTC()
	if ev.CreatedAt > 0 {
		occurredAt = time.Unix(ev.CreatedAt, 0).UTC()
	}
	t := order.Transition{
		OrderID:         entity.OrderID,
		PaymentID:       entity.ID,
		Status:          status,
		Amount:          entity.Amount,
		Currency:        entity.Currency,
		Source:          order.SourceWebhook,
		EventType:       ev.Event,
		ProviderEventID: d.EventID,
		OccurredAt:      occurredAt,
	}

	result := IngestResult{Outcome: IngestDispatched, EventType: ev.Event, Transition: &t}
	if err := w.dispatcher.Dispatch(ctx, t); err != nil {
		result.DispatchErr = err
	}
	return result, nil
}
