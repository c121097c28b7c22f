package order

import (
	"fmt"
	"time"
)

type Source string

const (
	SourceConfirmation Source = "confirmation"
	SourceWebhook      Source = "webhook"
)

// Transition is a verified request to move an order to Status.
// Only code that has checked a signature constructs one.
type Transition struct {
	OrderID         string        `json:"order_id"`
	PaymentID       string        `json:"payment_id,omitempty"`
	Status          PaymentStatus `json:"status"`
	Amount          *int64        `json:"amount,omitempty"`
	Currency        string        `json:"currency,omitempty"`
	Source          Source        `json:"source"`
	EventType       string        `json:"event_type,omitempty"`
	ProviderEventID string        `json:"provider_event_id,omitempty"`
	OccurredAt      time.Time     `json:"occurred_at"`
}

func (t Transition) Validate() error {
	if t.OrderID == "" {
		return fmt.Errorf("%w: order id is required", ErrInvalidTransition)
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	switch t.Source {
	case SourceConfirmation:
		if t.Status != StatusVerified {
			return fmt.Errorf("%w: confirmation can only verify", ErrInvalidTransition)
		}
	case SourceWebhook:
		if t.EventType == "" {
			return fmt.Errorf("%w: webhook transition needs an event type", ErrInvalidTransition)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidTransition, t.Source)
	}
	return nil
}

// RecordsEvent is true for provider deliveries, which are deduplicated by (order_id, event_type).
func (t Transition) RecordsEvent() bool {
	return t.Source == SourceWebhook
}

// Event is the stored fingerprint of one provider delivery.
type Event struct {
	ID              string
	OrderID         string
	EventType       string
	ProviderEventID string
	PaymentID       string
	Amount          *int64
	CreatedAt       time.Time
}

type ApplyOutcome string

const (
	OutcomeApplied   ApplyOutcome = "applied"
	OutcomeStale     ApplyOutcome = "stale"
	OutcomeDuplicate ApplyOutcome = "duplicate"
)

// ApplyResult reports what a transition did and the status the order holds afterwards.
type ApplyResult struct {
	Outcome ApplyOutcome
	Status  PaymentStatus
}
