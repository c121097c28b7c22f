package order

import (
	"context"
	"time"
)

//go:generate mockgen -source event_sink.go -destination mock_event_sink.go -package order

// EventSink receives an audit record for every applied webhook transition.
type EventSink interface {
	IndexTransition(ctx context.Context, record AuditRecord) error
}

type AuditRecord struct {
	OrderID         string        `json:"order_id"`
	PaymentID       string        `json:"payment_id,omitempty"`
	EventType       string        `json:"event_type,omitempty"`
	ProviderEventID string        `json:"provider_event_id,omitempty"`
	Source          Source        `json:"source"`
	RequestedStatus PaymentStatus `json:"requested_status"`
	ResultStatus    PaymentStatus `json:"result_status"`
	Outcome         ApplyOutcome  `json:"outcome"`
	Amount          *int64        `json:"amount,omitempty"`
	Currency        string        `json:"currency,omitempty"`
	OccurredAt      time.Time     `json:"occurred_at"`
	RecordedAt      time.Time     `json:"recorded_at"`
}
