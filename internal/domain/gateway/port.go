package gateway

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source port.go -destination mock_port.go -package gateway

// Client creates orders with the payment provider.
type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
}

type CaptureMode string

const (
	CaptureAuto   CaptureMode = "auto"
	CaptureManual CaptureMode = "manual"
)

// CreateOrderRequest carries the amount in minor currency units.
type CreateOrderRequest struct {
	Amount      int64
	Currency    string
	Receipt     string
	CaptureMode CaptureMode
}

// Order is the provider's order object, returned to the browser as-is.
type Order struct {
	ID         string          `json:"id"`
	Entity     string          `json:"entity"`
	Amount     int64           `json:"amount"`
	AmountPaid int64           `json:"amount_paid"`
	AmountDue  int64           `json:"amount_due"`
	Currency   string          `json:"currency"`
	Receipt    string          `json:"receipt"`
	Status     string          `json:"status"`
	Attempts   int             `json:"attempts"`
	Notes      json.RawMessage `json:"notes,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

// Error is a provider-side rejection, carrying the provider's own message.
type Error struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Description
	}
	return e.Code + ": " + e.Description
}
