package order

import (
	"encoding/json"
	"fmt"
	"time"
)

type Order struct {
	ID             string          `json:"order_id"`
	UserID         string          `json:"user_id,omitempty"`
	Items          json.RawMessage `json:"items,omitempty"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	PaymentID      string          `json:"payment_id,omitempty"`
	Amount         *int64          `json:"amount,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	ReportedStatus string          `json:"reported_status,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusVerified PaymentStatus = "verified"
	StatusFailed   PaymentStatus = "failed"
	StatusCaptured PaymentStatus = "captured"
)

// statusRank must match payment_status_rank() in the migrations.
var statusRank = map[PaymentStatus]int{
	StatusPending:  0,
	StatusVerified: 1,
	StatusFailed:   2,
	StatusCaptured: 3,
}

func ParseStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(raw)
	if _, ok := statusRank[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Rank orders statuses by authority; unknown statuses rank below pending.
func (s PaymentStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// IsTerminal reports statuses only the provider webhook can set.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusCaptured || s == StatusFailed
}

// Supersedes reports whether s may replace current. Equal ranks never replace.
func (s PaymentStatus) Supersedes(current PaymentStatus) bool {
	return s.Rank() > current.Rank()
}
