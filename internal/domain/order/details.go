package order

import (
	"encoding/json"
	"fmt"
)

// Details is the client-side order snapshot posted after checkout.
// ReportedStatus is what the browser claims; it never drives PaymentStatus.
type Details struct {
	OrderID        string
	UserID         string
	Items          json.RawMessage
	ReportedStatus string
	Amount         *int64
	Currency       string
}

func (d Details) Validate() error {
	if d.OrderID == "" || d.UserID == "" || d.ReportedStatus == "" || len(d.Items) == 0 || string(d.Items) == "null" {
		return fmt.Errorf("%w: order id, user, items and payment status are required", ErrInvalidDetails)
	}
	if !json.Valid(d.Items) {
		return fmt.Errorf("%w: items must be valid JSON", ErrInvalidDetails)
	}
	return nil
}
