package order

import "errors"

var (
	// ErrNotFound is returned when no order matches the lookup
	ErrNotFound = errors.New("order not found")

	// ErrInvalidStatus is returned for a payment status outside the known set
	ErrInvalidStatus = errors.New("invalid payment status")

	// ErrInvalidTransition is returned when a transition lacks the data needed to apply it
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidDetails is returned when client-supplied order details are incomplete
	ErrInvalidDetails = errors.New("invalid order details")

	// ErrNotOwner is returned when order details are saved for an order another user owns
	ErrNotOwner = errors.New("order belongs to another user")

	// ErrInvalidQuery is returned when order query validation fails
	ErrInvalidQuery = errors.New("invalid orders query")

	// ErrEventAlreadyStored is returned when event with same (order_id, event_type) already exists
	ErrEventAlreadyStored = errors.New("event already stored")
)
