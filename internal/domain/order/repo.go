package order

import "context"

//go:generate mockgen -source repo.go -destination mock_repo.go -package order

type OrderRepo interface {
	TxOrderRepo
	InTransaction(ctx context.Context, fn func(repo TxOrderRepo) error) error
}

// StatusChange is the status an order holds after an upsert and whether this upsert moved it there.
type StatusChange struct {
	Status   PaymentStatus
	Advanced bool
}

type TxOrderRepo interface {
	// UpsertStatus atomically creates or advances the order.
	UpsertStatus(ctx context.Context, t Transition) (StatusChange, error)
	// CreateEvent returns ErrEventAlreadyStored for a repeated (order_id, event_type).
	CreateEvent(ctx context.Context, event Event) error
	SaveDetails(ctx context.Context, details Details) error
	GetOrders(ctx context.Context, query *OrdersQuery) ([]Order, error)
}
