package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type OrderService struct {
	orderRepo OrderRepo
	eventSink EventSink
	now       func() time.Time
}

// NewOrderService builds the service; eventSink may be nil.
func NewOrderService(orderRepo OrderRepo, eventSink EventSink) *OrderService {
	return &OrderService{orderRepo: orderRepo, eventSink: eventSink, now: time.Now}
}

// ApplyTransition records a verified status change. Webhook deliveries are deduplicated by
// (order_id, event_type) in the same transaction as the status upsert.
func (s *OrderService) ApplyTransition(ctx context.Context, t Transition) (ApplyResult, error) {
	if err := t.Validate(); err != nil {
		return ApplyResult{}, err
	}

	var result ApplyResult
	err := s.orderRepo.InTransaction(ctx, func(tx TxOrderRepo) error {
		if t.RecordsEvent() {
			event := Event{
				ID:              uuid.NewString(),
				OrderID:         t.OrderID,
				EventType:       t.EventType,
				ProviderEventID: t.ProviderEventID,
				PaymentID:       t.PaymentID,
				Amount:          t.Amount,
				CreatedAt:       s.now().UTC(),
			}
			if err := tx.CreateEvent(ctx, event); err != nil {
				return err
			}
		}

		change, err := tx.UpsertStatus(ctx, t)
		if err != nil {
			return fmt.Errorf("upsert status: %w", err)
		}

		result = ApplyResult{Outcome: OutcomeStale, Status: change.Status}
		if change.Advanced {
			result.Outcome = OutcomeApplied
		}
		return nil
	})
	if errors.Is(err, ErrEventAlreadyStored) {
		result = ApplyResult{Outcome: OutcomeDuplicate, Status: s.storedStatus(ctx, t.OrderID)}
		slog.InfoContext(ctx, "Duplicate webhook delivery ignored",
			"order_id", t.OrderID, "event_type", t.EventType, "status", result.Status)
		return result, nil
	}
	if err != nil {
		return ApplyResult{}, fmt.Errorf("apply transition for order %s: %w", t.OrderID, err)
	}

	if t.RecordsEvent() {
		s.audit(ctx, t, result)
	}
	return result, nil
}

// storedStatus is best effort; it returns "" when the order cannot be read.
func (s *OrderService) storedStatus(ctx context.Context, orderID string) PaymentStatus {
	orders, err := s.orderRepo.GetOrders(ctx, &OrdersQuery{IDs: []string{orderID}})
	if err != nil || len(orders) == 0 {
		return ""
	}
	return orders[0].PaymentStatus
}

func (s *OrderService) audit(ctx context.Context, t Transition, result ApplyResult) {
	if s.eventSink == nil {
		return
	}
	record := AuditRecord{
		OrderID:         t.OrderID,
		PaymentID:       t.PaymentID,
		EventType:       t.EventType,
		ProviderEventID: t.ProviderEventID,
		Source:          t.Source,
		RequestedStatus: t.Status,
		ResultStatus:    result.Status,
		Outcome:         result.Outcome,
		Amount:          t.Amount,
		Currency:        t.Currency,
		OccurredAt:      t.OccurredAt,
		RecordedAt:      s.now().UTC(),
	}
	if err := s.eventSink.IndexTransition(ctx, record); err != nil {
		slog.WarnContext(ctx, "Failed to index transition audit record",
			"order_id", t.OrderID, "event_type", t.EventType, "error", err)
	}
}

// SaveDetails stores the client snapshot without touching payment_status.
func (s *OrderService) SaveDetails(ctx context.Context, details Details) error {
	if err := details.Validate(); err != nil {
		return err
	}
	if err := s.orderRepo.SaveDetails(ctx, details); err != nil {
		return fmt.Errorf("save order details: %w", err)
	}
	return nil
}

// GetOrder returns the order only when it belongs to userID.
func (s *OrderService) GetOrder(ctx context.Context, id, userID string) (Order, error) {
	query, err := NewOrdersQueryBuilder().
		WithIDs(id).
		WithUserIDs(userID).
		Build()
	if err != nil {
		return Order{}, err
	}

	orders, err := s.orderRepo.GetOrders(ctx, query)
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	if len(orders) == 0 {
		return Order{}, ErrNotFound
	}
	return orders[0], nil
}

func (s *OrderService) GetOrders(ctx context.Context, query OrdersQuery) ([]Order, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, err.Error())
	}
	orders, err := s.orderRepo.GetOrders(ctx, &query)
	if err != nil {
		return nil, fmt.Errorf("filter orders: %w", err)
	}
	return orders, nil
}
