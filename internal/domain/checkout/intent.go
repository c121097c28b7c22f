package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cookiegallery/internal/domain/gateway"
	"cookiegallery/internal/domain/money"

	"github.com/shopspring/decimal"
)

// OrderIntent is what gets handed to the gateway. Amount is in minor units.
type OrderIntent struct {
	Amount      int64
	Currency    string
	Receipt     string
	CaptureMode gateway.CaptureMode
}

type CreateOrderInput struct {
	Amount   decimal.Decimal // major units
	Currency string
}

type IntentService struct {
	client      gateway.Client
	captureMode gateway.CaptureMode
	now         func() time.Time
}

// NewIntentService returns a service that answers ErrGatewayNotConfigured when client is nil.
func NewIntentService(client gateway.Client, captureMode gateway.CaptureMode) *IntentService {
	if captureMode == "" {
		captureMode = gateway.CaptureAuto
	}
	return &IntentService{client: client, captureMode: captureMode, now: time.Now}
}

func (s *IntentService) Configured() bool {
	return s != nil && s.client != nil
}

// Intent validates input and builds the gateway request without calling out.
func (s *IntentService) Intent(in CreateOrderInput) (OrderIntent, error) {
	currency := strings.TrimSpace(in.Currency)
	if currency == "" || in.Amount.IsZero() {
		return OrderIntent{}, fmt.Errorf("%w: amount and currency are required", ErrInvalidRequest)
	}

	minor, err := money.ToMinor(in.Amount)
	if err != nil {
		return OrderIntent{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return OrderIntent{
		Amount:      minor,
		Currency:    currency,
		Receipt:     fmt.Sprintf("receipt_order_%d", s.now().UnixMilli()),
		CaptureMode: s.captureMode,
	}, nil
}

func (s *IntentService) CreateOrder(ctx context.Context, in CreateOrderInput) (*gateway.Order, error) {
	if !s.Configured() {
		return nil, ErrGatewayNotConfigured
	}

	intent, err := s.Intent(in)
	if err != nil {
		return nil, err
	}

	created, err := s.client.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:      intent.Amount,
		Currency:    intent.Currency,
		Receipt:     intent.Receipt,
		CaptureMode: intent.CaptureMode,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if created == nil || created.ID == "" {
		return nil, fmt.Errorf("%w: gateway returned no order", ErrUpstream)
	}
	return created, nil
}
