package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/domain/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const keySecret = "rzp_test_key_secret"

func validClaim() ConfirmationClaim {
	return ConfirmationClaim{
		OrderID:   "order_abc",
		PaymentID: "pay_123",
		Signature: signature.Compute([]byte(keySecret), []byte("order_abc|pay_123")),
	}
}

func TestConfirmer_ConfirmPayment(t *testing.T) {
	valid := validClaim()
	tampered := valid
	tampered.Signature = "0" + valid.Signature[1:]
	if tampered.Signature == valid.Signature {
		tampered.Signature = "1" + valid.Signature[1:]
	}

	testCases := []struct {
		name           string
		secret         string
		claim          ConfirmationClaim
		expectedResult VerificationResult
		expectedError  error
	}{
		{name: "valid signature", secret: keySecret, claim: valid, expectedResult: Verified},
		{name: "one character altered", secret: keySecret, claim: tampered, expectedResult: InvalidSignature},
		{name: "missing order id", secret: keySecret, claim: ConfirmationClaim{PaymentID: "pay_123", Signature: valid.Signature}, expectedError: ErrMissingFields},
		{name: "missing payment id", secret: keySecret, claim: ConfirmationClaim{OrderID: "order_abc", Signature: valid.Signature}, expectedError: ErrMissingFields},
		{name: "missing signature", secret: keySecret, claim: ConfirmationClaim{OrderID: "order_abc", PaymentID: "pay_123"}, expectedError: ErrMissingFields},
		{name: "missing secret", secret: "", claim: valid, expectedError: ErrMissingFields},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			result, err := NewConfirmer(tc.secret).ConfirmPayment(tc.claim)

			// then
			assert.Equal(t, tc.expectedResult, result)
			if tc.expectedError == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expectedError)
			}
		})
	}
}

func TestConfirmationService_Confirm(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	newService := func(t *testing.T) (*ConfirmationService, *MockTransitionApplier) {
		applier := NewMockTransitionApplier(gomock.NewController(t))
		service := NewConfirmationService(NewConfirmer(keySecret), applier)
		service.now = func() time.Time { return now }
		return service, applier
	}

	t.Run("should record verified transition", func(t *testing.T) {
		// given
		service, applier := newService(t)
		applier.EXPECT().ApplyTransition(ctx, order.Transition{
			OrderID:    "order_abc",
			PaymentID:  "pay_123",
			Status:     order.StatusVerified,
			Source:     order.SourceConfirmation,
			OccurredAt: now,
		}).Return(order.ApplyResult{Outcome: order.OutcomeApplied, Status: order.StatusVerified}, nil)

		// when
		outcome, err := service.Confirm(ctx, validClaim())

		// then
		require.NoError(t, err)
		assert.Equal(t, Verified, outcome.Result)
		assert.True(t, outcome.Persisted)
	})

	t.Run("should stay verified when persistence fails", func(t *testing.T) {
		// given
		service, applier := newService(t)
		applier.EXPECT().ApplyTransition(ctx, gomock.Any()).Return(order.ApplyResult{}, errors.New("database down"))

		// when
		outcome, err := service.Confirm(ctx, validClaim())

		// then
		require.NoError(t, err)
		assert.Equal(t, Verified, outcome.Result)
		assert.False(t, outcome.Persisted)
		assert.ErrorContains(t, outcome.PersistErr, "database down")
	})

	t.Run("should never persist an invalid signature", func(t *testing.T) {
		// given
		service, _ := newService(t)
		claim := validClaim()
		claim.PaymentID = "pay_999"

		// when
		outcome, err := service.Confirm(ctx, claim)

		// then
		require.NoError(t, err)
		assert.Equal(t, InvalidSignature, outcome.Result)
		assert.False(t, outcome.Persisted)
	})

	t.Run("should verify without persistence configured", func(t *testing.T) {
		// given
		service := NewConfirmationService(NewConfirmer(keySecret), nil)

		// when
		outcome, err := service.Confirm(ctx, validClaim())

		// then
		require.NoError(t, err)
		assert.Equal(t, Verified, outcome.Result)
		assert.False(t, outcome.Persisted)
	})
}
