package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/domain/signature"
)

type VerificationResult string

const (
	Verified         VerificationResult = "verified"
	InvalidSignature VerificationResult = "invalid_signature"
)

// ConfirmationClaim is submitted by the browser after the checkout widget completes.
type ConfirmationClaim struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Confirmer is the pure verification gate for confirmation claims.
type Confirmer struct {
	verifier *signature.Verifier
}

func NewConfirmer(keySecret string) *Confirmer {
	return &Confirmer{verifier: signature.NewVerifier(keySecret)}
}

// ConfirmPayment returns InvalidSignature for a mismatch; only incomplete input is an error.
func (c *Confirmer) ConfirmPayment(claim ConfirmationClaim) (VerificationResult, error) {
	if claim.OrderID == "" || claim.PaymentID == "" || claim.Signature == "" || !c.verifier.Configured() {
		return "", ErrMissingFields
	}

	message := signature.ConfirmationMessage(claim.OrderID, claim.PaymentID)
	if !c.verifier.Verify(message, claim.Signature) {
		return InvalidSignature, nil
	}
	return Verified, nil
}

//go:generate mockgen -source confirmation.go -destination mock_confirmation.go -package checkout

// TransitionApplier persists verified transitions; implemented by order.OrderService.
type TransitionApplier interface {
	ApplyTransition(ctx context.Context, t order.Transition) (order.ApplyResult, error)
}

// ConfirmationOutcome separates the verification result from what persistence did with it.
type ConfirmationOutcome struct {
	Result     VerificationResult
	Persisted  bool
	PersistErr error
}

// ConfirmationService composes the gate with a best-effort "verified" transition.
type ConfirmationService struct {
	gate    *Confirmer
	applier TransitionApplier
	now     func() time.Time
}

// NewConfirmationService accepts a nil applier when persistence is disabled.
func NewConfirmationService(gate *Confirmer, applier TransitionApplier) *ConfirmationService {
	return &ConfirmationService{gate: gate, applier: applier, now: time.Now}
}

func (s *ConfirmationService) Confirm(ctx context.Context, claim ConfirmationClaim) (ConfirmationOutcome, error) {
	result, err := s.gate.ConfirmPayment(claim)
	if err != nil {
		return ConfirmationOutcome{}, err
	}
	outcome := ConfirmationOutcome{Result: result}
	if result != Verified || s.applier == nil {
		return outcome, nil
	}

	_, err = s.applier.ApplyTransition(ctx, order.Transition{
		OrderID:    claim.OrderID,
		PaymentID:  claim.PaymentID,
		Status:     order.StatusVerified,
		Source:     order.SourceConfirmation,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		outcome.PersistErr = fmt.Errorf("record verified payment: %w", err)
		slog.ErrorContext(ctx, "Verified confirmation not persisted",
			"order_id", claim.OrderID, "payment_id", claim.PaymentID, "error", err)
		return outcome, nil
	}
	outcome.Persisted = true
	return outcome, nil
}
