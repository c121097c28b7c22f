// Package signature computes and checks HMAC-SHA256 signatures used by the
// payment confirmation and webhook paths.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ConfirmationSeparator joins order and payment ids in the confirmation message.
const ConfirmationSeparator = "|"

// Compute returns the lowercase hex HMAC-SHA256 of message under secret.
func Compute(secret, message []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether provided is the signature of message under secret.
// It never fails: any mismatch, including malformed hex, is false.
func Verify(secret, message []byte, provided string) bool {
	expected := Compute(secret, message)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// ConfirmationMessage builds the canonical "order_id|payment_id" bytes.
func ConfirmationMessage(orderID, paymentID string) []byte {
	return []byte(orderID + ConfirmationSeparator + paymentID)
}

// Verifier binds a secret so callers never handle it directly.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Configured is false for an empty secret; callers treat that as a configuration error.
func (v *Verifier) Configured() bool {
	return v != nil && len(v.secret) > 0
}

func (v *Verifier) Sign(message []byte) string {
	return Compute(v.secret, message)
}

func (v *Verifier) Verify(message []byte, provided string) bool {
	return Verify(v.secret, message, provided)
}
