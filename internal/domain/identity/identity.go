// Package identity defines the caller identity consumed from the identity provider.
package identity

import (
	"context"
	"errors"
	"strings"
)

//go:generate mockgen -source identity.go -destination mock_identity.go -package identity

var (
	// ErrUnauthenticated is returned when a credential is missing, malformed, expired or not ours
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrVerifierUnavailable is returned when signing keys cannot be fetched
	ErrVerifierUnavailable = errors.New("identity verifier unavailable")
)

// Identity is a verified caller.
type Identity struct {
	Subject string
	Email   string
}

// Key is the lowercase email used to own orders and customer profiles; "" when the token has no email.
func (i Identity) Key() string {
	return strings.ToLower(strings.TrimSpace(i.Email))
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
