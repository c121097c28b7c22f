package customer

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source customer.go -destination mock_customer.go -package customer

var (
	// ErrEmailRequired is returned when the caller's token carries no email
	ErrEmailRequired = errors.New("authenticated email not available on token")
)

// Profile is keyed by lowercase email.
type Profile struct {
	Email       string    `json:"email"`
	AuthUID     string    `json:"auth_uid,omitempty"`
	DisplayName *string   `json:"display_name"`
	PhoneNumber *string   `json:"phone_number"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repo interface {
	Upsert(ctx context.Context, profile Profile) error
}
