package checkout

import "errors"

var (
	// ErrInvalidRequest is returned when caller-supplied data is malformed or missing
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMissingFields is returned when a confirmation claim or its secret is incomplete
	ErrMissingFields = errors.New("missing required verification data")

	// ErrUpstream is returned when the payment gateway fails or returns nothing
	ErrUpstream = errors.New("upstream payment gateway error")

	// ErrGatewayNotConfigured is returned when gateway credentials are absent
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")

	// ErrWebhookSecretNotConfigured is an operator error, distinct from a bad signature
	ErrWebhookSecretNotConfigured = errors.New("webhook secret not configured")

	// ErrInvalidPayload is returned when a verified webhook body cannot be interpreted
	ErrInvalidPayload = errors.New("invalid webhook payload")
)
