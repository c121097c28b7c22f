package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values shared by the payment counters.
const (
	OutcomeOK         = "ok"
	OutcomeRejected   = "rejected"
	OutcomeError      = "error"
	OutcomeIgnored    = "ignored"
	OutcomeDuplicate  = "duplicate"
	OutcomeStale      = "stale"
	OutcomePublished  = "published"
	OutcomeDispatched = "dispatched"
)

var (
	// GatewayOrdersTotal counts order-creation calls to the payment gateway.
	GatewayOrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "gateway_orders_total",
			Help:      "Gateway order creation attempts by outcome",
		},
		[]string{"outcome"},
	)

	SignatureChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "signature_checks_total",
			Help:      "Signature verifications by path and outcome",
		},
		[]string{"path", "outcome"},
	)

	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "transitions_total",
			Help:      "Order status transitions by target status and outcome",
		},
		[]string{"status", "outcome"},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "webhook_events_total",
			Help:      "Webhook deliveries by event type and outcome",
		},
		[]string{"event", "outcome"},
	)

	// ConfigurationErrorsTotal counts requests refused because a secret or dependency is not configured.
	ConfigurationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "configuration_errors_total",
			Help:      "Requests refused for missing configuration, by route",
		},
		[]string{"route"},
	)
)

func init() {
	Registry.MustRegister(GatewayOrdersTotal, SignatureChecksTotal, TransitionsTotal, WebhookEventsTotal, ConfigurationErrorsTotal)
}
