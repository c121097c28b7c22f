package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	WebhookModeSync  = "sync"
	WebhookModeKafka = "kafka"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"5000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Empty PG_URL runs the server without persistence; persistence-backed routes answer 503.
	PgURL     string `env:"PG_URL"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`

	RazorpayKeyID         string        `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string        `env:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string        `env:"RAZORPAY_WEBHOOK_SECRET"`
	RazorpayBaseURL       string        `env:"RAZORPAY_BASE_URL" envDefault:"https://api.razorpay.com"`
	RazorpayClientTimeout time.Duration `env:"RAZORPAY_CLIENT_TIMEOUT" envDefault:"10s"`
	PaymentCaptureMode    string        `env:"PAYMENT_CAPTURE_MODE" envDefault:"auto"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCertsURL  string `env:"FIREBASE_CERTS_URL" envDefault:"https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"`

	CORSOrigin string `env:"CORS_ORIGIN"`

	// Webhook processing mode: "sync" (apply in-request) or "kafka" (publish, apply in consumer)
	WebhookMode string `env:"WEBHOOK_MODE" envDefault:"sync"`

	KafkaBrokers                  []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTransitionsTopic         string   `env:"KAFKA_TRANSITIONS_TOPIC" envDefault:"payments.transitions"`
	KafkaTransitionsDLQTopic      string   `env:"KAFKA_TRANSITIONS_DLQ_TOPIC" envDefault:"payments.transitions.dlq"`
	KafkaTransitionsConsumerGroup string   `env:"KAFKA_TRANSITIONS_CONSUMER_GROUP" envDefault:"cookiegallery-transitions"`

	OpensearchUrls               []string `env:"OPENSEARCH_URLS" envSeparator:","`
	OpensearchIndexPaymentEvents string   `env:"OPENSEARCH_INDEX_PAYMENT_EVENTS" envDefault:"payment-events"`
}

// DotEnvFiles are loaded in order; variables already set in the environment are never overridden.
var DotEnvFiles = []string{".env", "src/backend/.env"}

func New() (Config, error) {
	for _, f := range DotEnvFiles {
		// missing files are fine
		_ = godotenv.Load(f)
	}

	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) Validate() error {
	switch c.WebhookMode {
	case WebhookModeSync:
	case WebhookModeKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("WEBHOOK_MODE=kafka requires KAFKA_BROKERS")
		}
		if c.PgURL == "" {
			return errors.New("WEBHOOK_MODE=kafka requires PG_URL")
		}
	default:
		return errors.New("WEBHOOK_MODE must be sync or kafka")
	}

	switch c.PaymentCaptureMode {
	case "auto", "manual":
	default:
		return errors.New("PAYMENT_CAPTURE_MODE must be auto or manual")
	}

	return nil
}

func (c Config) GatewayConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}
