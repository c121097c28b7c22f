package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cookiegallery/config"
	httpcontroller "cookiegallery/internal/controller/http"
	"cookiegallery/internal/controller/http/handlers"
	"cookiegallery/internal/domain/checkout"
	"cookiegallery/internal/domain/customer"
	"cookiegallery/internal/domain/gateway"
	"cookiegallery/internal/domain/identity"
	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/external/firebase"
	"cookiegallery/internal/external/kafka"
	"cookiegallery/internal/external/opensearch"
	"cookiegallery/internal/external/razorpay"
	"cookiegallery/internal/messaging"
	customer_repo "cookiegallery/internal/repo/customer"
	order_repo "cookiegallery/internal/repo/order"
	"cookiegallery/internal/webhook"
	"cookiegallery/pkg/health"
	"cookiegallery/pkg/logger"
	"cookiegallery/pkg/postgres"

	"github.com/google/uuid"
)

const (
	shutdownTimeout    = 5 * time.Second
	certsClientTimeout = 10 * time.Second
)

// Run wires the HTTP server and, in kafka mode, the transition consumer. It blocks until SIGINT/SIGTERM.
// Missing secrets disable their routes instead of failing startup.
func Run(cfg config.Config) error {
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.LogFormat == "console"})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bootID := uuid.NewString()
	readiness := health.NewRegistry()

	// Persistence
	var (
		orderService    *order.OrderService
		customerService *customer.Service
		applier         webhook.Applier
	)
	if cfg.PgURL != "" {
		pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
		if err != nil {
			return fmt.Errorf("app - Run - postgres.New: %w", err)
		}
		defer pool.Close()

		if err := ApplyMigrations(cfg.PgURL, MIGRATION_FS); err != nil {
			return fmt.Errorf("app - Run - ApplyMigrations: %w", err)
		}
		readiness.Register(health.NewPostgresChecker(pool.Pool))

		orderService = order.NewOrderService(order_repo.NewPgOrderRepo(pool), newAuditSink(ctx, cfg, readiness))
		customerService = customer.NewService(customer_repo.NewPgCustomerRepo(pool))
		applier = orderService
	} else {
		slog.Warn("PG_URL not set: order and customer persistence disabled")
	}

	// Gateway
	var gatewayClient gateway.Client
	if cfg.GatewayConfigured() {
		gatewayClient = razorpay.New(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret,
			&http.Client{Timeout: cfg.RazorpayClientTimeout})
		slog.Info("Razorpay initialized: payments enabled")
	} else {
		slog.Warn("Razorpay credentials missing: /create-order disabled")
	}
	intents := checkout.NewIntentService(gatewayClient, gateway.CaptureMode(cfg.PaymentCaptureMode))

	confirmations := checkout.NewConfirmationService(checkout.NewConfirmer(cfg.RazorpayKeySecret), applier)

	// Webhook dispatch
	var dispatcher checkout.TransitionDispatcher
	waitWorkers := func() {}
	switch cfg.WebhookMode {
	case config.WebhookModeKafka:
		slog.Info("Webhook mode: kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTransitionsTopic)
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTransitionsTopic)
		defer func() { _ = publisher.Close() }()

		dispatcher = webhook.NewAsyncDispatcher(publisher)
		readiness.Register(health.NewKafkaChecker(cfg.KafkaBrokers))
		waitWorkers = StartWorkers(ctx, cfg, applier)
	default:
		slog.Info("Webhook mode: sync")
		dispatcher = webhook.NewSyncDispatcher(applier, messaging.DefaultRetryConfig())
	}
	if cfg.RazorpayWebhookSecret == "" {
		slog.Error("RAZORPAY_WEBHOOK_SECRET not set: webhook deliveries will be refused")
	}
	ingestor := checkout.NewWebhookIngestor(cfg.RazorpayWebhookSecret, dispatcher)

	// Identity
	var verifier identity.Verifier
	if cfg.FirebaseProjectID != "" {
		certs := firebase.NewCertSource(cfg.FirebaseCertsURL, &http.Client{Timeout: certsClientTimeout})
		verifier = firebase.NewVerifier(cfg.FirebaseProjectID, certs)
	} else {
		slog.Warn("FIREBASE_PROJECT_ID not set: authenticated routes disabled")
	}

	engine := NewGinEngine()
	router := httpcontroller.NewRouter(httpcontroller.RouterDeps{
		Checkout:  handlers.NewCheckoutHandler(intents, confirmations),
		Webhook:   handlers.NewWebhookHandler(ingestor),
		Order:     handlers.NewOrderHandler(orderService),
		Customer:  handlers.NewCustomerHandler(customerService),
		Health:    handlers.NewHealthHandler(bootID),
		Verifier:  verifier,
		Readiness: readiness,
	})
	router.SetUp(engine)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           WithCORS(cfg, engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "port", cfg.Port, "boot_id", bootID)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		cancel()
		waitWorkers()
		return fmt.Errorf("app - Run - ListenAndServe: %w", err)
	}
	slog.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.Any("error", err))
	}
	waitWorkers()

	slog.Info("Server stopped")
	return nil
}

// newAuditSink returns nil when OpenSearch is not configured or unreachable at startup.
func newAuditSink(ctx context.Context, cfg config.Config, readiness *health.Registry) order.EventSink {
	if len(cfg.OpensearchUrls) == 0 {
		return nil
	}

	sink, err := opensearch.NewAuditSink(ctx, cfg.OpensearchUrls, cfg.OpensearchIndexPaymentEvents)
	if err != nil {
		slog.Warn("OpenSearch audit index disabled", slog.Any("error", err))
		return nil
	}
	readiness.Register(health.NewCheckFunc("opensearch", sink.Ping))
	return sink
}
