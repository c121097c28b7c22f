//go:build integration
// +build integration

package app_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cookiegallery/config"
	"cookiegallery/internal/app"
	"cookiegallery/internal/domain/order"
	"cookiegallery/internal/external/kafka"
	order_repo "cookiegallery/internal/repo/order"
	"cookiegallery/internal/testinfra"
	"cookiegallery/internal/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *testinfra.TestSuite

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	suite, err = testinfra.NewTestSuite(ctx, testinfra.SuiteOptions{WithKafka: true})
	if err != nil {
		panic(fmt.Sprintf("Failed to start test suite: %v", err))
	}

	code := m.Run()

	suite.Cleanup(ctx)
	os.Exit(code)
}

func TestIntegration_KafkaTransitionsReachOrders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, suite.Postgres.Truncate(ctx))

	cfg := config.Config{
		WebhookMode:                   config.WebhookModeKafka,
		KafkaBrokers:                  suite.Kafka.Brokers,
		KafkaTransitionsTopic:         suite.Kafka.TransitionsTopic,
		KafkaTransitionsDLQTopic:      suite.Kafka.DLQTopic,
		KafkaTransitionsConsumerGroup: suite.Kafka.Group,
	}

	service := order.NewOrderService(order_repo.NewPgOrderRepo(suite.Postgres.Pool), nil)
	wait := app.StartWorkers(ctx, cfg, service)
	defer func() {
		cancel()
		wait()
	}()

	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTransitionsTopic)
	defer publisher.Close()
	dispatcher := webhook.NewAsyncDispatcher(publisher)

	amount := int64(49900)
	transitions := []order.Transition{
		// rejected by validation, must land on the DLQ without blocking the partition
		{OrderID: "order_kafka", Status: order.StatusCaptured, Source: order.SourceWebhook},
		{
			OrderID: "order_kafka", PaymentID: "pay_1", Status: order.StatusCaptured,
			Amount: &amount, Currency: "INR", Source: order.SourceWebhook,
			EventType: "payment.captured", ProviderEventID: "evt_1", OccurredAt: time.Now().UTC(),
		},
		{
			OrderID: "order_kafka", PaymentID: "pay_1", Status: order.StatusFailed,
			Source: order.SourceWebhook, EventType: "payment.failed",
			ProviderEventID: "evt_2", OccurredAt: time.Now().UTC(),
		},
	}
	for _, tr := range transitions {
		require.NoError(t, dispatcher.Dispatch(ctx, tr))
	}

	q, err := order.NewOrdersQueryBuilder().WithIDs("order_kafka").Build()
	require.NoError(t, err)

	var events int
	require.Eventually(t, func() bool {
		err := suite.Postgres.Pool.Pool.QueryRow(ctx,
			"SELECT count(*) FROM payment_events WHERE order_id = $1", "order_kafka").Scan(&events)
		return err == nil && events == 2
	}, 60*time.Second, 250*time.Millisecond)

	orders, err := service.GetOrders(ctx, *q)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.StatusCaptured, orders[0].PaymentStatus)
	assert.Equal(t, "pay_1", orders[0].PaymentID)
}
