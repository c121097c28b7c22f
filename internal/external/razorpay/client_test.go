package razorpay

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cookiegallery/internal/domain/gateway"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://api.razorpay.test"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	t.Cleanup(gock.Off)

	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)
	t.Cleanup(func() { gock.RestoreClient(httpClient) })

	return New(baseURL, "rzp_test_key", "rzp_test_secret", httpClient)
}

func TestClient_CreateOrder(t *testing.T) {
	ctx := context.Background()
	req := gateway.CreateOrderRequest{Amount: 10000, Currency: "INR", Receipt: "receipt_order_1", CaptureMode: gateway.CaptureAuto}

	t.Run("posts order with basic auth", func(t *testing.T) {
		client := newTestClient(t)

		gock.New(baseURL).
			Post("/v1/orders").
			BasicAuth("rzp_test_key", "rzp_test_secret").
			MatchType("json").
			JSON(map[string]any{"amount": 10000, "currency": "INR", "receipt": "receipt_order_1", "payment_capture": 1}).
			Reply(200).
			JSON(map[string]any{
				"id": "order_abc", "entity": "order", "amount": 10000, "amount_paid": 0, "amount_due": 10000,
				"currency": "INR", "receipt": "receipt_order_1", "status": "created", "attempts": 0,
				"notes": []any{}, "created_at": 1767225600,
			})

		order, err := client.CreateOrder(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "order_abc", order.ID)
		assert.Equal(t, int64(10000), order.AmountDue)
		assert.Equal(t, "created", order.Status)
		assert.True(t, gock.IsDone())
	})

	t.Run("manual capture sends payment_capture 0", func(t *testing.T) {
		client := newTestClient(t)

		gock.New(baseURL).
			Post("/v1/orders").
			JSON(map[string]any{"amount": 10000, "currency": "INR", "receipt": "receipt_order_1", "payment_capture": 0}).
			Reply(200).
			JSON(map[string]any{"id": "order_manual"})

		manual := req
		manual.CaptureMode = gateway.CaptureManual
		order, err := client.CreateOrder(ctx, manual)

		require.NoError(t, err)
		assert.Equal(t, "order_manual", order.ID)
	})

	t.Run("maps provider error body", func(t *testing.T) {
		client := newTestClient(t)

		gock.New(baseURL).
			Post("/v1/orders").
			Reply(400).
			JSON(map[string]any{"error": map[string]any{"code": "BAD_REQUEST_ERROR", "description": "Authentication failed"}})

		_, err := client.CreateOrder(ctx, req)

		var gwErr *gateway.Error
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
		assert.Equal(t, "BAD_REQUEST_ERROR: Authentication failed", gwErr.Error())
	})

	t.Run("keeps raw body for unstructured errors", func(t *testing.T) {
		client := newTestClient(t)

		gock.New(baseURL).
			Post("/v1/orders").
			Reply(502).
			BodyString("bad gateway")

		_, err := client.CreateOrder(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad gateway")
	})

	t.Run("returns nil order when provider omits id", func(t *testing.T) {
		client := newTestClient(t)

		gock.New(baseURL).
			Post("/v1/orders").
			Reply(200).
			JSON(map[string]any{})

		order, err := client.CreateOrder(ctx, req)

		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("transport failure", func(t *testing.T) {
		client := newTestClient(t)

		gock.New(baseURL).
			Post("/v1/orders").
			ReplyError(errors.New("connection reset"))

		_, err := client.CreateOrder(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}
