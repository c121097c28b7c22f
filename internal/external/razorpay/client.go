package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cookiegallery/internal/domain/gateway"
	"cookiegallery/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.razorpay.com"
	ordersPath     = "/v1/orders"
)

type Client struct {
	BaseURL   string
	KeyID     string
	keySecret string
	HTTP      *http.Client
}

func New(baseURL, keyID, keySecret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		KeyID:     keyID,
		keySecret: keySecret,
		HTTP:      httpClient,
	}
}

type createOrderReq struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type errorResp struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *Client) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	order, err := c.createOrder(ctx, req)
	if err != nil {
		metrics.GatewayOrdersTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.GatewayOrdersTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return order, nil
}

func (c *Client) createOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	body := createOrderReq{
		Amount:         req.Amount,
		Currency:       req.Currency,
		Receipt:        req.Receipt,
		PaymentCapture: 1,
	}
	if req.CaptureMode == gateway.CaptureManual {
		body.PaymentCapture = 0
	}

	j, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+ordersPath, bytes.NewReader(j))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.KeyID, c.keySecret)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, providerError(resp, raw)
	}

	var out gateway.Order
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func providerError(resp *http.Response, raw []byte) error {
	var er errorResp
	if err := json.Unmarshal(raw, &er); err == nil && er.Error.Description != "" {
		return &gateway.Error{StatusCode: resp.StatusCode, Code: er.Error.Code, Description: er.Error.Description}
	}
	return &gateway.Error{StatusCode: resp.StatusCode, Description: fmt.Sprintf("provider %s: %s", resp.Status, string(raw))}
}
