package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cookiegallery/internal/domain/order"

	"github.com/opensearch-project/opensearch-go"
)

var _ order.EventSink = (*AuditSink)(nil)

// AuditSink indexes one document per applied webhook transition.
type AuditSink struct {
	client *opensearch.Client
	index  string
}

func NewAuditSink(ctx context.Context, urls []string, index string) (*AuditSink, error) {
	return newAuditSink(ctx, opensearch.Config{
		Addresses: urls,
		Transport: &http.Transport{MaxIdleConnsPerHost: 10},
	}, index)
}

func newAuditSink(ctx context.Context, cfg opensearch.Config, index string) (*AuditSink, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("no OpenSearch addresses configured")
	}
	client, err := opensearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("opensearch client: %w", err)
	}

	sink := &AuditSink{client: client, index: index}
	if err := sink.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *AuditSink) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("indices.exists: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"order_id":          map[string]any{"type": "keyword"},
				"payment_id":        map[string]any{"type": "keyword"},
				"event_type":        map[string]any{"type": "keyword"},
				"provider_event_id": map[string]any{"type": "keyword"},
				"source":            map[string]any{"type": "keyword"},
				"requested_status":  map[string]any{"type": "keyword"},
				"result_status":     map[string]any{"type": "keyword"},
				"outcome":           map[string]any{"type": "keyword"},
				"amount":            map[string]any{"type": "long"},
				"currency":          map[string]any{"type": "keyword"},
				"occurred_at":       map[string]any{"type": "date"},
				"recorded_at":       map[string]any{"type": "date"},
			},
		},
		"settings": map[string]any{"number_of_replicas": 0},
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	cr, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(bytes.NewReader(buf)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("indices.create: %w", err)
	}
	defer cr.Body.Close()
	if cr.IsError() {
		return fmt.Errorf("indices.create error: %s", cr.String())
	}
	return nil
}

// IndexTransition uses order_id:event_type as the document id, so re-indexing a redelivery overwrites.
func (s *AuditSink) IndexTransition(ctx context.Context, record order.AuditRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(payload),
		s.client.Index.WithDocumentID(record.OrderID+":"+record.EventType),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

// Ping backs the readiness check.
func (s *AuditSink) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("opensearch ping: %s", res.Status())
	}
	return nil
}
