package messaging

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"cookiegallery/pkg/metrics"
)

const dlqPublishTimeout = 5 * time.Second

type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
	}
}

var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// ErrPermanent marks failures that retrying cannot fix, such as an undecodable message.
var ErrPermanent = errors.New("permanent failure")

// Retry calls fn until it succeeds, returns an ErrPermanent error, or attempts run out.
// Backoff doubles from InitialBackoff with up to 100ms jitter, capped at MaxBackoff.
func Retry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	attempts := max(cfg.MaxAttempts, 1)
	backoff := cfg.InitialBackoff

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil || errors.Is(lastErr, ErrPermanent) {
			return lastErr
		}

		if attempt == attempts-1 {
			break
		}

		sleep := backoff + time.Duration(rand.IntN(100))*time.Millisecond
		if cfg.MaxBackoff > 0 && sleep > cfg.MaxBackoff {
			sleep = cfg.MaxBackoff
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}

	return errors.Join(ErrMaxRetriesExceeded, lastErr)
}

// WithRetry wraps a handler with Retry.
func WithRetry(handler MessageHandler, cfg RetryConfig) MessageHandler {
	return func(ctx context.Context, key, value []byte) error {
		return Retry(ctx, cfg, func(ctx context.Context) error {
			return handler(ctx, key, value)
		})
	}
}

type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, key, value []byte, err error) error
}

// WithDLQ parks failed messages on the DLQ and reports success so the offset is committed.
// A DLQ publish failure is returned so the message is redelivered instead of lost.
func WithDLQ(handler MessageHandler, dlq DLQPublisher) MessageHandler {
	return func(ctx context.Context, key, value []byte) error {
		err := handler(ctx, key, value)
		if err == nil {
			return nil
		}

		// outlive shutdown cancellation
		dlqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dlqPublishTimeout)
		defer cancel()

		if dlqErr := dlq.PublishToDLQ(dlqCtx, key, value, err); dlqErr != nil {
			return errors.Join(err, dlqErr)
		}
		return nil
	}
}

// WithMetrics records processing duration and outcome per topic and consumer group.
func WithMetrics(topic, group string, handler MessageHandler) MessageHandler {
	return func(ctx context.Context, key, value []byte) error {
		start := time.Now()
		err := handler(ctx, key, value)

		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.KafkaProcessingDuration.WithLabelValues(topic, group, status).Observe(time.Since(start).Seconds())
		metrics.KafkaMessagesProcessed.WithLabelValues(topic, group, status).Inc()
		return err
	}
}
