package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

type fakeDLQ struct {
	calls int
	key   []byte
	err   error
	fail  error
}

func (f *fakeDLQ) PublishToDLQ(_ context.Context, key, _ []byte, err error) error {
	f.calls++
	f.key = key
	f.err = err
	return f.fail
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, fastRetry)

		require.NoError(t, handler(ctx, nil, nil))
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			calls++
			return errors.New("still down")
		}, fastRetry)

		err := handler(ctx, nil, nil)

		assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
		assert.ErrorContains(t, err, "still down")
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		calls := 0
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			calls++
			return fmt.Errorf("%w: bad json", ErrPermanent)
		}, fastRetry)

		err := handler(ctx, nil, nil)

		assert.ErrorIs(t, err, ErrPermanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			cancel()
			return errors.New("fail")
		}, RetryConfig{MaxAttempts: 5, InitialBackoff: time.Second, MaxBackoff: time.Second})

		assert.ErrorIs(t, handler(cctx, nil, nil), context.Canceled)
	})
}

func TestWithDLQ(t *testing.T) {
	ctx := context.Background()

	t.Run("success skips the DLQ", func(t *testing.T) {
		dlq := &fakeDLQ{}
		handler := WithDLQ(func(context.Context, []byte, []byte) error { return nil }, dlq)

		require.NoError(t, handler(ctx, []byte("order_abc"), nil))
		assert.Zero(t, dlq.calls)
	})

	t.Run("failure is parked and acknowledged", func(t *testing.T) {
		dlq := &fakeDLQ{}
		handler := WithDLQ(func(context.Context, []byte, []byte) error { return errors.New("boom") }, dlq)

		require.NoError(t, handler(ctx, []byte("order_abc"), []byte("{}")))
		assert.Equal(t, 1, dlq.calls)
		assert.Equal(t, "order_abc", string(dlq.key))
		assert.EqualError(t, dlq.err, "boom")
	})

	t.Run("DLQ failure keeps the message uncommitted", func(t *testing.T) {
		dlq := &fakeDLQ{fail: errors.New("dlq down")}
		handler := WithDLQ(func(context.Context, []byte, []byte) error { return errors.New("boom") }, dlq)

		err := handler(ctx, nil, nil)

		assert.ErrorContains(t, err, "boom")
		assert.ErrorContains(t, err, "dlq down")
	})
}

type stubWorker struct {
	start  func(ctx context.Context, h MessageHandler) error
	closed bool
}

func (w *stubWorker) Start(ctx context.Context, h MessageHandler) error { return w.start(ctx, h) }
func (w *stubWorker) Close() error { w.closed = true; return nil }

func TestRunner_Start(t *testing.T) {
	t.Run("returns when context is cancelled and closes workers", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		w := &stubWorker{start: func(ctx context.Context, _ MessageHandler) error {
			<-ctx.Done()
			return nil
		}}
		cancel()

		require.NoError(t, NewRunner([]Worker{w}, nil).Start(ctx))
		assert.True(t, w.closed)
	})

	t.Run("recovers a panicking worker", func(t *testing.T) {
		w := &stubWorker{start: func(context.Context, MessageHandler) error { panic("boom") }}

		err := NewRunner([]Worker{w}, nil).Start(context.Background())

		assert.ErrorContains(t, err, "panicked")
		assert.True(t, w.closed)
	})
}
