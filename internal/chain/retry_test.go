package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"auctionScope/internal/model"
)

func TestCallWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := callWithRetry(context.Background(), "probe_op", 3, time.Millisecond, 2*time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestCallWithRetryExhaustedWrapsTransport(t *testing.T) {
	rpcErr := errors.New("connection refused")
	calls := 0
	err := callWithRetry(context.Background(), "get_current_auction", 3, time.Millisecond, 2*time.Millisecond, func(ctx context.Context) error {
		calls++
		return rpcErr
	})
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}

	var transport *model.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %T", err)
	}
	if transport.Op != "get_current_auction" {
		t.Fatalf("op mismatch: %q", transport.Op)
	}
	if !errors.Is(err, rpcErr) {
		t.Fatalf("underlying error lost: %v", err)
	}
}

func TestCallWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := callWithRetry(ctx, "block_number", 5, time.Millisecond, 2*time.Millisecond, func(ctx context.Context) error {
		calls++
		return errors.New("unreachable")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("canceled context must not keep retrying, got %d attempts", calls)
	}
}
