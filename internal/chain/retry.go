package chain

import (
	"context"
	"time"

	"auctionScope/internal/model"
)

// callWithRetry retries a transient RPC failure with doubling delay,
// capped at maxDelay. The exhausted failure is wrapped as a
// TransportError carrying op; cancellation is returned as-is so callers
// can tell a dead endpoint from their own context going away.
func callWithRetry(ctx context.Context, op string, attempts int, baseDelay, maxDelay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return model.NewTransportError(op, err)
}
