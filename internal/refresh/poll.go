package refresh

import (
	"context"
	"time"

	"go.uber.org/zap"

	"auctionScope/internal/model"
)

// Run executes the adaptive poll loop until the context is canceled.
// Each tick re-derives the open auction from the event index; divergence
// from the authoritative id invalidates the auction cache. Failed polls
// are retried with capped exponential backoff.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("refresh loop start",
		zap.Duration("no_auction_interval", o.cfg.NoAuctionInterval),
		zap.Duration("active_interval", o.cfg.ActiveInterval),
		zap.Duration("closing_interval", o.cfg.ClosingInterval),
	)

	var backoff time.Duration
	for {
		// Each tick must observe the index again.
		o.invalidate(LifecycleKey())

		var delay time.Duration
		derived, err := o.DerivedOpenAuction(ctx)
		if err != nil {
			backoff = nextBackoff(backoff, o.cfg.NoAuctionInterval, o.cfg.MaxBackoff)
			delay = backoff
			o.logger.Warn("event index poll failed", zap.Error(err), zap.Duration("retry_in", delay))
			o.publish(Update{Err: err})
		} else {
			backoff = 0
			delay = o.pollInterval(derived)
			o.publishIfChanged(derived)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// pollInterval maps the derived auction state to the next poll delay.
func (o *Orchestrator) pollInterval(derived *model.AuctionOpenedEvent) time.Duration {
	if derived == nil {
		return o.cfg.NoAuctionInterval
	}
	remaining := time.Duration(int64(derived.EndTime)-o.now().Unix()) * time.Second
	if remaining < o.cfg.ClosingWindow {
		return o.cfg.ClosingInterval
	}
	return o.cfg.ActiveInterval
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		return base
	}
	next := current * 2
	if next > max {
		return max
	}
	return next
}

// Subscribe registers for derived-auction updates. The cancel func stops
// delivery and closes the channel; it is safe to call more than once.
// An in-flight index read may still complete after cancel, but it can no
// longer reach the subscriber.
func (o *Orchestrator) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 1)
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	o.mu.Unlock()

	cancel := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if sub, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (o *Orchestrator) publishIfChanged(derived *model.AuctionOpenedEvent) {
	o.mu.Lock()
	changed := !o.hasDerived ||
		(derived == nil) != (o.lastDerived == nil) ||
		(derived != nil && o.lastDerived != nil && derived.AuctionID != o.lastDerived.AuctionID)
	o.lastDerived = derived
	o.hasDerived = true
	o.mu.Unlock()

	if changed {
		o.publish(Update{Open: derived})
	}
}

func (o *Orchestrator) publish(update Update) {
	o.mu.Lock()
	subs := make([]chan Update, 0, len(o.subs))
	for _, ch := range o.subs {
		subs = append(subs, ch)
	}
	o.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- update:
		default:
			// Slow subscriber keeps only the next update.
		}
	}
}
