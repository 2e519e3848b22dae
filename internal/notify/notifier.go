package notify

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"auctionScope/internal/index"
	"auctionScope/internal/model"
)

// Notifier surfaces refunds the user has not been shown yet.
type Notifier struct {
	idx    index.Gateway
	seen   *SeenStore
	logger *zap.Logger
}

func NewNotifier(idx index.Gateway, seen *SeenStore, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{idx: idx, seen: seen, logger: logger}
}

// PendingRefund returns the oldest refund for the address that has not
// been viewed, or nil when everything has been shown.
func (n *Notifier) PendingRefund(ctx context.Context, address string) (*model.RefundEvent, error) {
	refunds, err := n.idx.RefundsByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(refunds) == 0 {
		return nil, nil
	}

	viewed, err := n.seen.Viewed(address)
	if err != nil {
		return nil, err
	}
	viewedSet := make(map[string]struct{}, len(viewed))
	for _, hash := range viewed {
		viewedSet[hash] = struct{}{}
	}

	ordered := make([]model.RefundEvent, len(refunds))
	copy(ordered, refunds)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].BlockNumber != ordered[j].BlockNumber {
			return ordered[i].BlockNumber < ordered[j].BlockNumber
		}
		return ordered[i].BlockTimestamp < ordered[j].BlockTimestamp
	})

	for i := range ordered {
		if _, ok := viewedSet[ordered[i].TxHash]; !ok {
			out := ordered[i]
			return &out, nil
		}
	}
	return nil, nil
}

// Dismiss marks a refund as viewed so it is not shown again.
func (n *Notifier) Dismiss(address, txHash string) error {
	n.logger.Debug("refund dismissed", zap.String("address", address), zap.String("tx_hash", txHash))
	return n.seen.MarkViewed(address, txHash)
}
