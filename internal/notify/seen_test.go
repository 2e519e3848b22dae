package notify

import (
	"context"
	"path/filepath"
	"testing"

	"auctionScope/internal/model"
)

type stubIndex struct {
	refunds []model.RefundEvent
}

func (s *stubIndex) RefundsByAddress(ctx context.Context, address string) ([]model.RefundEvent, error) {
	return s.refunds, nil
}

func (s *stubIndex) TransfersByReceiver(ctx context.Context, address string) ([]model.TransferEvent, error) {
	return nil, nil
}
func (s *stubIndex) TransfersBySender(ctx context.Context, address string) ([]model.TransferEvent, error) {
	return nil, nil
}
func (s *stubIndex) BidsByAuction(ctx context.Context, auctionID uint64) ([]model.BidEvent, error) {
	return nil, nil
}
func (s *stubIndex) AuctionLifecycle(ctx context.Context) ([]model.AuctionOpenedEvent, []model.AuctionClosedEvent, error) {
	return nil, nil, nil
}
func (s *stubIndex) FailedRefundsByAddress(ctx context.Context, address string) ([]model.RefundEvent, error) {
	return nil, nil
}
func (s *stubIndex) FailedMintsByAddress(ctx context.Context, address string) ([]model.FailedMintEvent, error) {
	return nil, nil
}
func (s *stubIndex) FinalizedAuctionsByAddress(ctx context.Context, address string) ([]model.FinalizedAuctionEvent, error) {
	return nil, nil
}

func TestSeenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	store := NewSeenStore(path)

	viewed, err := store.Viewed("0xAAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(viewed) != 0 {
		t.Fatalf("fresh store should be empty, got %v", viewed)
	}

	if err := store.MarkViewed("0xAAA", "0xtx1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.MarkViewed("0xaaa", "0xtx1"); err != nil {
		t.Fatalf("duplicate mark should be a no-op: %v", err)
	}

	viewed, err = store.Viewed("0xaAa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(viewed) != 1 || viewed[0] != "0xtx1" {
		t.Fatalf("viewed mismatch: %v", viewed)
	}

	// A new store over the same file sees the persisted state.
	if viewed, err = NewSeenStore(path).Viewed("0xaaa"); err != nil || len(viewed) != 1 {
		t.Fatalf("persistence broken: viewed=%v err=%v", viewed, err)
	}

	if err := store.Clear("0xAAA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if viewed, _ := store.Viewed("0xaaa"); len(viewed) != 0 {
		t.Fatalf("clear should forget viewed refunds, got %v", viewed)
	}
}

func TestPendingRefundOldestUnviewed(t *testing.T) {
	idx := &stubIndex{refunds: []model.RefundEvent{
		{TxHash: "0xtx2", BlockNumber: 20, BlockTimestamp: 200},
		{TxHash: "0xtx1", BlockNumber: 10, BlockTimestamp: 100},
	}}
	store := NewSeenStore(filepath.Join(t.TempDir(), "seen.json"))
	n := NewNotifier(idx, store, nil)
	ctx := context.Background()

	pending, err := n.PendingRefund(ctx, "0xAAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending == nil || pending.TxHash != "0xtx1" {
		t.Fatalf("expected oldest unviewed refund, got %+v", pending)
	}

	if err := n.Dismiss("0xAAA", "0xtx1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pending, err = n.PendingRefund(ctx, "0xAAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending == nil || pending.TxHash != "0xtx2" {
		t.Fatalf("expected next unviewed refund, got %+v", pending)
	}

	if err := n.Dismiss("0xAAA", "0xtx2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending, _ = n.PendingRefund(ctx, "0xAAA"); pending != nil {
		t.Fatalf("all refunds viewed, expected nil, got %+v", pending)
	}
}

func TestPendingRefundNone(t *testing.T) {
	n := NewNotifier(&stubIndex{}, NewSeenStore(""), nil)
	pending, err := n.PendingRefund(context.Background(), "0xAAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending != nil {
		t.Fatalf("no refunds should mean no notification, got %+v", pending)
	}
}
