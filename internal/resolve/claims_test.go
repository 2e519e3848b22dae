package resolve

import (
	"testing"

	"auctionScope/internal/model"
)

func TestUnclaimedMintNoFailures(t *testing.T) {
	if got := UnclaimedMint(nil, nil); got != nil {
		t.Fatalf("no failures should yield nil, got %+v", got)
	}
}

func TestUnclaimedMintAllResolved(t *testing.T) {
	failed := []model.FailedMintEvent{{AuctionID: 5, TokenID: "9", BlockNumber: 50}}
	finalized := []model.FinalizedAuctionEvent{{TokenID: "9"}}

	if got := UnclaimedMint(failed, finalized); got != nil {
		t.Fatalf("resolved failure should yield nil, got %+v", got)
	}
}

func TestUnclaimedMintOutstanding(t *testing.T) {
	failed := []model.FailedMintEvent{{AuctionID: 5, TokenID: "9", BlockNumber: 50}}

	got := UnclaimedMint(failed, nil)
	if got == nil {
		t.Fatalf("expected outstanding failure")
	}
	if got.AuctionID != 5 || got.TokenID != "9" {
		t.Fatalf("failure mismatch: %+v", got)
	}
}

func TestUnclaimedMintEarliestUnresolved(t *testing.T) {
	// Delivered newest-first; the earliest unresolved failure is returned.
	failed := []model.FailedMintEvent{
		{AuctionID: 8, TokenID: "12", BlockNumber: 80},
		{AuctionID: 6, TokenID: "10", BlockNumber: 60},
		{AuctionID: 4, TokenID: "7", BlockNumber: 40},
	}
	finalized := []model.FinalizedAuctionEvent{{TokenID: "7"}}

	got := UnclaimedMint(failed, finalized)
	if got == nil || got.TokenID != "10" {
		t.Fatalf("expected earliest unresolved token 10, got %+v", got)
	}
}

func TestHasUnclaimedRefundNoEvents(t *testing.T) {
	if HasUnclaimedRefund(nil, nil) {
		t.Fatalf("no events should mean nothing to claim")
	}
}

func TestHasUnclaimedRefundOutstanding(t *testing.T) {
	failed := []model.RefundEvent{{Bidder: "0xa", BlockNumber: 10, BlockTimestamp: 100}}
	if !HasUnclaimedRefund(failed, nil) {
		t.Fatalf("failure with no success should be claimable")
	}
}

func TestHasUnclaimedRefundClearedBySuccess(t *testing.T) {
	failed := []model.RefundEvent{
		{BlockNumber: 10, BlockTimestamp: 100},
		{BlockNumber: 12, BlockTimestamp: 120},
	}
	succeeded := []model.RefundEvent{{BlockNumber: 20, BlockTimestamp: 200}}

	if HasUnclaimedRefund(failed, succeeded) {
		t.Fatalf("a success clears all prior failures")
	}
}

func TestHasUnclaimedRefundFailureAfterSuccess(t *testing.T) {
	failed := []model.RefundEvent{{BlockNumber: 30, BlockTimestamp: 300}}
	succeeded := []model.RefundEvent{{BlockNumber: 20, BlockTimestamp: 200}}

	if !HasUnclaimedRefund(failed, succeeded) {
		t.Fatalf("a failure newer than the latest success re-arms the claim")
	}
}

func TestHasUnclaimedRefundSuccessOnly(t *testing.T) {
	succeeded := []model.RefundEvent{{BlockNumber: 20, BlockTimestamp: 200}}
	if HasUnclaimedRefund(nil, succeeded) {
		t.Fatalf("successes alone should mean nothing to claim")
	}
}
