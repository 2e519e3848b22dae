package resolve

import (
	"reflect"
	"testing"

	"auctionScope/internal/model"
)

func TestOpenAuctionPicksHighestUnclosedID(t *testing.T) {
	opened := []model.AuctionOpenedEvent{
		{AuctionID: 3, EndTime: 2000},
		{AuctionID: 5, EndTime: 2100},
		{AuctionID: 4, EndTime: 2050},
	}
	closed := []model.AuctionClosedEvent{
		{AuctionID: 3},
		{AuctionID: 4},
	}

	got := OpenAuction(opened, closed, 1000)
	if got == nil {
		t.Fatalf("expected auction, got nil")
	}
	if got.AuctionID != 5 {
		t.Fatalf("auction id mismatch: %d != 5", got.AuctionID)
	}
}

func TestOpenAuctionExpired(t *testing.T) {
	opened := []model.AuctionOpenedEvent{{AuctionID: 5, EndTime: 1100}}

	if got := OpenAuction(opened, nil, 1000); got == nil {
		t.Fatalf("auction ending at 1100 should be open at 1000")
	}
	if got := OpenAuction(opened, nil, 1200); got != nil {
		t.Fatalf("expired auction should resolve to nil, got %+v", got)
	}
	// Boundary: endTime == now counts as expired.
	if got := OpenAuction(opened, nil, 1100); got != nil {
		t.Fatalf("auction at its end time should resolve to nil, got %+v", got)
	}
}

func TestOpenAuctionAllClosed(t *testing.T) {
	opened := []model.AuctionOpenedEvent{
		{AuctionID: 1, EndTime: 9000},
		{AuctionID: 2, EndTime: 9000},
	}
	closed := []model.AuctionClosedEvent{
		{AuctionID: 1},
		{AuctionID: 2},
	}

	if got := OpenAuction(opened, closed, 100); got != nil {
		t.Fatalf("expected nil when every auction is closed, got %+v", got)
	}
}

func TestOpenAuctionEmpty(t *testing.T) {
	if got := OpenAuction(nil, nil, 100); got != nil {
		t.Fatalf("expected nil for empty history, got %+v", got)
	}
}

func TestOpenAuctionToleratesMissingClose(t *testing.T) {
	// Closed may lag arbitrarily behind opened in the index; an opened
	// event without a matching close is simply still open.
	opened := []model.AuctionOpenedEvent{
		{AuctionID: 7, EndTime: 5000, BlockNumber: 70},
	}
	got := OpenAuction(opened, []model.AuctionClosedEvent{{AuctionID: 6}}, 1000)
	if got == nil || got.AuctionID != 7 {
		t.Fatalf("expected auction 7, got %+v", got)
	}
}

func TestOpenAuctionIdempotent(t *testing.T) {
	opened := []model.AuctionOpenedEvent{
		{AuctionID: 2, EndTime: 900},
		{AuctionID: 9, EndTime: 5000},
	}
	closed := []model.AuctionClosedEvent{{AuctionID: 2}}

	first := OpenAuction(opened, closed, 1000)
	second := OpenAuction(opened, closed, 1000)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolver not idempotent: %+v != %+v", first, second)
	}
}
