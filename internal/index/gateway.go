// Package index reads the off-chain event index. The index is
// append-only and eventually consistent: it reports what happened, never
// current state. Derived views are computed by the resolve package.
package index

import (
	"context"

	"auctionScope/internal/model"
)

// Gateway is the read surface of the event index. Implementations return
// events newest-first, matching the index's delivery order; callers must
// sort explicitly wherever order matters.
type Gateway interface {
	// TransfersByReceiver returns transfers where the address is the recipient.
	TransfersByReceiver(ctx context.Context, address string) ([]model.TransferEvent, error)
	// TransfersBySender returns transfers where the address is the sender.
	TransfersBySender(ctx context.Context, address string) ([]model.TransferEvent, error)
	// BidsByAuction returns every bid placed on one auction.
	BidsByAuction(ctx context.Context, auctionID uint64) ([]model.BidEvent, error)
	// AuctionLifecycle returns the full opened/closed event history.
	AuctionLifecycle(ctx context.Context) ([]model.AuctionOpenedEvent, []model.AuctionClosedEvent, error)
	// RefundsByAddress returns succeeded refunds for the address.
	RefundsByAddress(ctx context.Context, address string) ([]model.RefundEvent, error)
	// FailedRefundsByAddress returns failed refunds for the address.
	FailedRefundsByAddress(ctx context.Context, address string) ([]model.RefundEvent, error)
	// FailedMintsByAddress returns failed mints owed to the address.
	FailedMintsByAddress(ctx context.Context, address string) ([]model.FailedMintEvent, error)
	// FinalizedAuctionsByAddress returns finalized auctions won by the address.
	FinalizedAuctionsByAddress(ctx context.Context, address string) ([]model.FinalizedAuctionEvent, error)
}
