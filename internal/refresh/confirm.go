package refresh

import "go.uber.org/zap"

// TxKind classifies a locally confirmed write.
type TxKind string

const (
	TxBidPlaced      TxKind = "bid_placed"
	TxRefundClaimed  TxKind = "refund_claimed"
	TxMintClaimed    TxKind = "mint_claimed"
	TxNftTransferred TxKind = "nft_transferred"
)

// TxConfirmation describes a confirmed local transaction. Only the
// confirmed transition is consumed; submission mechanics live elsewhere.
type TxConfirmation struct {
	Kind      TxKind `json:"kind"`
	TxHash    string `json:"tx_hash"`
	AuctionID uint64 `json:"auction_id,omitempty"`
	// Address is the local signer.
	Address string `json:"address,omitempty"`
	// From/To are set for transfers.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// OnTxConfirmed invalidates every cache the transaction may have made
// stale. A confirmed local transaction is ground truth for "something
// changed" even before the index has re-indexed it: a possibly-redundant
// refetch is traded for never serving stale state after the user's own
// write landed.
func (o *Orchestrator) OnTxConfirmed(conf TxConfirmation) {
	o.logger.Info("local write confirmed",
		zap.String("kind", string(conf.Kind)),
		zap.String("tx_hash", conf.TxHash),
	)

	o.invalidate(AuctionKey())

	auctionID := conf.AuctionID
	if auctionID == 0 {
		o.mu.Lock()
		auctionID = o.lastAuthoritativeID
		o.mu.Unlock()
	}
	if auctionID != 0 {
		o.invalidate(BidsKey(auctionID))
	}

	if conf.Address != "" {
		o.invalidate(ClaimsKey(conf.Address))
	}

	if conf.Kind == TxNftTransferred {
		if conf.From != "" {
			o.invalidate(OwnershipKey(conf.From))
		}
		if conf.To != "" {
			o.invalidate(OwnershipKey(conf.To))
		}
	}
}
