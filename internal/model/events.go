package model

// TransferEvent is one indexed ERC721 transfer. Mints carry the zero
// address in From.
type TransferEvent struct {
	From           string `json:"from"`
	To             string `json:"to"`
	TokenID        string `json:"token_id"`
	TxHash         string `json:"tx_hash"`
	BlockNumber    uint64 `json:"block_number"`
	LogIndex       uint64 `json:"log_index"`
	BlockTimestamp uint64 `json:"block_timestamp"`
}

// BidEvent is one indexed bid. BidAmount is a decimal string in wei;
// amounts can exceed 2^53 and are never parsed as floats.
type BidEvent struct {
	AuctionID      uint64 `json:"auction_id"`
	Bidder         string `json:"bidder"`
	BidAmount      string `json:"bid_amount"`
	TxHash         string `json:"tx_hash"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp uint64 `json:"block_timestamp"`
}

// AuctionOpenedEvent marks the opening of an auction. EndTime is the
// scheduled close in unix seconds.
type AuctionOpenedEvent struct {
	AuctionID      uint64 `json:"auction_id"`
	EndTime        uint64 `json:"end_time"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp uint64 `json:"block_timestamp"`
}

// AuctionClosedEvent marks the close of an auction.
type AuctionClosedEvent struct {
	AuctionID      uint64 `json:"auction_id"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp uint64 `json:"block_timestamp"`
}

// FailedMintEvent is emitted when the contract's auto-mint to the auction
// winner reverted and the NFT must be claimed manually.
type FailedMintEvent struct {
	AuctionID      uint64 `json:"auction_id"`
	To             string `json:"to"`
	TokenID        string `json:"token_id"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp uint64 `json:"block_timestamp"`
}

// FinalizedAuctionEvent is emitted once an auction's NFT has definitively
// reached its winner, by auto-mint or by manual claim.
type FinalizedAuctionEvent struct {
	AuctionID      uint64 `json:"auction_id"`
	NftOwner       string `json:"nft_owner"`
	TokenID        string `json:"token_id"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp uint64 `json:"block_timestamp"`
}

// RefundEvent is a refund to an outbid bidder. The same shape covers both
// succeeded and failed refunds; the index stores them in separate streams.
type RefundEvent struct {
	Bidder         string `json:"bidder"`
	BidAmount      string `json:"bid_amount"`
	TxHash         string `json:"tx_hash"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp uint64 `json:"block_timestamp"`
}

// OwnedNFT is a currently-held token derived from the receiving transfer
// record rather than a live ownerOf call.
type OwnedNFT struct {
	TokenID    string `json:"token_id"`
	MintedAt   uint64 `json:"minted_at"`
	MintTxHash string `json:"mint_tx_hash"`
}
