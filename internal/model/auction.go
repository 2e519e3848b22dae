package model

// AuctionState mirrors the contract's auction state enum.
type AuctionState uint8

const (
	AuctionNotStarted AuctionState = iota
	AuctionOpen
	AuctionClosed
	AuctionFinalized
)

func (s AuctionState) String() string {
	switch s {
	case AuctionNotStarted:
		return "not_started"
	case AuctionOpen:
		return "open"
	case AuctionClosed:
		return "closed"
	case AuctionFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// AuctionType mirrors the contract's auction type enum.
type AuctionType uint8

const (
	AuctionEnglish AuctionType = iota
	AuctionDutch
)

func (t AuctionType) String() string {
	switch t {
	case AuctionEnglish:
		return "english"
	case AuctionDutch:
		return "dutch"
	default:
		return "unknown"
	}
}

// AuctionStruct is the authoritative auction row read directly from the
// contract. It is overwritten wholesale on each read and never partially
// mutated by client logic.
type AuctionStruct struct {
	AuctionID              uint64       `json:"auction_id"`
	TokenID                string       `json:"token_id"`
	NftOwner               string       `json:"nft_owner"`
	State                  AuctionState `json:"state"`
	AuctionType            AuctionType  `json:"auction_type"`
	StartPrice             string       `json:"start_price"`
	StartTime              uint64       `json:"start_time"`
	EndTime                uint64       `json:"end_time"`
	HigherBidder           string       `json:"higher_bidder"`
	HigherBid              string       `json:"higher_bid"`
	MinimumBidChangeAmount string       `json:"minimum_bid_change_amount"`
}
