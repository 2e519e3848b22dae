package resolve

import (
	"math/big"
	"sort"
	"strings"

	"auctionScope/internal/model"
)

// BidLedger is the processed bid history of one auction.
type BidLedger struct {
	// OrderedBids is the bid history sorted oldest to newest.
	OrderedBids []model.BidEvent
	// OrderedBidders lists distinct bidder addresses, lowercased, in the
	// order each address first bid.
	OrderedBidders []string
	// HighestBidAmount is the maximal bid amount in wei.
	HighestBidAmount string
	// HighestBidder is the bidder of the earliest bid reaching the
	// maximal amount.
	HighestBidder string
}

// ProcessBids derives the bid ledger for one auction. Returns nil for an
// empty history: no bids placed yet is not an error and is distinct from
// a zero bid. The delivered order is advisory only; the ledger sorts
// explicitly and computes the maximum under big-integer comparison.
func ProcessBids(bids []model.BidEvent) (*BidLedger, error) {
	if len(bids) == 0 {
		return nil, nil
	}

	ordered := make([]model.BidEvent, len(bids))
	copy(ordered, bids)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].BlockNumber != ordered[j].BlockNumber {
			return ordered[i].BlockNumber < ordered[j].BlockNumber
		}
		return ordered[i].BlockTimestamp < ordered[j].BlockTimestamp
	})

	seen := make(map[string]struct{}, len(ordered))
	bidders := make([]string, 0, len(ordered))

	var highest model.BidEvent
	var highestAmount *big.Int
	for _, bid := range ordered {
		bidder := strings.ToLower(bid.Bidder)
		if _, ok := seen[bidder]; !ok {
			seen[bidder] = struct{}{}
			bidders = append(bidders, bidder)
		}

		amount, err := model.ParseWei(bid.BidAmount)
		if err != nil {
			return nil, model.NewDecodeError("bid", "bid_amount", bid.BidAmount, err)
		}
		// Strictly greater keeps the earliest bid at a tied maximum.
		if highestAmount == nil || amount.Cmp(highestAmount) > 0 {
			highestAmount = amount
			highest = bid
		}
	}

	return &BidLedger{
		OrderedBids:      ordered,
		OrderedBidders:   bidders,
		HighestBidAmount: highest.BidAmount,
		HighestBidder:    highest.Bidder,
	}, nil
}

// HasBid reports whether the address has placed at least one bid.
// Address comparison is case-insensitive.
func (l *BidLedger) HasBid(address string) bool {
	if l == nil || address == "" {
		return false
	}
	target := strings.ToLower(address)
	for _, bidder := range l.OrderedBidders {
		if bidder == target {
			return true
		}
	}
	return false
}

// IsWinning reports whether the address is the standing highest bidder.
func (l *BidLedger) IsWinning(address string) bool {
	if l == nil || address == "" {
		return false
	}
	return strings.EqualFold(l.HighestBidder, address)
}
