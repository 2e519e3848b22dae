package resolve

import "auctionScope/internal/model"

// OpenAuction derives the currently open auction from the full
// opened/closed event history. An auction is a candidate when no closed
// event exists for its id; the candidate with the numerically largest id
// is the most recent since ids are assigned monotonically. A candidate
// past its scheduled end time is treated as closed even if the contract
// has not yet emitted the closing event, so no bidding is offered on it.
//
// Returns nil when no auction is open. Pure: identical inputs always
// produce identical output.
func OpenAuction(opened []model.AuctionOpenedEvent, closed []model.AuctionClosedEvent, now uint64) *model.AuctionOpenedEvent {
	closedIDs := make(map[uint64]struct{}, len(closed))
	for _, c := range closed {
		closedIDs[c.AuctionID] = struct{}{}
	}

	var latest *model.AuctionOpenedEvent
	for i := range opened {
		o := opened[i]
		if _, ok := closedIDs[o.AuctionID]; ok {
			continue
		}
		if latest == nil || o.AuctionID > latest.AuctionID {
			latest = &o
		}
	}
	if latest == nil {
		return nil
	}
	if latest.EndTime <= now {
		return nil
	}

	out := *latest
	return &out
}
