package resolve

import (
	"sort"

	"auctionScope/internal/model"
)

// UnclaimedMint returns the earliest failed mint whose token id does not
// appear in any finalized-auction event, or nil when there are no
// failures or every failure has been resolved. A non-nil result doubles
// as "the user has an NFT eligible to claim" and carries the auction id
// the claim transaction needs.
func UnclaimedMint(failedMints []model.FailedMintEvent, finalized []model.FinalizedAuctionEvent) *model.FailedMintEvent {
	if len(failedMints) == 0 {
		return nil
	}

	resolved := make(map[string]struct{}, len(finalized))
	for _, f := range finalized {
		resolved[f.TokenID] = struct{}{}
	}

	ordered := make([]model.FailedMintEvent, len(failedMints))
	copy(ordered, failedMints)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].BlockNumber != ordered[j].BlockNumber {
			return ordered[i].BlockNumber < ordered[j].BlockNumber
		}
		return ordered[i].BlockTimestamp < ordered[j].BlockTimestamp
	})

	for i := range ordered {
		if _, ok := resolved[ordered[i].TokenID]; !ok {
			out := ordered[i]
			return &out
		}
	}
	return nil
}

// HasUnclaimedRefund reports whether the address whose refund streams are
// given is still owed a refund. Both lists are per-address. A successful
// refund settles every outstanding amount for the caller, so it clears
// all failures that precede it; a failure newer than the latest success
// re-arms the claim. No events of either kind means nothing to claim.
func HasUnclaimedRefund(failed, succeeded []model.RefundEvent) bool {
	if len(failed) == 0 {
		return false
	}

	latestFailure := latestRefund(failed)
	if len(succeeded) == 0 {
		return true
	}
	latestSuccess := latestRefund(succeeded)

	if latestFailure.BlockNumber != latestSuccess.BlockNumber {
		return latestFailure.BlockNumber > latestSuccess.BlockNumber
	}
	return latestFailure.BlockTimestamp > latestSuccess.BlockTimestamp
}

func latestRefund(events []model.RefundEvent) model.RefundEvent {
	latest := events[0]
	for _, e := range events[1:] {
		if e.BlockNumber > latest.BlockNumber ||
			(e.BlockNumber == latest.BlockNumber && e.BlockTimestamp > latest.BlockTimestamp) {
			latest = e
		}
	}
	return latest
}
