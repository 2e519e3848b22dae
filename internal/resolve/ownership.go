package resolve

import (
	"sort"

	"auctionScope/internal/model"
)

// OwnedTokens derives the set of tokens currently held by the address
// whose receive/send streams are given. The merged transfer sequence is
// folded per token in (blockNumber, logIndex) order and a token is owned
// iff its last event is a receive. This handles tokens that change hands
// more than once for the same address (mint, send away, receive back),
// which a one-shot set difference would get wrong.
//
// The OwnedNFT row is built from the receiving transfer record, not a
// live ownerOf call.
func OwnedTokens(received, sent []model.TransferEvent) []model.OwnedNFT {
	type step struct {
		event   model.TransferEvent
		receive bool
	}

	byToken := make(map[string][]step)
	order := make([]string, 0)
	for _, t := range received {
		if _, ok := byToken[t.TokenID]; !ok {
			order = append(order, t.TokenID)
		}
		byToken[t.TokenID] = append(byToken[t.TokenID], step{event: t, receive: true})
	}
	for _, t := range sent {
		if _, ok := byToken[t.TokenID]; !ok {
			order = append(order, t.TokenID)
		}
		byToken[t.TokenID] = append(byToken[t.TokenID], step{event: t, receive: false})
	}

	owned := make([]model.OwnedNFT, 0, len(order))
	for _, tokenID := range order {
		steps := byToken[tokenID]
		sort.SliceStable(steps, func(i, j int) bool {
			a, b := steps[i].event, steps[j].event
			if a.BlockNumber != b.BlockNumber {
				return a.BlockNumber < b.BlockNumber
			}
			return a.LogIndex < b.LogIndex
		})

		last := steps[len(steps)-1]
		if !last.receive {
			continue
		}
		owned = append(owned, model.OwnedNFT{
			TokenID:    tokenID,
			MintedAt:   last.event.BlockTimestamp,
			MintTxHash: last.event.TxHash,
		})
	}
	return owned
}
