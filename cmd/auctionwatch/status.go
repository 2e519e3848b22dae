package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"auctionScope/internal/model"
)

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()
	defer a.logger.Sync()

	derived, derivedErr := a.orch.DerivedOpenAuction(ctx)
	if derivedErr != nil {
		fmt.Printf("index:      unavailable (%v)\n", derivedErr)
	} else if derived == nil {
		fmt.Println("index:      no open auction")
	} else {
		fmt.Printf("index:      auction %d open until %d\n", derived.AuctionID, derived.EndTime)
	}

	auction, err := a.orch.CurrentAuction(ctx)
	if err != nil {
		return fmt.Errorf("read auction contract: %w", err)
	}

	fmt.Printf("auction:    %d (%s, %s)\n", auction.AuctionID, auction.State, auction.AuctionType)
	fmt.Printf("token:      %s\n", auction.TokenID)
	fmt.Printf("higher bid: %s by %s\n", formatWei(auction.HigherBid), auction.HigherBidder)
	if rate, err := a.price.EthereumUSD(ctx); err == nil {
		if ether, err := model.WeiToEtherDecimal(auction.HigherBid); err == nil {
			fmt.Printf("            $%s at $%s/ETH\n", ether.Mul(rate).StringFixed(2), rate)
		}
	}

	if a.cfg.Address == "" {
		return nil
	}

	status, err := a.orch.BidStatus(ctx, auction.AuctionID, a.cfg.Address)
	if err != nil {
		return fmt.Errorf("bid status: %w", err)
	}
	fmt.Printf("has bid:    %v (winning: %v)\n", status.HasBid, status.IsWinning)

	claims, err := a.orch.AddressClaims(ctx, a.cfg.Address)
	if err != nil {
		return fmt.Errorf("claims: %w", err)
	}
	if claims.UnclaimedMint != nil {
		fmt.Printf("claimable:  mint of token %s (auction %d)\n", claims.UnclaimedMint.TokenID, claims.UnclaimedMint.AuctionID)
	}
	if claims.UnclaimedRefund {
		fmt.Println("claimable:  refund")
	}

	tokens, err := a.orch.OwnedTokens(ctx, a.cfg.Address)
	if err != nil {
		return fmt.Errorf("owned tokens: %w", err)
	}
	fmt.Printf("owned:      %d token(s)\n", len(tokens))
	for _, token := range tokens {
		fmt.Printf("  token %s minted at %d\n", token.TokenID, token.MintedAt)
	}
	return nil
}

func formatWei(wei string) string {
	ether, err := model.WeiToEther(wei)
	if err != nil {
		return wei
	}
	return ether + " ETH"
}
