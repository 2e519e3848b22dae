package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"auctionScope/internal/refresh"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()
	defer a.logger.Sync()

	a.logger.Info("watch start",
		zap.String("rpc", a.cfg.RPCURL),
		zap.String("auction_address", a.cfg.AuctionAddress),
		zap.String("address", a.cfg.Address),
	)

	updates, cancel := a.orch.Subscribe()
	defer cancel()

	go a.consumeUpdates(ctx, updates)

	if err := a.orch.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func (a *app) consumeUpdates(ctx context.Context, updates <-chan refresh.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			a.logUpdate(ctx, update)
		}
	}
}

func (a *app) logUpdate(ctx context.Context, update refresh.Update) {
	if update.Err != nil {
		a.logger.Warn("index unavailable", zap.Error(update.Err))
		return
	}
	if update.Open == nil {
		a.logger.Info("no open auction")
		return
	}

	a.logger.Info("open auction",
		zap.Uint64("auction_id", update.Open.AuctionID),
		zap.Uint64("end_time", update.Open.EndTime),
	)

	auction, err := a.orch.CurrentAuction(ctx)
	if err != nil {
		a.logger.Warn("authoritative read failed", zap.Error(err))
		return
	}
	a.logger.Info("authoritative auction",
		zap.Uint64("auction_id", auction.AuctionID),
		zap.String("state", auction.State.String()),
		zap.String("type", auction.AuctionType.String()),
		zap.String("higher_bid", auction.HigherBid),
		zap.String("higher_bidder", auction.HigherBidder),
	)

	if a.cfg.Address == "" {
		return
	}
	status, err := a.orch.BidStatus(ctx, auction.AuctionID, a.cfg.Address)
	if err != nil {
		a.logger.Warn("bid status failed", zap.Error(err))
		return
	}
	a.logger.Info("bid status",
		zap.String("address", a.cfg.Address),
		zap.Bool("has_bid", status.HasBid),
		zap.Bool("is_winning", status.IsWinning),
	)

	claims, err := a.orch.AddressClaims(ctx, a.cfg.Address)
	if err != nil {
		a.logger.Warn("claims check failed", zap.Error(err))
		return
	}
	if claims.UnclaimedMint != nil {
		a.logger.Info("unclaimed mint",
			zap.Uint64("auction_id", claims.UnclaimedMint.AuctionID),
			zap.String("token_id", claims.UnclaimedMint.TokenID),
		)
	}
	if claims.UnclaimedRefund {
		a.logger.Info("unclaimed refund", zap.String("address", a.cfg.Address))
	}

	pending, err := a.notifier.PendingRefund(ctx, a.cfg.Address)
	if err != nil {
		a.logger.Warn("refund notification check failed", zap.Error(err))
		return
	}
	if pending != nil {
		a.logger.Info("refund received",
			zap.String("tx_hash", pending.TxHash),
			zap.String("amount", pending.BidAmount),
		)
	}
}
