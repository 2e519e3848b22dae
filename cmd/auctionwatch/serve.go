package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"auctionScope/internal/api"
)

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()
	defer a.logger.Sync()

	server := &http.Server{
		Addr:    a.cfg.HTTPAddr,
		Handler: api.NewServer(a.orch, a.notifier, a.price, a.logger).Router(),
	}

	a.logger.Info("serve start",
		zap.String("http_addr", a.cfg.HTTPAddr),
		zap.String("rpc", a.cfg.RPCURL),
		zap.String("auction_address", a.cfg.AuctionAddress),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := a.orch.Run(ctx); err != nil && err != context.Canceled {
			a.logger.Error("refresh loop stopped", zap.Error(err))
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
