package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"auctionScope/internal/chain"
	"auctionScope/internal/config"
	"auctionScope/internal/index"
	"auctionScope/internal/notify"
	"auctionScope/internal/price"
	"auctionScope/internal/refresh"
)

func main() {
	root := &cobra.Command{
		Use:          "auctionwatch",
		Short:        "NFT auction reconciliation watcher",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the refresh loop and log auction transitions",
		RunE:  runWatch,
	}
	addCommonFlags(watchCmd)
	root.AddCommand(watchCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the refresh loop and the HTTP API",
		RunE:  runServe,
	}
	addCommonFlags(serveCmd)
	serveCmd.Flags().String("http-addr", ":8080", "HTTP listen address")
	root.AddCommand(serveCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current auction state and exit",
		RunE:  runStatus,
	}
	addCommonFlags(statusCmd)
	root.AddCommand(statusCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "chain RPC URL")
	cmd.Flags().String("auction-address", "", "auction contract address")
	cmd.Flags().String("index-dsn", "", "event index Postgres DSN")
	cmd.Flags().String("address", "", "wallet address to watch (optional)")
	cmd.Flags().String("seen-path", "./data/viewed_refunds.json", "viewed refunds store path")
	cmd.Flags().Duration("no-auction-interval", 30*time.Second, "poll interval with no open auction")
	cmd.Flags().Duration("active-interval", 60*time.Second, "poll interval during an auction")
	cmd.Flags().Duration("closing-interval", 10*time.Second, "poll interval near auction expiry")
	cmd.Flags().Duration("closing-window", 5*time.Minute, "remaining time that counts as near expiry")
	cmd.Flags().Duration("max-backoff", 5*time.Minute, "cap for failed poll retries")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().String("price-url", price.DefaultURL, "ETH/USD rate endpoint")
	cmd.Flags().Duration("price-ttl", 10*time.Minute, "ETH/USD rate cache duration")
}

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	chain    *chain.Client
	idx      *index.PostgresGateway
	orch     *refresh.Orchestrator
	notifier *notify.Notifier
	price    *price.Client
}

func (a *app) close() {
	if a.idx != nil {
		a.idx.Close()
	}
	if a.chain != nil {
		a.chain.Close()
	}
}

func setup(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if cfg.AuctionAddress == "" {
		return nil, fmt.Errorf("auction contract address is required")
	}
	if cfg.IndexDSN == "" {
		return nil, fmt.Errorf("index dsn is required")
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.AuctionAddress)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	gateway, err := index.NewPostgresGateway(ctx, cfg.IndexDSN)
	if err != nil {
		chainClient.Close()
		return nil, fmt.Errorf("connect index: %w", err)
	}

	orch := refresh.NewOrchestrator(refresh.Config{
		NoAuctionInterval: cfg.NoAuctionInterval,
		ActiveInterval:    cfg.ActiveInterval,
		ClosingInterval:   cfg.ClosingInterval,
		ClosingWindow:     cfg.ClosingWindow,
		MaxBackoff:        cfg.MaxBackoff,
	}, gateway, chainClient, logger)

	notifier := notify.NewNotifier(gateway, notify.NewSeenStore(cfg.SeenPath), logger)
	priceClient := price.NewClient(cfg.PriceURL, cfg.PriceTTL, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		chain:    chainClient,
		idx:      gateway,
		orch:     orch,
		notifier: notifier,
		price:    priceClient,
	}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
