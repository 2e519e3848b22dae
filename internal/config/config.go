package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL         string
	AuctionAddress string
	IndexDSN       string
	HTTPAddr       string
	Address        string
	SeenPath       string
	LogLevel       string
	PriceURL       string
	PriceTTL       time.Duration

	NoAuctionInterval time.Duration
	ActiveInterval    time.Duration
	ClosingInterval   time.Duration
	ClosingWindow     time.Duration
	MaxBackoff        time.Duration
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AUCTIONSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("http-addr", ":8080")
	v.SetDefault("seen-path", "./data/viewed_refunds.json")
	v.SetDefault("log-level", "info")
	v.SetDefault("price-ttl", 10*time.Minute)
	v.SetDefault("no-auction-interval", 30*time.Second)
	v.SetDefault("active-interval", 60*time.Second)
	v.SetDefault("closing-interval", 10*time.Second)
	v.SetDefault("closing-window", 5*time.Minute)
	v.SetDefault("max-backoff", 5*time.Minute)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:            v.GetString("rpc"),
		AuctionAddress:    v.GetString("auction-address"),
		IndexDSN:          v.GetString("index-dsn"),
		HTTPAddr:          v.GetString("http-addr"),
		Address:           v.GetString("address"),
		SeenPath:          v.GetString("seen-path"),
		LogLevel:          v.GetString("log-level"),
		PriceURL:          v.GetString("price-url"),
		PriceTTL:          v.GetDuration("price-ttl"),
		NoAuctionInterval: v.GetDuration("no-auction-interval"),
		ActiveInterval:    v.GetDuration("active-interval"),
		ClosingInterval:   v.GetDuration("closing-interval"),
		ClosingWindow:     v.GetDuration("closing-window"),
		MaxBackoff:        v.GetDuration("max-backoff"),
	}

	return cfg, nil
}
