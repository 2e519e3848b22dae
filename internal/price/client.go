// Package price fetches the ETH/USD exchange rate used to render bid
// amounts in dollars next to their ether values.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"auctionScope/internal/model"
)

const (
	// DefaultURL is CoinGecko's public simple-price endpoint.
	DefaultURL = "https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=usd"
	// DefaultTTL keeps the rate fresh enough for display while staying
	// well under the provider's rate limits.
	DefaultTTL = 10 * time.Minute
)

// Client fetches the ETH/USD rate with a short-lived cache. A failed
// fetch falls back to the cached rate while one exists: a rate provider
// outage degrades price display, it never breaks it.
type Client struct {
	httpClient *http.Client
	url        string
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.Mutex
	rate      decimal.Decimal
	fetchedAt time.Time
	hasRate   bool
}

func NewClient(url string, ttl time.Duration, logger *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        url,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// EthereumUSD returns the ETH/USD rate, served from cache within the
// TTL. When the fetch fails and a cached rate exists, the cached rate
// is returned instead of the error.
func (c *Client) EthereumUSD(ctx context.Context) (decimal.Decimal, error) {
	c.mu.Lock()
	if c.hasRate && c.now().Sub(c.fetchedAt) < c.ttl {
		rate := c.rate
		c.mu.Unlock()
		return rate, nil
	}
	c.mu.Unlock()

	rate, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if c.hasRate {
			c.logger.Warn("price fetch failed, serving cached rate", zap.Error(err))
			return c.rate, nil
		}
		return decimal.Decimal{}, err
	}
	c.rate = rate
	c.fetchedAt = c.now()
	c.hasRate = true
	return rate, nil
}

func (c *Client) fetch(ctx context.Context) (decimal.Decimal, error) {
	const op = "eth_usd_price"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, model.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, model.NewTransportError(op, fmt.Errorf("http status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, model.NewTransportError(op, err)
	}

	var payload struct {
		Ethereum struct {
			USD decimal.Decimal `json:"usd"`
		} `json:"ethereum"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Decimal{}, model.NewDecodeError(op, "body", string(body), err)
	}
	if payload.Ethereum.USD.IsZero() {
		return decimal.Decimal{}, model.NewDecodeError(op, "ethereum.usd", string(body), fmt.Errorf("missing rate"))
	}
	return payload.Ethereum.USD, nil
}
