package price

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"auctionScope/internal/model"
)

func TestEthereumUSDCachedWithinTTL(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"ethereum":{"usd":2345.67}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10*time.Minute, nil)
	ctx := context.Background()

	rate, err := c.EthereumUSD(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.String() != "2345.67" {
		t.Fatalf("rate mismatch: %s", rate)
	}

	if _, err := c.EthereumUSD(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("rate within TTL must be served from cache, got %d fetches", got)
	}
}

func TestEthereumUSDFallsBackToCacheOnError(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ethereum":{"usd":2000}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Nanosecond, nil)
	ctx := context.Background()

	if _, err := c.EthereumUSD(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failing.Store(true)
	rate, err := c.EthereumUSD(ctx)
	if err != nil {
		t.Fatalf("provider outage with a cached rate must not error: %v", err)
	}
	if rate.String() != "2000" {
		t.Fatalf("expected cached rate, got %s", rate)
	}
}

func TestEthereumUSDErrorWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, nil)

	_, err := c.EthereumUSD(context.Background())
	var transport *model.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestEthereumUSDMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ethereum":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, nil)

	_, err := c.EthereumUSD(context.Background())
	var decodeErr *model.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}
