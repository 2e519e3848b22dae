package refresh

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"auctionScope/internal/index"
	"auctionScope/internal/model"
	"auctionScope/internal/resolve"
)

// ContractReader is the authoritative contract state gateway.
type ContractReader interface {
	CurrentAuction(ctx context.Context) (model.AuctionStruct, error)
}

// Config controls polling cadence. The interval tightens only when
// staleness risk is highest: near expiry, when contention for the final
// bid peaks.
type Config struct {
	// NoAuctionInterval applies while no auction is open.
	NoAuctionInterval time.Duration
	// ActiveInterval applies during normal auction periods.
	ActiveInterval time.Duration
	// ClosingInterval applies when the auction ends within ClosingWindow.
	ClosingInterval time.Duration
	ClosingWindow   time.Duration
	// MaxBackoff caps the retry delay after failed index polls.
	MaxBackoff time.Duration
}

// DefaultConfig returns the polling policy used in production.
func DefaultConfig() Config {
	return Config{
		NoAuctionInterval: 30 * time.Second,
		ActiveInterval:    60 * time.Second,
		ClosingInterval:   10 * time.Second,
		ClosingWindow:     5 * time.Minute,
		MaxBackoff:        5 * time.Minute,
	}
}

// BidStatus is an address's standing on one auction.
type BidStatus struct {
	HasBid    bool `json:"has_bid"`
	IsWinning bool `json:"is_winning"`
}

// Claims is an address's outstanding manual-settlement state.
type Claims struct {
	// UnclaimedMint is non-nil when an NFT is eligible to claim; it
	// carries the auction id the claim transaction needs.
	UnclaimedMint *model.FailedMintEvent `json:"unclaimed_mint"`
	// UnclaimedRefund reports whether a refund claim is owed. The claim
	// transaction takes no arguments, so no event detail is needed.
	UnclaimedRefund bool `json:"unclaimed_refund"`
}

// Update is pushed to subscribers when the derived open auction changes
// or an index poll fails.
type Update struct {
	Open *model.AuctionOpenedEvent
	Err  error
}

// Orchestrator reconciles the lagging event index with authoritative
// contract reads. Divergence of the derived open-auction id from the last
// known authoritative id is the only signal that justifies an expensive
// contract read; the index is never treated as authoritative for struct
// field values.
type Orchestrator struct {
	cfg      Config
	idx      index.Gateway
	contract ContractReader
	store    *Store
	group    singleflight.Group
	logger   *zap.Logger
	now      func() time.Time

	mu                  sync.Mutex
	lastAuthoritativeID uint64
	hasAuthoritative    bool
	derivedVanished     bool
	lastDerived         *model.AuctionOpenedEvent
	hasDerived          bool
	subs                map[uint64]chan Update
	nextSub             uint64
}

// NewOrchestrator builds an Orchestrator with its gateways.
func NewOrchestrator(cfg Config, idx index.Gateway, contract ContractReader, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NoAuctionInterval <= 0 {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		cfg:      cfg,
		idx:      idx,
		contract: contract,
		store:    NewStore(),
		logger:   logger,
		now:      time.Now,
		subs:     make(map[uint64]chan Update),
	}
}

// loadResult carries a coalesced load's value together with the
// generation the load started under, so every waiter of the flight
// completes with the flight's generation, not its own.
type loadResult struct {
	gen   uint64
	value interface{}
}

// cached serves a key from the store when fresh, otherwise issues a
// coalesced load tagged with the generation current when the load
// actually started. Concurrent callers share one outstanding load per
// key. A completion rejected as stale reissues the load under the new
// generation.
func (o *Orchestrator) cached(ctx context.Context, key Key, load func(context.Context) (interface{}, error)) (interface{}, error) {
	for {
		if v, err, fresh := o.store.Get(key); fresh {
			return v, err
		}
		v, err, _ := o.group.Do(key.String(), func() (interface{}, error) {
			// The generation is read inside the flight: a caller joining
			// an older flight must complete under the flight's generation,
			// never tag the flight's result with its own newer one. The
			// load context is detached so one caller's cancellation cannot
			// fail a read other callers are waiting on.
			res := loadResult{gen: o.store.Begin(key)}
			value, err := load(context.WithoutCancel(ctx))
			res.value = value
			return res, err
		})
		res, ok := v.(loadResult)
		if !ok {
			return nil, errors.New("unexpected cache load payload")
		}
		if cerr := o.store.Complete(key, res.gen, res.value, err); errors.Is(cerr, ErrStaleRead) {
			if err != nil {
				return nil, err
			}
			o.logger.Debug("stale read discarded", zap.String("key", key.String()), zap.Uint64("generation", res.gen))
			continue
		}
		return res.value, err
	}
}

// invalidate marks the key stale and forgets any in-flight load for it,
// so the next caller starts a fresh read instead of joining a flight
// that predates the invalidation.
func (o *Orchestrator) invalidate(key Key) {
	o.store.Invalidate(key)
	o.group.Forget(key.String())
}

// DerivedOpenAuction derives the current open auction from the event
// index and applies the divergence rule against the cached authoritative
// id. Returns nil with no error when no auction is open; a transport
// failure is an error, never conflated with "no open auction".
func (o *Orchestrator) DerivedOpenAuction(ctx context.Context) (*model.AuctionOpenedEvent, error) {
	v, err := o.cached(ctx, LifecycleKey(), func(ctx context.Context) (interface{}, error) {
		opened, closed, err := o.idx.AuctionLifecycle(ctx)
		if err != nil {
			return nil, err
		}
		return resolve.OpenAuction(opened, closed, uint64(o.now().Unix())), nil
	})
	if err != nil {
		return nil, err
	}
	derived, _ := v.(*model.AuctionOpenedEvent)
	o.applyDivergence(derived)
	return derived, nil
}

func (o *Orchestrator) applyDivergence(derived *model.AuctionOpenedEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.hasAuthoritative {
		return
	}
	if derived == nil {
		// The index stopped deriving an open auction (close indexed, or
		// the end time passed) while the cached struct may still say
		// open. That is a divergence too. The latch makes it a one-shot:
		// a long no-auction period must not re-read every poll tick.
		if !o.derivedVanished {
			o.derivedVanished = true
			o.logger.Info("index no longer derives an open auction",
				zap.Uint64("authoritative_id", o.lastAuthoritativeID),
			)
			o.invalidate(AuctionKey())
		}
		return
	}
	o.derivedVanished = false
	if derived.AuctionID != o.lastAuthoritativeID {
		o.logger.Info("index diverged from authoritative auction",
			zap.Uint64("derived_id", derived.AuctionID),
			zap.Uint64("authoritative_id", o.lastAuthoritativeID),
		)
		o.invalidate(AuctionKey())
	}
}

// CurrentAuction returns the authoritative auction struct, reading the
// contract only when the cache has been invalidated.
func (o *Orchestrator) CurrentAuction(ctx context.Context) (model.AuctionStruct, error) {
	// Refresh the derived view first so divergence can invalidate the
	// struct before it is served. An index failure is not fatal here: it
	// is retried on the next poll tick while the authoritative cache
	// keeps serving.
	if _, err := o.DerivedOpenAuction(ctx); err != nil {
		o.logger.Warn("event index read failed", zap.Error(err))
	}

	v, err := o.cached(ctx, AuctionKey(), func(ctx context.Context) (interface{}, error) {
		return o.contract.CurrentAuction(ctx)
	})
	if err != nil {
		return model.AuctionStruct{}, err
	}
	auction, ok := v.(model.AuctionStruct)
	if !ok {
		return model.AuctionStruct{}, errors.New("unexpected auction cache payload")
	}
	o.noteAuthoritative(auction)
	return auction, nil
}

func (o *Orchestrator) noteAuthoritative(auction model.AuctionStruct) {
	o.mu.Lock()
	changed := !o.hasAuthoritative || o.lastAuthoritativeID != auction.AuctionID
	o.lastAuthoritativeID = auction.AuctionID
	o.hasAuthoritative = true
	o.mu.Unlock()

	// A new auction id means any cached ledger for it predates the
	// authoritative read.
	if changed {
		o.invalidate(BidsKey(auction.AuctionID))
	}
}

// BidLedger returns the processed bid history of one auction; nil when
// no bids have been placed.
func (o *Orchestrator) BidLedger(ctx context.Context, auctionID uint64) (*resolve.BidLedger, error) {
	v, err := o.cached(ctx, BidsKey(auctionID), func(ctx context.Context) (interface{}, error) {
		bids, err := o.idx.BidsByAuction(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		return resolve.ProcessBids(bids)
	})
	if err != nil {
		return nil, err
	}
	ledger, _ := v.(*resolve.BidLedger)
	return ledger, nil
}

// BidStatus reports whether the address has bid on and is winning the
// auction. Address comparison is case-insensitive.
func (o *Orchestrator) BidStatus(ctx context.Context, auctionID uint64, address string) (BidStatus, error) {
	ledger, err := o.BidLedger(ctx, auctionID)
	if err != nil {
		return BidStatus{}, err
	}
	return BidStatus{
		HasBid:    ledger.HasBid(address),
		IsWinning: ledger.IsWinning(address),
	}, nil
}

// OwnedTokens returns the tokens currently held by the address, derived
// from its transfer history.
func (o *Orchestrator) OwnedTokens(ctx context.Context, address string) ([]model.OwnedNFT, error) {
	addr := normalizeAddress(address)
	v, err := o.cached(ctx, OwnershipKey(addr), func(ctx context.Context) (interface{}, error) {
		received, err := o.idx.TransfersByReceiver(ctx, addr)
		if err != nil {
			return nil, err
		}
		sent, err := o.idx.TransfersBySender(ctx, addr)
		if err != nil {
			return nil, err
		}
		return resolve.OwnedTokens(received, sent), nil
	})
	if err != nil {
		return nil, err
	}
	tokens, _ := v.([]model.OwnedNFT)
	return tokens, nil
}

// AddressClaims returns the address's outstanding mint and refund claims.
func (o *Orchestrator) AddressClaims(ctx context.Context, address string) (Claims, error) {
	addr := normalizeAddress(address)
	v, err := o.cached(ctx, ClaimsKey(addr), func(ctx context.Context) (interface{}, error) {
		failedMints, err := o.idx.FailedMintsByAddress(ctx, addr)
		if err != nil {
			return nil, err
		}
		finalized, err := o.idx.FinalizedAuctionsByAddress(ctx, addr)
		if err != nil {
			return nil, err
		}
		failedRefunds, err := o.idx.FailedRefundsByAddress(ctx, addr)
		if err != nil {
			return nil, err
		}
		refunds, err := o.idx.RefundsByAddress(ctx, addr)
		if err != nil {
			return nil, err
		}
		return Claims{
			UnclaimedMint:   resolve.UnclaimedMint(failedMints, finalized),
			UnclaimedRefund: resolve.HasUnclaimedRefund(failedRefunds, refunds),
		}, nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, _ := v.(Claims)
	return claims, nil
}

// UnclaimedMint returns the failed mint still owed to the address, nil
// when there is none.
func (o *Orchestrator) UnclaimedMint(ctx context.Context, address string) (*model.FailedMintEvent, error) {
	claims, err := o.AddressClaims(ctx, address)
	if err != nil {
		return nil, err
	}
	return claims.UnclaimedMint, nil
}

// UnclaimedRefund reports whether the address has a refund to claim.
func (o *Orchestrator) UnclaimedRefund(ctx context.Context, address string) (bool, error) {
	claims, err := o.AddressClaims(ctx, address)
	if err != nil {
		return false, err
	}
	return claims.UnclaimedRefund, nil
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
