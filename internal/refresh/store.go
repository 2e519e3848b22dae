package refresh

import (
	"errors"
	"fmt"
	"sync"
)

// ErrStaleRead marks a read that completed after a newer generation was
// established for its key. The result is dropped, not surfaced.
var ErrStaleRead = errors.New("stale read discarded")

// Kind names a cached resource class.
type Kind string

const (
	KindAuction   Kind = "auction"
	KindBids      Kind = "bids"
	KindOwnership Kind = "ownership"
	KindClaims    Kind = "claims"
	KindLifecycle Kind = "lifecycle"
)

// Key identifies one cached resource: a kind plus the auction id or
// address it is scoped to.
type Key struct {
	Kind Kind
	ID   string
}

func (k Key) String() string { return fmt.Sprintf("%s/%s", k.Kind, k.ID) }

// AuctionKey is the process-wide authoritative auction struct.
func AuctionKey() Key { return Key{Kind: KindAuction} }

// LifecycleKey is the derived open-auction view of the event index.
func LifecycleKey() Key { return Key{Kind: KindLifecycle} }

// BidsKey is the bid ledger of one auction.
func BidsKey(auctionID uint64) Key {
	return Key{Kind: KindBids, ID: fmt.Sprintf("%d", auctionID)}
}

// OwnershipKey is the owned-token set of one address.
func OwnershipKey(address string) Key {
	return Key{Kind: KindOwnership, ID: normalizeAddress(address)}
}

// ClaimsKey is the unclaimed mint/refund state of one address.
func ClaimsKey(address string) Key {
	return Key{Kind: KindClaims, ID: normalizeAddress(address)}
}

type entry struct {
	gen      uint64
	fresh    bool
	hasValue bool
	value    interface{}
	err      error
}

// Store is the process-wide keyed cache. Every key carries a monotonic
// generation counter: invalidation bumps it, and a read completion is
// accepted only if the generation it was issued under is still current.
// A completed stale read can therefore never overwrite the result of a
// newer generation.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[Key]*entry)}
}

func (s *Store) get(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}

// Begin returns the generation a read about to be issued runs under.
func (s *Store) Begin(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key).gen
}

// Invalidate bumps the key's generation and marks it stale. Any read
// issued under an earlier generation will be discarded on completion.
func (s *Store) Invalidate(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(key)
	e.gen++
	e.fresh = false
	return e.gen
}

// Complete records the outcome of a read issued under gen. Returns
// ErrStaleRead, leaving the entry untouched, if the key was invalidated
// after the read began. A successful completion consumes the generation,
// so a second completion issued under the same generation is rejected
// and cannot overwrite the committed result. A failed read keeps the
// previous value but surfaces the error until a later success clears it.
func (s *Store) Complete(key Key, gen uint64, value interface{}, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(key)
	if e.gen != gen {
		return ErrStaleRead
	}
	if err != nil {
		e.err = err
		e.fresh = false
		return nil
	}
	e.gen++
	e.value = value
	e.hasValue = true
	e.err = nil
	e.fresh = true
	return nil
}

// Get returns the cached value, the last error, and whether the entry is
// fresh. A stale entry still returns its last value so consumers can
// render it while a refetch runs.
func (s *Store) Get(key Key) (interface{}, error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(key)
	return e.value, e.err, e.fresh
}

// HasValue reports whether any completed read has populated the key.
func (s *Store) HasValue(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key).hasValue
}
