// Package notify tracks which refund events a user has already been
// shown, so a refund popup appears once per transaction.
package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// SeenStore persists viewed refund tx hashes per address in a local
// JSON file.
type SeenStore struct {
	path string
	mu   sync.Mutex
}

type seenRecord struct {
	Viewed    map[string][]string `json:"viewed"`
	UpdatedAt string              `json:"updated_at"`
}

func NewSeenStore(path string) *SeenStore {
	return &SeenStore{path: path}
}

// Viewed returns the tx hashes already shown to the address.
func (s *SeenStore) Viewed(address string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load()
	if err != nil {
		return nil, err
	}
	return rec.Viewed[normalize(address)], nil
}

// MarkViewed records that the address has seen the refund tx.
func (s *SeenStore) MarkViewed(address, txHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load()
	if err != nil {
		return err
	}

	key := normalize(address)
	for _, seen := range rec.Viewed[key] {
		if seen == txHash {
			return nil
		}
	}
	rec.Viewed[key] = append(rec.Viewed[key], txHash)
	return s.save(rec)
}

// Clear forgets every viewed refund for the address.
func (s *SeenStore) Clear(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load()
	if err != nil {
		return err
	}
	delete(rec.Viewed, normalize(address))
	return s.save(rec)
}

func (s *SeenStore) load() (seenRecord, error) {
	rec := seenRecord{Viewed: make(map[string][]string)}
	if s.path == "" {
		return rec, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return rec, nil
		}
		return rec, fmt.Errorf("read seen store: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse seen store: %w", err)
	}
	if rec.Viewed == nil {
		rec.Viewed = make(map[string][]string)
	}
	return rec, nil
}

func (s *SeenStore) save(rec seenRecord) error {
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create seen store dir: %w", err)
		}
	}

	rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal seen store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write seen store tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename seen store: %w", err)
	}
	return nil
}

func normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
