package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
)

// HistoryStore persists the deletion log as a JSON array document, rewritten
// in full on every append. Entries stay in chronological order and are never
// removed. A missing file is an empty log.
type HistoryStore struct {
	path string

	mu      sync.RWMutex
	entries []domain.HistoryEntry
}

// NewHistoryStore opens the store at path, loading the document if it
// exists.
func NewHistoryStore(path string) (*HistoryStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	s := &HistoryStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HistoryStore) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read history document: %w", err)
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse history document: %w", err)
	}
	s.entries = entries
	return nil
}

// Append records one deletion and rewrites the document.
func (s *HistoryStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)

	raw, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode history document: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write history document: %w", err)
	}
	return nil
}

// List returns a copy of all entries in chronological order.
func (s *HistoryStore) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Count returns the number of recorded deletions.
func (s *HistoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
