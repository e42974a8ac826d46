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

// RuleStore persists rules as a JSON array document, rewritten in full on
// every mutation. The array keeps insertion order, which is what matching
// iterates. A missing file is an empty store.
type RuleStore struct {
	path string

	mu    sync.RWMutex
	rules []domain.Rule
	index map[string]int // trigger -> position in rules
}

// NewRuleStore opens the store at path, loading the document if it exists.
func NewRuleStore(path string) (*RuleStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create rules directory: %w", err)
		}
	}

	s := &RuleStore{path: path, index: make(map[string]int)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RuleStore) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read rules document: %w", err)
	}

	var rules []domain.Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return fmt.Errorf("parse rules document: %w", err)
	}

	s.rules = rules
	for i, r := range rules {
		s.index[r.Trigger] = i
	}
	return nil
}

// persist rewrites the whole document. Callers hold the write lock.
func (s *RuleStore) persist() error {
	raw, err := json.Marshal(s.rules)
	if err != nil {
		return fmt.Errorf("encode rules document: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write rules document: %w", err)
	}
	return nil
}

// Upsert adds a rule or updates an existing trigger's delay in place.
func (s *RuleStore) Upsert(ctx context.Context, rule domain.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[rule.Trigger]; ok {
		s.rules[i] = rule
	} else {
		s.index[rule.Trigger] = len(s.rules)
		s.rules = append(s.rules, rule)
	}
	return s.persist()
}

// Remove deletes a rule, keeping the order of the remaining ones.
func (s *RuleStore) Remove(ctx context.Context, trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[trigger]
	if !ok {
		return domain.ErrRuleNotFound
	}

	s.rules = append(s.rules[:i], s.rules[i+1:]...)
	delete(s.index, trigger)
	for j := i; j < len(s.rules); j++ {
		s.index[s.rules[j].Trigger] = j
	}
	return s.persist()
}

// List returns a copy of all rules in stored order.
func (s *RuleStore) List(ctx context.Context) ([]domain.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Rule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}
