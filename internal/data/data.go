package data

import (
	"fmt"

	"github.com/tgsilent/silentdelete/internal/biz/repo"
)

// Repositories contains all repositories
type Repositories struct {
	Rules   repo.RuleRepo
	History repo.HistoryRepo
}

// NewRepositories creates all repositories
func NewRepositories(rulesPath, historyPath string) (*Repositories, error) {
	rules, err := NewRuleStore(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("open rule store: %w", err)
	}
	history, err := NewHistoryStore(historyPath)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &Repositories{
		Rules:   rules,
		History: history,
	}, nil
}
