package repo

import (
	"context"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
)

// RuleRepo stores the trigger -> delay mapping. Implementations must keep
// insertion order (matching is first-match-wins over that order), persist
// synchronously on every mutation, and be safe for concurrent use.
type RuleRepo interface {
	// Upsert adds a rule or updates the delay of an existing trigger,
	// keeping its position.
	Upsert(ctx context.Context, rule domain.Rule) error
	// Remove deletes a rule. Returns domain.ErrRuleNotFound if the trigger
	// is absent, leaving the store unchanged.
	Remove(ctx context.Context, trigger string) error
	// List returns all rules in stored order.
	List(ctx context.Context) ([]domain.Rule, error)
}
