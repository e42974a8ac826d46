package usecase

import (
	"context"
	"fmt"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
	"github.com/tgsilent/silentdelete/internal/biz/repo"
)

// RuleUsecase manages the trigger -> delay mapping.
type RuleUsecase struct {
	rules repo.RuleRepo
}

// NewRuleUsecase creates a rule usecase.
func NewRuleUsecase(rules repo.RuleRepo) *RuleUsecase {
	return &RuleUsecase{rules: rules}
}

// Add upserts a rule. delay is a number of seconds, optionally suffixed with
// "s"; an empty string means no delay. An existing trigger keeps its
// position and gets the new delay.
func (uc *RuleUsecase) Add(ctx context.Context, trigger, delay string) (domain.Rule, error) {
	seconds, err := domain.ParseDelay(delay)
	if err != nil {
		return domain.Rule{}, err
	}
	rule := domain.Rule{Trigger: trigger, Delay: seconds}
	if err := uc.rules.Upsert(ctx, rule); err != nil {
		return domain.Rule{}, fmt.Errorf("store rule: %w", err)
	}
	return rule, nil
}

// Remove deletes a rule. Returns domain.ErrRuleNotFound if the trigger is
// absent.
func (uc *RuleUsecase) Remove(ctx context.Context, trigger string) error {
	return uc.rules.Remove(ctx, trigger)
}

// List returns all rules in stored order.
func (uc *RuleUsecase) List(ctx context.Context) ([]domain.Rule, error) {
	return uc.rules.List(ctx)
}
