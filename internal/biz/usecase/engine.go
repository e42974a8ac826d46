package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
	"github.com/tgsilent/silentdelete/internal/biz/repo"
)

// EngineUsecase decides, for each inbound message event, whether to delete
// the message. Matching is first-match-wins over the rule store's order; a
// matched rule with a positive delay waits before deleting. The engine never
// surfaces errors to the control surface; failures are logged by the caller.
type EngineUsecase struct {
	rules   repo.RuleRepo
	history repo.HistoryRepo
	log     *slog.Logger

	mu      sync.RWMutex
	enabled bool
}

// NewEngineUsecase creates the deletion engine with the initial value of the
// enabled toggle.
func NewEngineUsecase(rules repo.RuleRepo, history repo.HistoryRepo, enabled bool, log *slog.Logger) *EngineUsecase {
	return &EngineUsecase{
		rules:   rules,
		history: history,
		enabled: enabled,
		log:     log.With("component", "engine"),
	}
}

// SetEnabled flips the process-wide deletion toggle and returns the new
// value.
func (uc *EngineUsecase) SetEnabled(v bool) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.enabled = v
	return uc.enabled
}

// Enabled reports the current value of the deletion toggle.
func (uc *EngineUsecase) Enabled() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.enabled
}

// HandleMessage evaluates one event, synchronously. The caller runs each
// event on its own goroutine so a delayed deletion does not hold up others.
// The history entry is appended only after the delete call returned without
// error, so the log never records a deletion that did not happen.
func (uc *EngineUsecase) HandleMessage(ctx context.Context, deleter repo.Deleter, ev domain.MessageEvent) error {
	if !uc.Enabled() {
		return nil
	}

	rules, err := uc.rules.List(ctx)
	if err != nil {
		return fmt.Errorf("list rules: %w", err)
	}

	for _, r := range rules {
		if !strings.Contains(ev.Text, r.Trigger) {
			continue
		}

		if d := r.Duration(); d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := deleter.Delete(ctx, ev.Ref); err != nil {
			return fmt.Errorf("delete message %d: %w", ev.Ref.ID, err)
		}

		entry := domain.NewHistoryEntry(ev.Text, r.Trigger, r.Delay)
		if err := uc.history.Append(ctx, entry); err != nil {
			return fmt.Errorf("record deletion: %w", err)
		}

		uc.log.Info("message deleted",
			"msg_id", ev.Ref.ID,
			"rule", r.Trigger,
			"delay", r.Delay)
		return nil
	}

	return nil
}
