package repo

import (
	"context"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
)

// HistoryRepo is the append-only record of completed deletions.
// Implementations persist synchronously on every append and are safe for
// concurrent use. Entries are never removed.
type HistoryRepo interface {
	// Append records a deletion and persists the log.
	Append(ctx context.Context, entry domain.HistoryEntry) error
	// List returns all entries in chronological order.
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	// Count returns the number of recorded deletions.
	Count(ctx context.Context) (int, error)
}
