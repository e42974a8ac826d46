package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one completed deletion. Entries are immutable and
// appended in chronological order.
type HistoryEntry struct {
	ID    string    `json:"id"`
	Text  string    `json:"text"`  // full body of the deleted message
	Rule  string    `json:"rule"`  // trigger that matched
	Delay float64   `json:"delay"` // seconds waited before deleting
	Time  time.Time `json:"time"`
}

// NewHistoryEntry builds an entry for a deletion that just completed.
func NewHistoryEntry(text, rule string, delay float64) HistoryEntry {
	return HistoryEntry{
		ID:    uuid.NewString(),
		Text:  text,
		Rule:  rule,
		Delay: delay,
		Time:  time.Now(),
	}
}
