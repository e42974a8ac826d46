package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
)

func TestHistoryStoreMissingFileIsEmpty(t *testing.T) {
	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHistoryStoreAppendAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := NewHistoryStore(path)
	require.NoError(t, err)

	e1 := domain.NewHistoryEntry("first message", "first", 0)
	e2 := domain.NewHistoryEntry("second message", "second", 1.5)
	require.NoError(t, store.Append(ctx, e1))
	require.NoError(t, store.Append(ctx, e2))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, e1.ID, entries[0].ID)
	assert.Equal(t, e2.ID, entries[1].ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	reloaded, err := NewHistoryStore(path)
	require.NoError(t, err)
	entries, err = reloaded.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Rule)
	assert.Equal(t, "second", entries[1].Rule)
	assert.Equal(t, 1.5, entries[1].Delay)
}
