package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/testutil"
)

func newSQLite(t *testing.T) *db.SQLiteDatabase {
	t.Helper()

	store, err := db.NewSQLite(t.Context(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close(t.Context())
	})
	return store
}

func TestSQLiteLedgerSnapshot(t *testing.T) {
	ctx := t.Context()
	store := newSQLite(t)

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetLedgerSnapshot(ctx)
		require.Error(t, err)
		assert.True(t, db.IsNotFoundError(err))
	})

	t.Run("save and replace", func(t *testing.T) {
		first := testutil.GenerateSnapshotDocument(t, 3)
		require.NoError(t, store.SaveLedgerSnapshot(ctx, first))

		got, err := store.GetLedgerSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, got)

		second := testutil.GenerateSnapshotDocument(t, 5)
		require.NoError(t, store.SaveLedgerSnapshot(ctx, second))

		got, err = store.GetLedgerSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})

	t.Run("older sequence is ignored", func(t *testing.T) {
		stale := testutil.GenerateSnapshotDocument(t, 1)
		require.NoError(t, store.SaveLedgerSnapshot(ctx, stale))

		got, err := store.GetLedgerSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), got.Sequence)
	})
}

func TestSQLiteLedgerEvents(t *testing.T) {
	ctx := t.Context()
	store := newSQLite(t)

	last, err := store.GetLastEventSequence(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)

	docs := testutil.GenerateEventDocuments(t, 1, 10)
	for _, doc := range docs {
		require.NoError(t, store.SaveLedgerEvent(ctx, doc))
	}

	t.Run("duplicate sequence", func(t *testing.T) {
		dup := testutil.GenerateEventDocuments(t, 4, 1)[0]
		err := store.SaveLedgerEvent(ctx, dup)
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKeyError(err))
	})

	t.Run("last sequence", func(t *testing.T) {
		last, err := store.GetLastEventSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), last)
	})

	t.Run("events after sequence", func(t *testing.T) {
		events, err := store.GetLedgerEvents(ctx, 7, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, docs[7:], events)
	})

	t.Run("limit", func(t *testing.T) {
		events, err := store.GetLedgerEvents(ctx, 0, 4)
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, uint64(1), events[0].Sequence)
		assert.Equal(t, uint64(4), events[3].Sequence)
	})

	t.Run("nothing after last", func(t *testing.T) {
		events, err := store.GetLedgerEvents(ctx, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestSQLiteReopen(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	store, err := db.NewSQLite(ctx, path)
	require.NoError(t, err)
	for _, doc := range testutil.GenerateEventDocuments(t, 1, 3) {
		require.NoError(t, store.SaveLedgerEvent(ctx, doc))
	}
	require.NoError(t, store.Close(ctx))

	store, err = db.NewSQLite(ctx, path)
	require.NoError(t, err)
	defer store.Close(ctx)

	last, err := store.GetLastEventSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)
}
