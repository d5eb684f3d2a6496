package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/services"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

var (
	owner = pkg.MustParseAddress("0x00000000000000000000000000000000000000aa")
	user  = pkg.MustParseAddress("0x00000000000000000000000000000000000000bb")
)

func setupLedger(t *testing.T) (*config.Config, db.DbInterface, *services.Service) {
	t.Helper()

	cfg := &config.Config{
		Db: config.DbConfig{
			Driver:     config.DbDriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
		},
		Ledger: config.LedgerConfig{
			Owner:         owner.String(),
			InitialSupply: "100000",
		},
	}
	require.NoError(t, cfg.Ledger.Validate())
	require.NoError(t, cfg.Poller.Validate())

	store, err := db.Open(t.Context(), cfg.Db)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close(context.Background())
	})

	srv := services.NewService(cfg, store, nil)
	require.NoError(t, srv.Bootstrap(t.Context()))

	ctx := t.Context()
	_, svcErr := srv.Transfer(ctx, owner, user, sdkmath.NewUint(5000))
	require.Nil(t, svcErr)
	_, svcErr = srv.CreateStake(ctx, user, sdkmath.NewUint(3000))
	require.Nil(t, svcErr)
	_, svcErr = srv.DistributeRewards(ctx, owner)
	require.Nil(t, svcErr)

	return cfg, store, srv
}

func TestVerifyState(t *testing.T) {
	cfg, store, srv := setupLedger(t)
	require.NoError(t, srv.SaveSnapshot(t.Context()))

	// events after the snapshot are verified as well
	_, svcErr := srv.WithdrawReward(t.Context(), user)
	require.Nil(t, svcErr)

	assert.NoError(t, VerifyState(t.Context(), cfg, store))
}

func TestVerifyStateDetectsTamperedSnapshot(t *testing.T) {
	t.Run("totals changed", func(t *testing.T) {
		cfg, store, srv := setupLedger(t)
		require.NoError(t, srv.SaveSnapshot(t.Context()))

		snapshot, err := store.GetLedgerSnapshot(t.Context())
		require.NoError(t, err)
		snapshot.TotalRewards = "1"
		require.NoError(t, store.SaveLedgerSnapshot(t.Context(), snapshot))

		assert.ErrorContains(t, VerifyState(t.Context(), cfg, store), "does not match the stored snapshot")
	})

	t.Run("snapshot ahead of event log", func(t *testing.T) {
		cfg, store, srv := setupLedger(t)
		require.NoError(t, srv.SaveSnapshot(t.Context()))

		snapshot, err := store.GetLedgerSnapshot(t.Context())
		require.NoError(t, err)
		snapshot.Sequence += 10
		require.NoError(t, store.SaveLedgerSnapshot(t.Context(), snapshot))

		assert.ErrorContains(t, VerifyState(t.Context(), cfg, store), "before snapshot sequence")
	})
}

// failingEventStore refuses to append the event with failSequence.
type failingEventStore struct {
	db.DbInterface
	failSequence uint64
}

func (s *failingEventStore) SaveLedgerEvent(ctx context.Context, doc *model.LedgerEventDocument) error {
	if doc.Sequence == s.failSequence {
		return errors.New("disk full")
	}
	return s.DbInterface.SaveLedgerEvent(ctx, doc)
}

func TestVerifyStateAcrossEventLogGap(t *testing.T) {
	cfg, store, _ := setupLedger(t)
	ctx := t.Context()

	srv := services.NewService(cfg, &failingEventStore{DbInterface: store, failSequence: 4}, nil)
	require.NoError(t, srv.Bootstrap(ctx))

	// event 4 only survives in the snapshot saved in its place
	_, svcErr := srv.WithdrawReward(ctx, user)
	require.Nil(t, svcErr)
	_, svcErr = srv.CreateStake(ctx, user, sdkmath.NewUint(1))
	require.Nil(t, svcErr)

	events, err := store.GetLedgerEvents(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(5), events[0].Sequence)

	snapshot, err := store.GetLedgerSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), snapshot.Sequence)

	assert.NoError(t, VerifyState(ctx, cfg, store))

	// a plain replay from genesis stops at the gap
	genesis, err := cfg.Ledger.Genesis()
	require.NoError(t, err)
	l, err := ledger.New(genesis)
	require.NoError(t, err)
	_, err = services.Replay(ctx, store, l)
	require.ErrorIs(t, err, services.ErrEventGap)
	assert.Equal(t, uint64(3), l.Sequence())
}
