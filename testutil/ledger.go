package testutil

import (
	"fmt"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

// RandomAddress returns a random checksummed participant address.
func RandomAddress(t *testing.T) pkg.Address {
	t.Helper()

	raw := fmt.Sprintf("0x%016x%016x%08x", gofakeit.Uint64(), gofakeit.Uint64(), gofakeit.Uint32())
	addr, err := pkg.ParseAddress(raw)
	require.NoError(t, err)
	return addr
}

// GenerateStakeEvent builds a stake_created event with random caller and amount.
func GenerateStakeEvent(t *testing.T, sequence uint64) *types.LedgerEvent {
	t.Helper()

	return &types.LedgerEvent{
		ID:        uuid.NewString(),
		Sequence:  sequence,
		Type:      types.EventStakeCreated,
		Caller:    RandomAddress(t),
		Amount:    sdkmath.NewUint(uint64(gofakeit.IntRange(1, 1_000_000))),
		Timestamp: time.Now().Unix(),
	}
}

// GenerateEventDocuments returns count event documents with consecutive
// sequences starting at first.
func GenerateEventDocuments(t *testing.T, first uint64, count int) []*model.LedgerEventDocument {
	t.Helper()

	docs := make([]*model.LedgerEventDocument, 0, count)
	for i := range count {
		docs = append(docs, model.FromLedgerEvent(GenerateStakeEvent(t, first+uint64(i))))
	}
	return docs
}

// GenerateSnapshotDocument returns a consistent snapshot with a single owner account.
func GenerateSnapshotDocument(t *testing.T, sequence uint64) *model.LedgerSnapshotDocument {
	t.Helper()

	owner := RandomAddress(t)
	supply := fmt.Sprint(gofakeit.IntRange(1, 1_000_000))
	return &model.LedgerSnapshotDocument{
		Owner:                 owner.String(),
		RewardRateNumerator:   1,
		RewardRateDenominator: 100,
		Sequence:              sequence,
		Accounts: []model.AccountDocument{
			{Address: owner.String(), Balance: supply, Stake: "0", Reward: "0"},
		},
		Stakeholders: []string{},
		TotalSupply:  supply,
		TotalStakes:  "0",
		TotalRewards: "0",
		UpdatedAt:    time.Now().Unix(),
	}
}
