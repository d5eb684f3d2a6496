package types

import (
	"encoding/json"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/staking-ledger/pkg"
)

func TestEventTypeIsValid(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  bool
	}{
		{EventTransfer, true},
		{EventStakeCreated, true},
		{EventStakeRemoved, true},
		{EventRewardsDistributed, true},
		{EventRewardWithdrawn, true},
		{EventType("mint"), false},
		{EventType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.IsValid())
		})
	}
}

func TestLedgerEventJSON(t *testing.T) {
	addr := pkg.MustParseAddress("0x00000000000000000000000000000000000000bb")
	event := LedgerEvent{
		ID:       "id",
		Sequence: 3,
		Type:     EventRewardsDistributed,
		Caller:   addr,
		Amount:   sdkmath.NewUintFromString("1000000000000000000000"),
		Credits:  []Credit{{Address: addr, Amount: sdkmath.NewUint(1)}},
	}

	buff, err := json.Marshal(event)
	require.NoError(t, err)
	// amounts wider than 64 bits are rendered as decimal strings
	assert.Contains(t, string(buff), `"amount":"1000000000000000000000"`)
	assert.NotContains(t, string(buff), "recipient")
}
