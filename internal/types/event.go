package types

import (
	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/staking-ledger/pkg"
)

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventTransfer           EventType = "transfer"
	EventStakeCreated       EventType = "stake_created"
	EventStakeRemoved       EventType = "stake_removed"
	EventRewardsDistributed EventType = "rewards_distributed"
	EventRewardWithdrawn    EventType = "reward_withdrawn"
)

// IsValid reports whether e is one of the known ledger event types.
func (e EventType) IsValid() bool {
	switch e {
	case EventTransfer, EventStakeCreated, EventStakeRemoved, EventRewardsDistributed, EventRewardWithdrawn:
		return true
	}
	return false
}

// Credit is a single stakeholder's share of a distribution.
type Credit struct {
	Address pkg.Address  `json:"address"`
	Amount  sdkmath.Uint `json:"amount"`
}

// LedgerEvent records one successful ledger mutation. Replaying the events in
// sequence order against a genesis ledger reproduces the ledger state.
type LedgerEvent struct {
	ID        string       `json:"id"`
	Sequence  uint64       `json:"sequence"`
	Type      EventType    `json:"type"`
	Caller    pkg.Address  `json:"caller"`
	Recipient pkg.Address  `json:"recipient,omitempty"`
	Amount    sdkmath.Uint `json:"amount"`
	Credits   []Credit     `json:"credits,omitempty"`
	Timestamp int64        `json:"timestamp"`
}
