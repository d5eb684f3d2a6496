package types

import "github.com/babylonlabs-io/staking-ledger/internal/ledger"

// ParticipantState is a descriptive label of an account. Nothing enforces
// transitions between states, any valid operation is allowed at any time.
type ParticipantState string

const (
	StateUnstaked  ParticipantState = "UNSTAKED"
	StateStaked    ParticipantState = "STAKED"
	StateClaimable ParticipantState = "CLAIMABLE"
)

func (s ParticipantState) String() string {
	return string(s)
}

// StateOf derives the label of an account. Pending reward takes precedence
// over stake.
func StateOf(acc ledger.Account) ParticipantState {
	switch {
	case !acc.Reward.IsZero():
		return StateClaimable
	case !acc.Stake.IsZero():
		return StateStaked
	default:
		return StateUnstaked
	}
}
