package model

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

// Amounts are stored as base-10 strings, they don't fit into any bson number type.
type AccountDocument struct {
	Address string `bson:"address" json:"address"`
	Balance string `bson:"balance" json:"balance"`
	Stake   string `bson:"stake" json:"stake"`
	Reward  string `bson:"reward" json:"reward"`
}

type LedgerSnapshotDocument struct {
	Owner                 string            `bson:"owner" json:"owner"`
	RewardRateNumerator   uint64            `bson:"reward_rate_numerator" json:"reward_rate_numerator"`
	RewardRateDenominator uint64            `bson:"reward_rate_denominator" json:"reward_rate_denominator"`
	Sequence              uint64            `bson:"sequence" json:"sequence"`
	Accounts              []AccountDocument `bson:"accounts" json:"accounts"`
	Stakeholders          []string          `bson:"stakeholders" json:"stakeholders"`
	TotalSupply           string            `bson:"total_supply" json:"total_supply"`
	TotalStakes           string            `bson:"total_stakes" json:"total_stakes"`
	TotalRewards          string            `bson:"total_rewards" json:"total_rewards"`
	UpdatedAt             int64             `bson:"updated_at" json:"updated_at"`
}

func FromLedgerSnapshot(s *ledger.Snapshot, updatedAt int64) *LedgerSnapshotDocument {
	accounts := make([]AccountDocument, 0, len(s.Accounts))
	for _, acc := range s.Accounts {
		accounts = append(accounts, AccountDocument{
			Address: acc.Address.String(),
			Balance: acc.Balance.String(),
			Stake:   acc.Stake.String(),
			Reward:  acc.Reward.String(),
		})
	}

	stakeholders := make([]string, 0, len(s.Stakeholders))
	for _, addr := range s.Stakeholders {
		stakeholders = append(stakeholders, addr.String())
	}

	return &LedgerSnapshotDocument{
		Owner:                 s.Owner.String(),
		RewardRateNumerator:   s.RewardRate.Numerator,
		RewardRateDenominator: s.RewardRate.Denominator,
		Sequence:              s.Sequence,
		Accounts:              accounts,
		Stakeholders:          stakeholders,
		TotalSupply:           s.TotalSupply.String(),
		TotalStakes:           s.TotalStakes.String(),
		TotalRewards:          s.TotalRewards.String(),
		UpdatedAt:             updatedAt,
	}
}

// ToLedgerSnapshot parses the stored document. It doesn't check ledger
// invariants, ledger.Restore does.
func (d *LedgerSnapshotDocument) ToLedgerSnapshot() (*ledger.Snapshot, error) {
	owner, err := pkg.ParseAddress(d.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot owner: %w", err)
	}

	accounts := make([]ledger.AccountState, 0, len(d.Accounts))
	for _, doc := range d.Accounts {
		acc, err := doc.toAccountState()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	stakeholders := make([]pkg.Address, 0, len(d.Stakeholders))
	for _, raw := range d.Stakeholders {
		addr, err := pkg.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid stakeholder: %w", err)
		}
		stakeholders = append(stakeholders, addr)
	}

	totals, err := parseAmounts(d.TotalSupply, d.TotalStakes, d.TotalRewards)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot totals: %w", err)
	}

	return &ledger.Snapshot{
		Owner: owner,
		RewardRate: ledger.RewardRate{
			Numerator:   d.RewardRateNumerator,
			Denominator: d.RewardRateDenominator,
		},
		Sequence:     d.Sequence,
		Accounts:     accounts,
		Stakeholders: stakeholders,
		Totals: ledger.Totals{
			TotalSupply:  totals[0],
			TotalStakes:  totals[1],
			TotalRewards: totals[2],
		},
	}, nil
}

func (d AccountDocument) toAccountState() (ledger.AccountState, error) {
	addr, err := pkg.ParseAddress(d.Address)
	if err != nil {
		return ledger.AccountState{}, fmt.Errorf("invalid account address: %w", err)
	}

	amounts, err := parseAmounts(d.Balance, d.Stake, d.Reward)
	if err != nil {
		return ledger.AccountState{}, fmt.Errorf("invalid account %s: %w", addr, err)
	}

	return ledger.AccountState{
		Address: addr,
		Account: ledger.Account{
			Balance: amounts[0],
			Stake:   amounts[1],
			Reward:  amounts[2],
		},
	}, nil
}

func parseAmounts(raw ...string) ([]sdkmath.Uint, error) {
	out := make([]sdkmath.Uint, len(raw))
	for i, s := range raw {
		amount, err := sdkmath.ParseUint(s)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		out[i] = amount
	}
	return out, nil
}
