package ledger

import (
	"fmt"
	"sort"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/staking-ledger/pkg"
)

// AccountState is a single account inside a Snapshot.
type AccountState struct {
	Address pkg.Address
	Account
}

// Snapshot is a deep, self-contained copy of the ledger state.
type Snapshot struct {
	Owner      pkg.Address
	RewardRate RewardRate
	Sequence   uint64
	// Accounts holds non-zero accounts sorted by address.
	Accounts []AccountState
	// Stakeholders in index order.
	Stakeholders []pkg.Address
	Totals
}

// Snapshot copies the current state under one read lock.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := make([]AccountState, 0, len(l.accounts))
	for addr, acc := range l.accounts {
		accounts = append(accounts, AccountState{Address: addr, Account: acc})
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Address < accounts[j].Address
	})

	return &Snapshot{
		Owner:        l.owner,
		RewardRate:   l.rate,
		Sequence:     l.sequence,
		Accounts:     accounts,
		Stakeholders: l.stakeholders.list(),
		Totals: Totals{
			TotalSupply:  l.totalSupply,
			TotalStakes:  l.totalStakes,
			TotalRewards: l.totalRewards,
		},
	}
}

// Restore builds a ledger from a snapshot. Snapshots that break any ledger
// invariant are rejected with ErrCorruptSnapshot.
func Restore(s *Snapshot) (*Ledger, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrCorruptSnapshot)
	}
	if s.Owner == "" {
		return nil, fmt.Errorf("%w: missing owner", ErrCorruptSnapshot)
	}
	if err := s.RewardRate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: reward rate %d/%d", ErrCorruptSnapshot, s.RewardRate.Numerator, s.RewardRate.Denominator)
	}

	l := empty(s.Owner, s.RewardRate)
	l.sequence = s.Sequence
	for _, acc := range s.Accounts {
		if _, dup := l.accounts[acc.Address]; dup {
			return nil, fmt.Errorf("%w: duplicate account %s", ErrCorruptSnapshot, acc.Address)
		}
		if !accountInitialized(acc.Account) {
			return nil, fmt.Errorf("%w: account %s has unset fields", ErrCorruptSnapshot, acc.Address)
		}
		l.setAccount(acc.Address, acc.Account)
	}
	for _, addr := range s.Stakeholders {
		if _, dup := l.stakeholders.position(addr); dup {
			return nil, fmt.Errorf("%w: duplicate stakeholder %s", ErrCorruptSnapshot, addr)
		}
		l.stakeholders.insert(addr)
	}
	if !totalsInitialized(s.Totals) {
		return nil, fmt.Errorf("%w: unset totals", ErrCorruptSnapshot)
	}
	l.totalSupply = s.TotalSupply
	l.totalStakes = s.TotalStakes
	l.totalRewards = s.TotalRewards

	if err := l.checkInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	return l, nil
}

func accountInitialized(a Account) bool {
	unset := sdkmath.Uint{}
	return a.Balance != unset && a.Stake != unset && a.Reward != unset
}

func totalsInitialized(t Totals) bool {
	unset := sdkmath.Uint{}
	return t.TotalSupply != unset && t.TotalStakes != unset && t.TotalRewards != unset
}

// CheckInvariants recomputes every aggregate and the stakeholder membership
// from the accounts and reports the first mismatch.
func (l *Ledger) CheckInvariants() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.checkInvariants()
}

func (l *Ledger) checkInvariants() error {
	var err error
	supply, stakes, rewards := sdkmath.ZeroUint(), sdkmath.ZeroUint(), sdkmath.ZeroUint()
	for addr, acc := range l.accounts {
		if supply, err = checkedAdd(supply, acc.Balance); err != nil {
			return err
		}
		if stakes, err = checkedAdd(stakes, acc.Stake); err != nil {
			return err
		}
		if rewards, err = checkedAdd(rewards, acc.Reward); err != nil {
			return err
		}

		_, member := l.stakeholders.position(addr)
		if member != !acc.Stake.IsZero() {
			return fmt.Errorf("stakeholder index membership of %s does not match stake %s", addr, acc.Stake)
		}
	}

	if !supply.Equal(l.totalSupply) {
		return fmt.Errorf("total supply %s does not match sum of balances %s", l.totalSupply, supply)
	}
	if !stakes.Equal(l.totalStakes) {
		return fmt.Errorf("total stakes %s does not match sum of stakes %s", l.totalStakes, stakes)
	}
	if !rewards.Equal(l.totalRewards) {
		return fmt.Errorf("total rewards %s does not match sum of rewards %s", l.totalRewards, rewards)
	}

	// members without a stored account have zero stake
	for _, addr := range l.stakeholders.members {
		if l.account(addr).Stake.IsZero() {
			return fmt.Errorf("stakeholder %s has no stake", addr)
		}
	}

	return nil
}
