// Package ledger implements the stake-and-reward accounting engine.
//
// Every participant has three balances: spendable balance, locked stake and
// accrued reward. Staking burns spendable supply into the stake pool, reward
// distribution records a claim against future supply and withdrawal mints that
// claim back into circulation. After every operation the ledger guarantees:
//
//   - total supply equals the sum of all balances
//   - total stakes equals the sum of all stakes
//   - total rewards equals the sum of all rewards
//   - an address is in the stakeholder index iff its stake is positive
//
// All operations validate before writing, so a failed call leaves no trace.
package ledger

import (
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/staking-ledger/pkg"
)

// Config holds the genesis parameters of a ledger.
type Config struct {
	// Owner receives InitialSupply and is the only identity allowed to distribute rewards.
	Owner         pkg.Address
	InitialSupply sdkmath.Uint
	RewardRate    RewardRate
}

// Account is a read-only view of a participant's balances.
type Account struct {
	Balance sdkmath.Uint `json:"balance"`
	Stake   sdkmath.Uint `json:"stake"`
	Reward  sdkmath.Uint `json:"reward"`
}

func zeroAccount() Account {
	return Account{
		Balance: sdkmath.ZeroUint(),
		Stake:   sdkmath.ZeroUint(),
		Reward:  sdkmath.ZeroUint(),
	}
}

func (a Account) isZero() bool {
	return a.Balance.IsZero() && a.Stake.IsZero() && a.Reward.IsZero()
}

// Totals are the global aggregates of the ledger.
type Totals struct {
	TotalSupply  sdkmath.Uint `json:"total_supply"`
	TotalStakes  sdkmath.Uint `json:"total_stakes"`
	TotalRewards sdkmath.Uint `json:"total_rewards"`
}

type Ledger struct {
	mu sync.RWMutex

	owner pkg.Address
	rate  RewardRate

	accounts     map[pkg.Address]Account
	stakeholders *stakeholderIndex

	totalSupply  sdkmath.Uint
	totalStakes  sdkmath.Uint
	totalRewards sdkmath.Uint

	// sequence counts successful mutations.
	sequence uint64
}

// New creates a ledger crediting the initial supply to the owner.
func New(cfg Config) (*Ledger, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidConfig)
	}
	if cfg.InitialSupply == (sdkmath.Uint{}) {
		return nil, fmt.Errorf("%w: initial supply is required", ErrInvalidConfig)
	}
	if err := cfg.RewardRate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: reward rate %d/%d", err, cfg.RewardRate.Numerator, cfg.RewardRate.Denominator)
	}

	l := empty(cfg.Owner, cfg.RewardRate)
	if !cfg.InitialSupply.IsZero() {
		owner := zeroAccount()
		owner.Balance = cfg.InitialSupply
		l.accounts[cfg.Owner] = owner
		l.totalSupply = cfg.InitialSupply
	}

	return l, nil
}

func empty(owner pkg.Address, rate RewardRate) *Ledger {
	return &Ledger{
		owner:        owner,
		rate:         rate,
		accounts:     make(map[pkg.Address]Account),
		stakeholders: newStakeholderIndex(),
		totalSupply:  sdkmath.ZeroUint(),
		totalStakes:  sdkmath.ZeroUint(),
		totalRewards: sdkmath.ZeroUint(),
	}
}

// account returns the stored record or a zero one. Caller holds the lock.
func (l *Ledger) account(addr pkg.Address) Account {
	acc, ok := l.accounts[addr]
	if !ok {
		return zeroAccount()
	}
	return acc
}

// setAccount writes the record, dropping all-zero accounts. Caller holds the lock.
func (l *Ledger) setAccount(addr pkg.Address, acc Account) {
	if acc.isZero() {
		delete(l.accounts, addr)
		return
	}
	l.accounts[addr] = acc
}

func (l *Ledger) Owner() pkg.Address {
	return l.owner
}

func (l *Ledger) RewardRate() RewardRate {
	return l.rate
}

// Sequence returns the number of successful mutations applied so far.
func (l *Ledger) Sequence() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.sequence
}

// AccountOf returns all three balances of addr from a single consistent read.
func (l *Ledger) AccountOf(addr pkg.Address) Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.account(addr)
}

func (l *Ledger) BalanceOf(addr pkg.Address) sdkmath.Uint {
	return l.AccountOf(addr).Balance
}

func (l *Ledger) StakeOf(addr pkg.Address) sdkmath.Uint {
	return l.AccountOf(addr).Stake
}

func (l *Ledger) RewardOf(addr pkg.Address) sdkmath.Uint {
	return l.AccountOf(addr).Reward
}

// Totals returns the three aggregates from a single consistent read.
func (l *Ledger) Totals() Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return Totals{
		TotalSupply:  l.totalSupply,
		TotalStakes:  l.totalStakes,
		TotalRewards: l.totalRewards,
	}
}

func (l *Ledger) TotalSupply() sdkmath.Uint {
	return l.Totals().TotalSupply
}

func (l *Ledger) TotalStakes() sdkmath.Uint {
	return l.Totals().TotalStakes
}

func (l *Ledger) TotalRewards() sdkmath.Uint {
	return l.Totals().TotalRewards
}

// IsStakeholder reports whether addr has positive stake and its position in
// the stakeholder index. The position is -1 for non-members. Positions of
// other members may change when a stakeholder leaves the index.
func (l *Ledger) IsStakeholder(addr pkg.Address) (bool, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pos, ok := l.stakeholders.position(addr)
	if !ok {
		return false, -1
	}
	return true, pos
}

// Stakeholders returns a copy of the stakeholder index in order.
func (l *Ledger) Stakeholders() []pkg.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.stakeholders.list()
}

// StakeholderCount returns the size of the stakeholder index.
func (l *Ledger) StakeholderCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.stakeholders.len()
}
