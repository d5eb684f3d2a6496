package ledger

import (
	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/staking-ledger/pkg"
)

// Receipt describes a successful single-account mutation.
type Receipt struct {
	// Sequence of the mutation, starting at 1.
	Sequence uint64
	Amount   sdkmath.Uint
}

// Credit is the reward credited to a single stakeholder.
type Credit struct {
	Address pkg.Address
	Amount  sdkmath.Uint
}

// Distribution describes a successful reward distribution.
type Distribution struct {
	Sequence uint64
	// Credits in stakeholder index order. Stakeholders earning zero are omitted.
	Credits []Credit
	Total   sdkmath.Uint
}

func validAmount(amount sdkmath.Uint) bool {
	return amount != (sdkmath.Uint{}) && !amount.IsZero()
}

// Transfer hands spendable owner balance to recipient. Only the owner may
// call it. Total supply is unchanged.
func (l *Ledger) Transfer(caller, recipient pkg.Address, amount sdkmath.Uint) (Receipt, error) {
	if caller != l.owner {
		return Receipt{}, ErrUnauthorized
	}
	if !validAmount(amount) {
		return Receipt{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from := l.account(caller)
	if from.Balance.LT(amount) {
		return Receipt{}, ErrInsufficientBalance
	}

	if caller != recipient {
		to := l.account(recipient)
		newBalance, err := checkedAdd(to.Balance, amount)
		if err != nil {
			return Receipt{}, err
		}

		from.Balance = from.Balance.Sub(amount)
		to.Balance = newBalance
		l.setAccount(caller, from)
		l.setAccount(recipient, to)
	}

	return l.commit(amount), nil
}

// CreateStake locks amount of the caller's balance. The staked units leave the
// circulating supply.
func (l *Ledger) CreateStake(caller pkg.Address, amount sdkmath.Uint) (Receipt, error) {
	if !validAmount(amount) {
		return Receipt{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.account(caller)
	if acc.Balance.LT(amount) {
		return Receipt{}, ErrInsufficientBalance
	}

	newStake, err := checkedAdd(acc.Stake, amount)
	if err != nil {
		return Receipt{}, err
	}
	newTotalStakes, err := checkedAdd(l.totalStakes, amount)
	if err != nil {
		return Receipt{}, err
	}

	acc.Balance = acc.Balance.Sub(amount)
	acc.Stake = newStake
	l.setAccount(caller, acc)
	l.totalSupply = l.totalSupply.Sub(amount)
	l.totalStakes = newTotalStakes
	l.stakeholders.insert(caller)

	return l.commit(amount), nil
}

// RemoveStake unlocks amount of the caller's stake back into its balance.
func (l *Ledger) RemoveStake(caller pkg.Address, amount sdkmath.Uint) (Receipt, error) {
	if !validAmount(amount) {
		return Receipt{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.account(caller)
	if acc.Stake.LT(amount) {
		return Receipt{}, ErrInsufficientStake
	}

	newBalance, err := checkedAdd(acc.Balance, amount)
	if err != nil {
		return Receipt{}, err
	}
	newTotalSupply, err := checkedAdd(l.totalSupply, amount)
	if err != nil {
		return Receipt{}, err
	}

	acc.Stake = acc.Stake.Sub(amount)
	acc.Balance = newBalance
	l.setAccount(caller, acc)
	l.totalStakes = l.totalStakes.Sub(amount)
	l.totalSupply = newTotalSupply
	if acc.Stake.IsZero() {
		l.stakeholders.remove(caller)
	}

	return l.commit(amount), nil
}

// DistributeRewards credits every stakeholder with its share of the reward
// rate. Only the owner may call it. Supply is not minted here, rewards become
// supply on withdrawal.
func (l *Ledger) DistributeRewards(caller pkg.Address) (Distribution, error) {
	if caller != l.owner {
		return Distribution{}, ErrUnauthorized
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// compute everything first so that an overflow leaves state untouched
	credits := make([]Credit, 0, l.stakeholders.len())
	updated := make([]Account, 0, l.stakeholders.len())
	total := sdkmath.ZeroUint()
	for _, addr := range l.stakeholders.members {
		acc := l.account(addr)
		reward := l.rate.RewardFor(acc.Stake)
		if reward.IsZero() {
			continue
		}

		newReward, err := checkedAdd(acc.Reward, reward)
		if err != nil {
			return Distribution{}, err
		}
		if total, err = checkedAdd(total, reward); err != nil {
			return Distribution{}, err
		}

		acc.Reward = newReward
		credits = append(credits, Credit{Address: addr, Amount: reward})
		updated = append(updated, acc)
	}

	newTotalRewards, err := checkedAdd(l.totalRewards, total)
	if err != nil {
		return Distribution{}, err
	}

	for i, credit := range credits {
		l.setAccount(credit.Address, updated[i])
	}
	l.totalRewards = newTotalRewards

	receipt := l.commit(total)
	return Distribution{
		Sequence: receipt.Sequence,
		Credits:  credits,
		Total:    total,
	}, nil
}

// WithdrawReward moves the caller's whole accrued reward into its balance,
// minting it into the circulating supply.
func (l *Ledger) WithdrawReward(caller pkg.Address) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.account(caller)
	reward := acc.Reward
	if reward.IsZero() {
		return Receipt{}, ErrNothingToWithdraw
	}

	newBalance, err := checkedAdd(acc.Balance, reward)
	if err != nil {
		return Receipt{}, err
	}
	newTotalSupply, err := checkedAdd(l.totalSupply, reward)
	if err != nil {
		return Receipt{}, err
	}

	acc.Balance = newBalance
	acc.Reward = sdkmath.ZeroUint()
	l.setAccount(caller, acc)
	l.totalSupply = newTotalSupply
	l.totalRewards = l.totalRewards.Sub(reward)

	return l.commit(reward), nil
}

// commit bumps the sequence. Caller holds the write lock.
func (l *Ledger) commit(amount sdkmath.Uint) Receipt {
	l.sequence++
	return Receipt{
		Sequence: l.sequence,
		Amount:   amount,
	}
}
