package ledger

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
)

const maxAmountBits = 256

// checkedAdd returns a+b or ErrOverflow. sdkmath.Uint.Add panics on overflow,
// callers need an error instead.
func checkedAdd(a, b sdkmath.Uint) (sdkmath.Uint, error) {
	sum := new(big.Int).Add(a.BigInt(), b.BigInt())
	if sum.BitLen() > maxAmountBits {
		return sdkmath.Uint{}, ErrOverflow
	}

	return sdkmath.NewUintFromBigInt(sum), nil
}

// RewardRate is the fraction of stake credited as reward on every distribution.
type RewardRate struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// DefaultRewardRate credits 1% of stake per distribution.
var DefaultRewardRate = RewardRate{Numerator: 1, Denominator: 100}

func (r RewardRate) Validate() error {
	if r.Denominator == 0 {
		return ErrInvalidConfig
	}
	if r.Numerator > r.Denominator {
		return ErrInvalidConfig
	}

	return nil
}

// RewardFor returns floor(stake * numerator / denominator).
func (r RewardRate) RewardFor(stake sdkmath.Uint) sdkmath.Uint {
	reward := new(big.Int).Mul(stake.BigInt(), new(big.Int).SetUint64(r.Numerator))
	reward.Quo(reward, new(big.Int).SetUint64(r.Denominator))
	// Numerator <= Denominator so the result never exceeds stake.
	return sdkmath.NewUintFromBigInt(reward)
}
