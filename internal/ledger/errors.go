package ledger

import "errors"

var (
	// ErrInvalidAmount is returned for zero amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientBalance is returned when the caller's spendable balance is below the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientStake is returned when the caller's stake is below the amount to remove.
	ErrInsufficientStake = errors.New("insufficient stake")
	// ErrUnauthorized is returned when a non-owner tries to transfer or distribute rewards.
	ErrUnauthorized = errors.New("caller is not the ledger owner")
	// ErrNothingToWithdraw is returned when the caller has no accrued reward.
	ErrNothingToWithdraw = errors.New("no reward to withdraw")
	// ErrOverflow is returned when a result does not fit into 256 bits.
	ErrOverflow = errors.New("amount overflows 256 bits")
	// ErrCorruptSnapshot is returned by Restore for snapshots breaking ledger invariants.
	ErrCorruptSnapshot = errors.New("corrupt ledger snapshot")
	// ErrInvalidConfig is returned by New for unusable parameters.
	ErrInvalidConfig = errors.New("invalid ledger config")
)
