package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
)

const replayBatchSize = 1000

// ErrEventGap is returned when the next stored event skips a sequence number.
// It happens when an append failed and a snapshot was saved instead.
var ErrEventGap = errors.New("event sequence gap")

// Replay applies every stored event after the ledger's sequence, in batches.
// It returns the number of applied events.
func Replay(ctx context.Context, store db.DbInterface, l *ledger.Ledger) (int, error) {
	return ReplayUntil(ctx, store, l, math.MaxUint64)
}

// ReplayUntil is Replay stopping once the ledger reaches sequence until.
func ReplayUntil(ctx context.Context, store db.DbInterface, l *ledger.Ledger, until uint64) (int, error) {
	applied := 0
	for l.Sequence() < until {
		limit := int64(replayBatchSize)
		if remaining := until - l.Sequence(); remaining < uint64(limit) {
			limit = int64(remaining)
		}

		docs, err := store.GetLedgerEvents(ctx, l.Sequence(), limit)
		if err != nil {
			return applied, fmt.Errorf("failed to load ledger events: %w", err)
		}
		if len(docs) == 0 {
			return applied, nil
		}

		for _, doc := range docs {
			ev, err := doc.ToLedgerEvent()
			if err != nil {
				return applied, fmt.Errorf("invalid ledger event %d: %w", doc.Sequence, err)
			}
			if err := ApplyEvent(l, ev); err != nil {
				return applied, err
			}
			applied++
		}

		if err := ctx.Err(); err != nil {
			return applied, err
		}
	}
	return applied, nil
}

// ApplyEvent re-executes ev against l. The event must be the next one in
// sequence and must produce the recorded amount.
func ApplyEvent(l *ledger.Ledger, ev *types.LedgerEvent) error {
	if expected := l.Sequence() + 1; ev.Sequence != expected {
		return fmt.Errorf("%w: expected %d, got %d", ErrEventGap, expected, ev.Sequence)
	}

	var (
		sequence uint64
		amount   sdkmath.Uint
		err      error
	)
	switch ev.Type {
	case types.EventTransfer:
		var r ledger.Receipt
		r, err = l.Transfer(ev.Caller, ev.Recipient, ev.Amount)
		sequence, amount = r.Sequence, r.Amount
	case types.EventStakeCreated:
		var r ledger.Receipt
		r, err = l.CreateStake(ev.Caller, ev.Amount)
		sequence, amount = r.Sequence, r.Amount
	case types.EventStakeRemoved:
		var r ledger.Receipt
		r, err = l.RemoveStake(ev.Caller, ev.Amount)
		sequence, amount = r.Sequence, r.Amount
	case types.EventRewardsDistributed:
		var d ledger.Distribution
		d, err = l.DistributeRewards(ev.Caller)
		sequence, amount = d.Sequence, d.Total
	case types.EventRewardWithdrawn:
		var r ledger.Receipt
		r, err = l.WithdrawReward(ev.Caller)
		sequence, amount = r.Sequence, r.Amount
	default:
		return fmt.Errorf("unknown event type %q at sequence %d", ev.Type, ev.Sequence)
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s event %d: %w", ev.Type, ev.Sequence, err)
	}

	// a failed check leaves l ahead of the log, callers discard it
	if sequence != ev.Sequence {
		return fmt.Errorf("event %d applied at sequence %d", ev.Sequence, sequence)
	}
	if !amount.Equal(ev.Amount) {
		return fmt.Errorf("event %d recorded amount %s, replay produced %s", ev.Sequence, ev.Amount, amount)
	}

	return nil
}
