package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

const (
	persistMaxRetries    = 3
	persistRetryInterval = 100 * time.Millisecond
)

func (s *Service) Transfer(
	ctx context.Context, caller, recipient pkg.Address, amount sdkmath.Uint,
) (*types.LedgerEvent, *types.Error) {
	return s.commit(ctx, types.EventTransfer, func() (*types.LedgerEvent, error) {
		receipt, err := s.ledger.Transfer(caller, recipient, amount)
		if err != nil {
			return nil, err
		}

		ev := newLedgerEvent(types.EventTransfer, caller, receipt)
		ev.Recipient = recipient
		return ev, nil
	})
}

func (s *Service) CreateStake(
	ctx context.Context, caller pkg.Address, amount sdkmath.Uint,
) (*types.LedgerEvent, *types.Error) {
	return s.commit(ctx, types.EventStakeCreated, func() (*types.LedgerEvent, error) {
		receipt, err := s.ledger.CreateStake(caller, amount)
		if err != nil {
			return nil, err
		}
		return newLedgerEvent(types.EventStakeCreated, caller, receipt), nil
	})
}

func (s *Service) RemoveStake(
	ctx context.Context, caller pkg.Address, amount sdkmath.Uint,
) (*types.LedgerEvent, *types.Error) {
	return s.commit(ctx, types.EventStakeRemoved, func() (*types.LedgerEvent, error) {
		receipt, err := s.ledger.RemoveStake(caller, amount)
		if err != nil {
			return nil, err
		}
		return newLedgerEvent(types.EventStakeRemoved, caller, receipt), nil
	})
}

func (s *Service) DistributeRewards(ctx context.Context, caller pkg.Address) (*types.LedgerEvent, *types.Error) {
	return s.commit(ctx, types.EventRewardsDistributed, func() (*types.LedgerEvent, error) {
		distribution, err := s.ledger.DistributeRewards(caller)
		if err != nil {
			return nil, err
		}

		ev := newLedgerEvent(types.EventRewardsDistributed, caller, ledger.Receipt{
			Sequence: distribution.Sequence,
			Amount:   distribution.Total,
		})
		for _, credit := range distribution.Credits {
			ev.Credits = append(ev.Credits, types.Credit{
				Address: credit.Address,
				Amount:  credit.Amount,
			})
		}
		return ev, nil
	})
}

func (s *Service) WithdrawReward(ctx context.Context, caller pkg.Address) (*types.LedgerEvent, *types.Error) {
	return s.commit(ctx, types.EventRewardWithdrawn, func() (*types.LedgerEvent, error) {
		receipt, err := s.ledger.WithdrawReward(caller)
		if err != nil {
			return nil, err
		}
		return newLedgerEvent(types.EventRewardWithdrawn, caller, receipt), nil
	})
}

func newLedgerEvent(eventType types.EventType, caller pkg.Address, receipt ledger.Receipt) *types.LedgerEvent {
	return &types.LedgerEvent{
		ID:        uuid.NewString(),
		Sequence:  receipt.Sequence,
		Type:      eventType,
		Caller:    caller,
		Amount:    receipt.Amount,
		Timestamp: time.Now().Unix(),
	}
}

// commit applies mutate and hands the resulting event to the event log, the
// queue and the stream subscribers. Once the ledger accepted the mutation the
// call succeeds, downstream failures are logged and counted.
func (s *Service) commit(
	ctx context.Context,
	eventType types.EventType,
	mutate func() (*types.LedgerEvent, error),
) (*types.LedgerEvent, *types.Error) {
	if s.ledger == nil {
		return nil, types.NewInternalServiceError(errors.New("ledger is not bootstrapped"))
	}

	startTime := time.Now()
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	ev, err := mutate()
	if err != nil {
		metrics.RecordLedgerOperation(eventType.String(), time.Since(startTime), true)
		log.Ctx(ctx).Debug().Err(err).Str("operation", eventType.String()).Msg("ledger operation rejected")
		return nil, mapLedgerError(err)
	}

	// the mutation is applied, its side effects outlive a cancelled request
	ctx = context.WithoutCancel(ctx)
	s.persistEvent(ctx, ev)
	s.publishEvent(ctx, ev)
	s.broadcaster.Broadcast(ev)
	s.recordLedgerState()

	metrics.RecordLedgerOperation(eventType.String(), time.Since(startTime), false)
	log.Ctx(ctx).Info().
		Uint64("sequence", ev.Sequence).
		Str("operation", eventType.String()).
		Str("caller", ev.Caller.String()).
		Str("amount", ev.Amount.String()).
		Msg("ledger operation applied")

	return ev, nil
}

// persistEvent appends ev to the event log. If the log can't be written the
// current state is saved as a snapshot instead so that nothing is lost on restart.
func (s *Service) persistEvent(ctx context.Context, ev *types.LedgerEvent) {
	doc := model.FromLedgerEvent(ev)
	err := retry.Do(
		func() error {
			return s.db.SaveLedgerEvent(ctx, doc)
		},
		retry.Context(ctx),
		retry.Attempts(persistMaxRetries),
		retry.Delay(persistRetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !db.IsDuplicateKeyError(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint64("sequence", ev.Sequence).
				Err(err).
				Msg("failed to save ledger event, retrying")
		}),
	)
	if err == nil {
		return
	}

	metrics.IncEventPersistFailures()
	log.Ctx(ctx).Error().Err(err).Uint64("sequence", ev.Sequence).Msg("failed to save ledger event, saving snapshot")
	if err := s.saveSnapshot(ctx, true); err != nil {
		log.Ctx(ctx).Error().Err(err).Uint64("sequence", ev.Sequence).Msg("failed to save snapshot after event log failure")
	}
}

func (s *Service) publishEvent(ctx context.Context, ev *types.LedgerEvent) {
	if s.eventConsumer == nil {
		return
	}

	if err := s.eventConsumer.PushLedgerEvent(ctx, ev); err != nil {
		metrics.RecordQueueSendError()
		log.Ctx(ctx).Error().Err(err).Uint64("sequence", ev.Sequence).Msg("failed to push ledger event to queue")
	}
}

func (s *Service) recordLedgerState() {
	totals := s.ledger.Totals()
	metrics.RecordLedgerState(
		approxFloat(totals.TotalSupply),
		approxFloat(totals.TotalStakes),
		approxFloat(totals.TotalRewards),
		s.ledger.StakeholderCount(),
		s.ledger.Sequence(),
	)
}

func approxFloat(u sdkmath.Uint) float64 {
	f, _ := u.BigInt().Float64()
	return f
}

func mapLedgerError(err error) *types.Error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return types.NewError(http.StatusBadRequest, types.InvalidAmount, err)
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return types.NewError(http.StatusBadRequest, types.InsufficientBalance, err)
	case errors.Is(err, ledger.ErrInsufficientStake):
		return types.NewError(http.StatusBadRequest, types.InsufficientStake, err)
	case errors.Is(err, ledger.ErrNothingToWithdraw):
		return types.NewError(http.StatusBadRequest, types.NothingToWithdraw, err)
	case errors.Is(err, ledger.ErrUnauthorized):
		return types.NewError(http.StatusForbidden, types.Unauthorized, err)
	case errors.Is(err, ledger.ErrOverflow):
		return types.NewError(http.StatusBadRequest, types.AmountOverflow, err)
	default:
		return types.NewInternalServiceError(fmt.Errorf("ledger operation failed: %w", err))
	}
}
