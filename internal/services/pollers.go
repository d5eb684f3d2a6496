package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/staking-ledger/internal/utils/poller"
)

// StartSnapshotPoller periodically persists the ledger snapshot
func (s *Service) StartSnapshotPoller(ctx context.Context) {
	snapshotPoller := poller.NewPoller(
		"snapshot",
		s.cfg.Poller.SnapshotInterval,
		metrics.RecordPollerDuration("snapshot", s.SaveSnapshot),
	)
	go snapshotPoller.Start(ctx)
}

// StartRewardPoller distributes rewards on behalf of the owner
func (s *Service) StartRewardPoller(ctx context.Context) {
	rewardPoller := poller.NewPoller(
		"reward",
		s.cfg.Poller.RewardDistributionInterval,
		metrics.RecordPollerDuration("reward", s.distributeRewardsAsOwner),
	)
	go rewardPoller.Start(ctx)
}

// StartInvariantPoller periodically verifies the ledger aggregates
func (s *Service) StartInvariantPoller(ctx context.Context) {
	invariantPoller := poller.NewPoller(
		"invariant",
		s.cfg.Poller.InvariantCheckInterval,
		metrics.RecordPollerDuration("invariant", s.checkInvariants),
	)
	go invariantPoller.Start(ctx)
}

// SaveSnapshot persists the current ledger state if it changed since the last save.
func (s *Service) SaveSnapshot(ctx context.Context) error {
	return s.saveSnapshot(ctx, false)
}

func (s *Service) saveSnapshot(ctx context.Context, force bool) error {
	snapshot := s.ledger.Snapshot()
	if !force && s.snapshotSaved.Load() && snapshot.Sequence == s.lastSnapshotSequence.Load() {
		return nil
	}

	doc := model.FromLedgerSnapshot(snapshot, time.Now().Unix())
	if err := s.db.SaveLedgerSnapshot(ctx, doc); err != nil {
		return fmt.Errorf("failed to save ledger snapshot at sequence %d: %w", snapshot.Sequence, err)
	}

	s.lastSnapshotSequence.Store(snapshot.Sequence)
	s.snapshotSaved.Store(true)
	log.Ctx(ctx).Debug().Uint64("sequence", snapshot.Sequence).Msg("ledger snapshot saved")
	return nil
}

func (s *Service) distributeRewardsAsOwner(ctx context.Context) error {
	ev, err := s.DistributeRewards(ctx, s.ledger.Owner())
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Uint64("sequence", ev.Sequence).
		Int("credited", len(ev.Credits)).
		Str("total", ev.Amount.String()).
		Msg("scheduled reward distribution done")
	return nil
}

func (s *Service) checkInvariants(ctx context.Context) error {
	if err := s.ledger.CheckInvariants(); err != nil {
		metrics.IncInvariantViolations()
		log.Ctx(ctx).Error().Err(err).Msg("ledger invariant violated")
		return err
	}
	return nil
}
