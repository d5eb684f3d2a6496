package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
)

// Bootstrap restores the ledger from the latest snapshot and the events
// appended after it. Without a snapshot the genesis ledger is created from
// config and saved right away.
func (s *Service) Bootstrap(ctx context.Context) error {
	genesis, err := s.cfg.Ledger.Genesis()
	if err != nil {
		return fmt.Errorf("invalid ledger config: %w", err)
	}

	l, restored, err := s.restoreLedger(ctx, genesis)
	if err != nil {
		return err
	}
	snapshotSequence := l.Sequence()

	replayed, err := Replay(ctx, s.db, l)
	if err != nil {
		return fmt.Errorf("failed to replay ledger events: %w", err)
	}

	if err := l.CheckInvariants(); err != nil {
		return fmt.Errorf("restored ledger is inconsistent: %w", err)
	}

	s.ledger = l
	s.recordLedgerState()

	// a loaded snapshot with nothing replayed is already current, genesis and
	// replayed ledgers are saved
	if restored && replayed == 0 {
		s.lastSnapshotSequence.Store(snapshotSequence)
		s.snapshotSaved.Store(true)
	}
	if err := s.SaveSnapshot(ctx); err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Str("owner", l.Owner().String()).
		Uint64("snapshot_sequence", snapshotSequence).
		Int("replayed_events", replayed).
		Uint64("sequence", l.Sequence()).
		Msg("ledger bootstrapped")
	return nil
}

// restoreLedger loads the stored snapshot, reporting false when there is none
// and the ledger was built from genesis.
func (s *Service) restoreLedger(ctx context.Context, genesis ledger.Config) (*ledger.Ledger, bool, error) {
	doc, err := s.db.GetLedgerSnapshot(ctx)
	if err != nil {
		if !db.IsNotFoundError(err) {
			return nil, false, fmt.Errorf("failed to load ledger snapshot: %w", err)
		}

		log.Ctx(ctx).Info().Msg("no ledger snapshot found, starting from genesis")
		l, err := ledger.New(genesis)
		if err != nil {
			return nil, false, err
		}
		return l, false, nil
	}

	snapshot, err := doc.ToLedgerSnapshot()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ledger.ErrCorruptSnapshot, err)
	}

	l, err := ledger.Restore(snapshot)
	if err != nil {
		return nil, false, err
	}

	// genesis parameters can't change once the ledger exists
	if l.Owner() != genesis.Owner {
		return nil, false, fmt.Errorf("configured owner %s does not match stored owner %s", genesis.Owner, l.Owner())
	}
	if l.RewardRate() != genesis.RewardRate {
		return nil, false, fmt.Errorf(
			"configured reward rate %d/%d does not match stored rate %d/%d",
			genesis.RewardRate.Numerator, genesis.RewardRate.Denominator,
			l.RewardRate().Numerator, l.RewardRate().Denominator,
		)
	}

	return l, true, nil
}
