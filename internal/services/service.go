package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/babylonlabs-io/staking-ledger/consumer"
	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
)

type Service struct {
	cfg           *config.Config
	db            db.DbInterface
	eventConsumer consumer.EventConsumer
	broadcaster   *Broadcaster

	// ledger is set by Bootstrap and never replaced afterwards
	ledger *ledger.Ledger

	// commitMu keeps "mutate, append event, publish" atomic so the event log
	// is written in sequence order.
	commitMu sync.Mutex

	lastSnapshotSequence atomic.Uint64
	snapshotSaved        atomic.Bool
}

// NewService creates the service. eventConsumer may be nil when the queue is
// disabled. Bootstrap must be called before any ledger operation.
func NewService(cfg *config.Config, db db.DbInterface, eventConsumer consumer.EventConsumer) *Service {
	return &Service{
		cfg:           cfg,
		db:            db,
		eventConsumer: eventConsumer,
		broadcaster:   NewBroadcaster(),
	}
}

func (s *Service) Ledger() *ledger.Ledger {
	return s.ledger
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return err
	}
	if s.eventConsumer != nil {
		if err := s.eventConsumer.Ping(ctx); err != nil {
			return fmt.Errorf("queue is unavailable: %w", err)
		}
	}
	return nil
}

// StartLedgerServices runs the pollers. It returns immediately, the pollers
// stop with ctx.
func (s *Service) StartLedgerServices(ctx context.Context) {
	s.StartSnapshotPoller(ctx)
	s.StartInvariantPoller(ctx)
	if s.cfg.Poller.RewardDistributionEnabled() {
		s.StartRewardPoller(ctx)
	}
}
