package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	"github.com/babylonlabs-io/staking-queue-client/client"
	queueConfig "github.com/babylonlabs-io/staking-queue-client/config"

	"github.com/babylonlabs-io/staking-ledger/internal/types"
)

const LedgerEventsQueueName = "ledger_events_queue"

// QueueManager publishes ledger events to RabbitMQ.
type QueueManager struct {
	ledgerEventQueue  client.QueueClient
	processingTimeout time.Duration
	logger            *zap.Logger
}

func NewQueueManager(cfg *queueConfig.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	ledgerEventQueue, err := client.NewQueueClient(cfg, LedgerEventsQueueName)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger event queue: %w", err)
	}

	return newQueueManager(ledgerEventQueue, cfg.QueueProcessingTimeout, logger), nil
}

func newQueueManager(q client.QueueClient, processingTimeout time.Duration, logger *zap.Logger) *QueueManager {
	return &QueueManager{
		ledgerEventQueue:  q,
		processingTimeout: processingTimeout,
		logger:            logger.With(zap.String("queue", q.GetQueueName())),
	}
}

// PushLedgerEvent publishes ev as a JSON message and waits for the broker to
// confirm it.
func (qm *QueueManager) PushLedgerEvent(ctx context.Context, ev *types.LedgerEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	if qm.processingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, qm.processingTimeout)
		defer cancel()
	}

	if err := qm.ledgerEventQueue.SendMessage(ctx, string(body)); err != nil {
		return fmt.Errorf("failed to publish ledger event %d: %w", ev.Sequence, err)
	}

	qm.logger.Debug("ledger event published",
		zap.Uint64("sequence", ev.Sequence),
		zap.String("type", ev.Type.String()),
	)
	return nil
}

func (qm *QueueManager) Ping(ctx context.Context) error {
	return qm.ledgerEventQueue.Ping(ctx)
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")

	if err := qm.ledgerEventQueue.Stop(); err != nil {
		qm.logger.Error("failed to stop ledger event queue", zap.Error(err))
	}
}
