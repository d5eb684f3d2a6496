package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/babylonlabs-io/staking-ledger/consumer"
	"github.com/babylonlabs-io/staking-ledger/internal/api"
	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/tracing"
	"github.com/babylonlabs-io/staking-ledger/internal/queue"
	"github.com/babylonlabs-io/staking-ledger/internal/services"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the staking ledger server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		return fmt.Errorf("error while loading config file %s: %w", cfgPath, err)
	}

	dbClient, err := db.Open(ctx, cfg.Db)
	if err != nil {
		return fmt.Errorf("error while creating db client: %w", err)
	}
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("error while closing db client")
		}
	}()

	// Create a basic zap logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("error while creating zap logger: %w", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	// a nil *QueueManager must not end up inside the interface
	var eventConsumer consumer.EventConsumer
	if cfg.Queue != nil {
		qm, err := queue.NewQueueManager(cfg.Queue, zapLogger)
		if err != nil {
			return fmt.Errorf("failed to initialize event consumer: %w", err)
		}
		defer qm.Shutdown()
		eventConsumer = qm
	} else {
		log.Info().Msg("queue is not configured, ledger events won't be published")
	}

	service := services.NewService(cfg, dbClient, eventConsumer)
	if err := service.Bootstrap(ctx); err != nil {
		return fmt.Errorf("error while bootstrapping ledger: %w", err)
	}

	// initialize metrics with the metrics port from config
	metrics.Init(cfg.Metrics.Host, cfg.Metrics.GetMetricsPort())

	service.StartLedgerServices(ctx)

	server := api.NewServer(&cfg.Server, service)

	var wg conc.WaitGroup
	var serverErr error
	wg.Go(func() {
		serverErr = server.Start(ctx)
		// a failed listener takes the whole process down
		stop()
	})
	wg.Wait()

	if err := service.SaveSnapshot(context.Background()); err != nil {
		log.Error().Err(err).Msg("failed to save final ledger snapshot")
	} else {
		log.Info().Uint64("sequence", service.Ledger().Sequence()).Msg("final ledger snapshot saved")
	}

	return serverErr
}
