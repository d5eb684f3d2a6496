package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

// Open connects to the configured backend and wraps it with metrics.
// Mongo collections and indexes are created on the way.
func Open(ctx context.Context, cfg config.DbConfig) (DbInterface, error) {
	if cfg.IsSQLite() {
		store, err := NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Ctx(ctx).Info().Str("path", cfg.SQLitePath).Msg("using sqlite storage")
		return NewDbWithMetrics(store), nil
	}

	if err := model.Setup(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to setup mongo: %w", err)
	}

	client, err := New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Ctx(ctx).Info().Str("db", cfg.DbName).Msg("using mongo storage")
	return NewDbWithMetrics(client), nil
}
