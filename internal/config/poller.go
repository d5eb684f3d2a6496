package config

import (
	"errors"
	"time"
)

const (
	defaultSnapshotInterval       = 30 * time.Second
	defaultInvariantCheckInterval = 5 * time.Minute
)

type PollerConfig struct {
	SnapshotInterval time.Duration `mapstructure:"snapshot-interval"`
	// RewardDistributionInterval enables automatic distribution by the owner when positive.
	RewardDistributionInterval time.Duration `mapstructure:"reward-distribution-interval"`
	InvariantCheckInterval     time.Duration `mapstructure:"invariant-check-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.SnapshotInterval < 0 {
		return errors.New("snapshot-interval must not be negative")
	}
	if cfg.SnapshotInterval == 0 {
		cfg.SnapshotInterval = defaultSnapshotInterval
	}

	if cfg.RewardDistributionInterval < 0 {
		return errors.New("reward-distribution-interval must not be negative")
	}

	if cfg.InvariantCheckInterval <= 0 {
		cfg.InvariantCheckInterval = defaultInvariantCheckInterval
	}

	return nil
}

// RewardDistributionEnabled reports whether the reward poller should run.
func (cfg *PollerConfig) RewardDistributionEnabled() bool {
	return cfg.RewardDistributionInterval > 0
}
