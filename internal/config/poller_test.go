package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerConfig_Validate(t *testing.T) {
	t.Run("all fields set", func(t *testing.T) {
		cfg := &PollerConfig{
			SnapshotInterval:           1 * time.Minute,
			RewardDistributionInterval: 2 * time.Minute,
			InvariantCheckInterval:     3 * time.Minute,
		}
		err := cfg.Validate()
		require.NoError(t, err)
		assert.Equal(t, 1*time.Minute, cfg.SnapshotInterval)
		assert.Equal(t, 3*time.Minute, cfg.InvariantCheckInterval)
		assert.True(t, cfg.RewardDistributionEnabled())
	})

	t.Run("intervals not set - should use defaults", func(t *testing.T) {
		cfg := &PollerConfig{}
		err := cfg.Validate()
		require.NoError(t, err)
		assert.Equal(t, defaultSnapshotInterval, cfg.SnapshotInterval)
		assert.Equal(t, defaultInvariantCheckInterval, cfg.InvariantCheckInterval)
		assert.False(t, cfg.RewardDistributionEnabled())
	})

	t.Run("snapshot interval negative - should error", func(t *testing.T) {
		cfg := &PollerConfig{SnapshotInterval: -1 * time.Minute}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "snapshot-interval must not be negative")
	})

	t.Run("reward distribution interval negative - should error", func(t *testing.T) {
		cfg := &PollerConfig{RewardDistributionInterval: -1 * time.Minute}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reward-distribution-interval must not be negative")
	})
}
