package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	queue "github.com/babylonlabs-io/staking-queue-client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Db: DbConfig{
			Username: "test",
			Password: "test",
			Address:  "mongodb://localhost:27017",
			DbName:   "test",
		},
		Ledger: LedgerConfig{
			Owner:         "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			InitialSupply: "1000000000000000000000",
		},
		Poller: PollerConfig{
			SnapshotInterval: 10 * time.Second,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Metrics: MetricsConfig{
			Host: "0.0.0.0",
			Port: 2112,
		},
	}
}

func TestConfig_OptionalQueue(t *testing.T) {
	cfg := validConfig()
	cfg.Queue = &queue.QueueConfig{
		QueueUser:              "test",
		QueuePassword:          "test",
		Url:                    "localhost:5672",
		QueueProcessingTimeout: 5 * time.Second,
		MsgMaxRetryAttempts:    10,
		ReQueueDelayTime:       300 * time.Second,
		QueueType:              "quorum",
	}

	err := cfg.Validate()
	require.NoError(t, err)
	assert.NotNil(t, cfg.Queue)

	cfg.Queue = nil
	err = cfg.Validate()
	require.NoError(t, err)
	assert.Nil(t, cfg.Queue)

	cfg.Queue = &queue.QueueConfig{QueueUser: "test"}
	err = cfg.Validate()
	require.Error(t, err)
}

func TestConfig_QueueValidation(t *testing.T) {
	valid := func() *queue.QueueConfig {
		return &queue.QueueConfig{
			QueueUser:              "test",
			QueuePassword:          "test",
			Url:                    "localhost:5672",
			QueueProcessingTimeout: 5 * time.Second,
			QueueType:              "classic",
		}
	}

	testCases := []struct {
		name   string
		modify func(*queue.QueueConfig)
		errMsg string
	}{
		{"missing queue type", func(q *queue.QueueConfig) { q.QueueType = "" }, "queue type"},
		{"unknown queue type", func(q *queue.QueueConfig) { q.QueueType = "stream" }, "queue type"},
		{"url with scheme", func(q *queue.QueueConfig) { q.Url = "amqp://localhost:5672" }, "without a scheme"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Queue = valid()
			tc.modify(cfg.Queue)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(1), cfg.Ledger.RewardRateNumerator)
	assert.Equal(t, uint64(100), cfg.Ledger.RewardRateDenominator)
	assert.Equal(t, defaultInvariantCheckInterval, cfg.Poller.InvariantCheckInterval)
	assert.False(t, cfg.Poller.RewardDistributionEnabled())
	assert.Equal(t, defaultServerReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
}

func TestDbConfig_Validate(t *testing.T) {
	t.Run("sqlite needs a path", func(t *testing.T) {
		cfg := &DbConfig{Driver: DbDriverSQLite}
		require.Error(t, cfg.Validate())

		cfg.SQLitePath = filepath.Join(t.TempDir(), "ledger.db")
		require.NoError(t, cfg.Validate())
		assert.True(t, cfg.IsSQLite())
	})

	t.Run("mongo address scheme", func(t *testing.T) {
		cfg := &DbConfig{Username: "u", Password: "p", DbName: "d", Address: "http://localhost:27017"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported db address scheme")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &DbConfig{Driver: "postgres"}
		require.Error(t, cfg.Validate())
	})
}

func TestLedgerConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *LedgerConfig)
		wantErr string
	}{
		{
			name:    "invalid owner",
			mutate:  func(cfg *LedgerConfig) { cfg.Owner = "alice" },
			wantErr: "invalid ledger owner",
		},
		{
			name:    "missing supply",
			mutate:  func(cfg *LedgerConfig) { cfg.InitialSupply = "" },
			wantErr: "initial-supply is required",
		},
		{
			name:    "negative supply",
			mutate:  func(cfg *LedgerConfig) { cfg.InitialSupply = "-5" },
			wantErr: "invalid ledger initial-supply",
		},
		{
			name: "zero denominator",
			mutate: func(cfg *LedgerConfig) {
				cfg.RewardRateNumerator = 1
				cfg.RewardRateDenominator = 0
			},
			wantErr: "invalid ledger reward rate",
		},
		{
			name: "rate above one",
			mutate: func(cfg *LedgerConfig) {
				cfg.RewardRateNumerator = 3
				cfg.RewardRateDenominator = 2
			},
			wantErr: "invalid ledger reward rate",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig().Ledger
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("genesis", func(t *testing.T) {
		cfg := validConfig().Ledger
		cfg.RewardRateNumerator = 5
		cfg.RewardRateDenominator = 1000
		require.NoError(t, cfg.Validate())

		genesis, err := cfg.Genesis()
		require.NoError(t, err)
		assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", genesis.Owner.String())
		assert.Equal(t, "1000000000000000000000", genesis.InitialSupply.String())
		assert.Equal(t, uint64(5), genesis.RewardRate.Numerator)
	})
}

func TestNew(t *testing.T) {
	content := `
db:
  driver: sqlite
  sqlite-path: /tmp/ledger.db
ledger:
  owner: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
  initial-supply: "1000"
poller:
  snapshot-interval: 5s
  reward-distribution-interval: 1m
server:
  host: 127.0.0.1
  port: 8080
metrics:
  host: 0.0.0.0
  port: 2112
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("LEDGER__INITIAL-SUPPLY", "2000")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.True(t, cfg.Db.IsSQLite())
	assert.Equal(t, "2000", cfg.Ledger.InitialSupply)
	assert.Equal(t, 5*time.Second, cfg.Poller.SnapshotInterval)
	assert.True(t, cfg.Poller.RewardDistributionEnabled())
	assert.Nil(t, cfg.Queue)

	_, err = New(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
