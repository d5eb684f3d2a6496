package config

import (
	"fmt"
	"strings"

	queue "github.com/babylonlabs-io/staking-queue-client/config"
	"github.com/spf13/viper"
)

type Config struct {
	Db      DbConfig           `mapstructure:"db"`
	Ledger  LedgerConfig       `mapstructure:"ledger"`
	Poller  PollerConfig       `mapstructure:"poller"`
	Server  ServerConfig       `mapstructure:"server"`
	Metrics MetricsConfig      `mapstructure:"metrics"`
	Queue   *queue.QueueConfig `mapstructure:"queue"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return err
	}

	if err := cfg.Ledger.Validate(); err != nil {
		return err
	}

	if err := cfg.Poller.Validate(); err != nil {
		return err
	}

	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}

	// queue is optional, events are only persisted and streamed when it's absent
	if cfg.Queue != nil {
		if err := validateQueue(cfg.Queue); err != nil {
			return err
		}
	}

	return nil
}

// New returns a fully parsed Config object from a given file path.
// Environment variables override file values, nested keys are separated by
// double underscores, e.g. DB__ADDRESS.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
