package config

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

// LedgerConfig holds the genesis parameters. They are only applied when no
// snapshot exists yet, afterwards they must match the persisted state.
type LedgerConfig struct {
	Owner string `mapstructure:"owner"`
	// InitialSupply is a base-10 integer string, it does not fit into 64 bits.
	InitialSupply         string `mapstructure:"initial-supply"`
	RewardRateNumerator   uint64 `mapstructure:"reward-rate-numerator"`
	RewardRateDenominator uint64 `mapstructure:"reward-rate-denominator"`
}

func (cfg *LedgerConfig) Validate() error {
	if _, err := pkg.ParseAddress(cfg.Owner); err != nil {
		return fmt.Errorf("invalid ledger owner: %w", err)
	}

	if cfg.InitialSupply == "" {
		return errors.New("ledger initial-supply is required")
	}
	if _, err := sdkmath.ParseUint(cfg.InitialSupply); err != nil {
		return fmt.Errorf("invalid ledger initial-supply %q: %w", cfg.InitialSupply, err)
	}

	// both unset means the default rate
	if cfg.RewardRateNumerator == 0 && cfg.RewardRateDenominator == 0 {
		cfg.RewardRateNumerator = ledger.DefaultRewardRate.Numerator
		cfg.RewardRateDenominator = ledger.DefaultRewardRate.Denominator
	}

	if err := cfg.RewardRate().Validate(); err != nil {
		return fmt.Errorf("invalid ledger reward rate: %w", err)
	}

	return nil
}

func (cfg *LedgerConfig) RewardRate() ledger.RewardRate {
	return ledger.RewardRate{
		Numerator:   cfg.RewardRateNumerator,
		Denominator: cfg.RewardRateDenominator,
	}
}

// Genesis converts a validated config into ledger parameters.
func (cfg *LedgerConfig) Genesis() (ledger.Config, error) {
	owner, err := pkg.ParseAddress(cfg.Owner)
	if err != nil {
		return ledger.Config{}, err
	}

	supply, err := sdkmath.ParseUint(cfg.InitialSupply)
	if err != nil {
		return ledger.Config{}, err
	}

	return ledger.Config{
		Owner:         owner,
		InitialSupply: supply,
		RewardRate:    cfg.RewardRate(),
	}, nil
}
