package config

import (
	"errors"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
)

const (
	defaultMaxConflictRetries    = 3
	defaultConflictRetryInterval = 50 * time.Millisecond
)

type LedgerConfig struct {
	RewardRateNumerator   uint64        `mapstructure:"reward-rate-numerator"`
	RewardRateDenominator uint64        `mapstructure:"reward-rate-denominator"`
	SecondsPerYear        uint64        `mapstructure:"seconds-per-year"`
	CustodianIdentity     string        `mapstructure:"custodian-identity"`
	MaxConflictRetries    *uint         `mapstructure:"max-conflict-retries"`
	ConflictRetryInterval time.Duration `mapstructure:"conflict-retry-interval"`
}

// Validate checks the ledger section. A missing rate falls back to the
// default 5% per year, missing retry settings fall back to their defaults.
// An explicit max-conflict-retries of 0 disables retries.
func (cfg *LedgerConfig) Validate() error {
	if cfg.RewardRateDenominator == 0 && cfg.RewardRateNumerator == 0 {
		cfg.RewardRateNumerator = ledger.DefaultRewardRate.Numerator
		cfg.RewardRateDenominator = ledger.DefaultRewardRate.Denominator
	}
	if cfg.SecondsPerYear == 0 {
		cfg.SecondsPerYear = ledger.SecondsPerYear
	}
	if err := cfg.RewardRate().Validate(); err != nil {
		return err
	}

	if cfg.CustodianIdentity == "" {
		return errors.New("custodian-identity is required")
	}

	if cfg.MaxConflictRetries == nil {
		retries := uint(defaultMaxConflictRetries)
		cfg.MaxConflictRetries = &retries
	}
	if cfg.ConflictRetryInterval <= 0 {
		cfg.ConflictRetryInterval = defaultConflictRetryInterval
	}

	return nil
}

// ConflictRetries is the number of times a commit that lost against a
// concurrent writer is retried.
func (cfg *LedgerConfig) ConflictRetries() uint {
	if cfg.MaxConflictRetries == nil {
		return defaultMaxConflictRetries
	}
	return *cfg.MaxConflictRetries
}

func (cfg *LedgerConfig) RewardRate() ledger.RewardRate {
	return ledger.RewardRate{
		Numerator:      cfg.RewardRateNumerator,
		Denominator:    cfg.RewardRateDenominator,
		SecondsPerYear: cfg.SecondsPerYear,
	}
}
