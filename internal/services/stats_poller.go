package services

import (
	"context"
	"fmt"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/babylonlabs-io/staking-ledger/internal/utils/poller"
	"github.com/rs/zerolog/log"
)

// StartStatsPoller refreshes the ledger stats every polling interval and
// blocks until ctx is done.
func (s *Service) StartStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsPollingInterval,
		metrics.RecordPollerDuration("stats", s.calculateAndUpdateStats),
	)
	statsPoller.Start(ctx)
}

// calculateAndUpdateStats aggregates totals over all staking records in the
// storage backend and stores the result
func (s *Service) calculateAndUpdateStats(ctx context.Context) error {
	log := log.Ctx(ctx)

	startTime := time.Now()
	stats, err := s.db.CalculateLedgerStats(ctx)
	aggregationDuration := time.Since(startTime)

	log.Debug().
		Dur("aggregation_duration_ms", aggregationDuration).
		Msg("Stats aggregation completed")

	if err != nil {
		return fmt.Errorf("failed to calculate ledger stats: %w", err)
	}

	if err := s.db.UpsertLedgerStats(ctx, stats); err != nil {
		return fmt.Errorf("failed to upsert ledger stats: %w", err)
	}

	log.Info().
		Uint64("record_count", stats.RecordCount).
		Uint64("total_staked", stats.TotalStaked).
		Uint64("total_reward", stats.TotalReward).
		Msg("Updated ledger stats")

	metrics.RecordLedgerTotals(stats.RecordCount, stats.TotalStaked, stats.TotalReward)

	return nil
}

// GetStats returns the last polled stats, aggregating on demand when the
// poller has not run yet.
func (s *Service) GetStats(ctx context.Context) (*LedgerStatsPublic, *types.Error) {
	stats, err := s.db.GetLedgerStats(ctx)
	if err == nil {
		return newLedgerStatsPublic(stats), nil
	}
	if !db.IsNotFoundError(err) {
		return nil, types.NewInternalServiceError(err)
	}

	stats, err = s.db.CalculateLedgerStats(ctx)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return newLedgerStatsPublic(stats), nil
}
