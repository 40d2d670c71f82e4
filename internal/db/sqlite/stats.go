package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

// CalculateLedgerStats sums the high and low 32 bits of each amount
// separately so that SUM never overflows, then recombines them exactly.
func (s *Store) CalculateLedgerStats(ctx context.Context) (*model.LedgerStatsDocument, error) {
	var (
		count                 uint64
		stakedHigh, stakedLow int64
		rewardHigh, rewardLow int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(staked_amount >> 32), 0), COALESCE(SUM(staked_amount & 4294967295), 0),
			COALESCE(SUM(reward_amount >> 32), 0), COALESCE(SUM(reward_amount & 4294967295), 0)
		FROM staking_records`,
	).Scan(&count, &stakedHigh, &stakedLow, &rewardHigh, &rewardLow)
	if err != nil {
		return nil, err
	}

	return &model.LedgerStatsDocument{
		ID:          model.LedgerStatsID,
		RecordCount: count,
		TotalStaked: model.StorableTotal(joinHalves(stakedHigh, stakedLow)),
		TotalReward: model.StorableTotal(joinHalves(rewardHigh, rewardLow)),
		LastUpdated: time.Now().Unix(),
	}, nil
}

func joinHalves(high, low int64) sdkmath.Int {
	return sdkmath.NewInt(high).MulRaw(1 << 32).AddRaw(low)
}

func (s *Store) UpsertLedgerStats(ctx context.Context, stats *model.LedgerStatsDocument) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_stats (id, record_count, total_staked, total_reward, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			record_count = excluded.record_count,
			total_staked = excluded.total_staked,
			total_reward = excluded.total_reward,
			last_updated = excluded.last_updated`,
		model.LedgerStatsID, stats.RecordCount, stats.TotalStaked, stats.TotalReward, stats.LastUpdated,
	)
	return err
}

func (s *Store) GetLedgerStats(ctx context.Context) (*model.LedgerStatsDocument, error) {
	stats := model.LedgerStatsDocument{ID: model.LedgerStatsID}
	err := s.db.QueryRowContext(ctx, `
		SELECT record_count, total_staked, total_reward, last_updated
		FROM ledger_stats WHERE id = ?`, model.LedgerStatsID,
	).Scan(&stats.RecordCount, &stats.TotalStaked, &stats.TotalReward, &stats.LastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &db.NotFoundError{
				Key:     model.LedgerStatsID,
				Message: "ledger stats not calculated yet",
			}
		}
		return nil, err
	}
	return &stats, nil
}
