package services

import (
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
)

// StakingRecordPublic is a record as returned to callers. PendingReward is
// the reward the owner would hold if accrual ran at the time of the read.
type StakingRecordPublic struct {
	Owner           string `json:"owner"`
	StakedAmount    uint64 `json:"staked_amount"`
	RewardAmount    uint64 `json:"reward_amount"`
	PendingReward   uint64 `json:"pending_reward"`
	LastAccrualTime int64  `json:"last_accrual_time"`
	CompoundStreak  uint64 `json:"compound_streak"`
}

func newStakingRecordPublic(rec *ledger.StakingRecord, pending uint64) *StakingRecordPublic {
	return &StakingRecordPublic{
		Owner:           rec.Owner,
		StakedAmount:    rec.StakedAmount,
		RewardAmount:    rec.RewardAmount,
		PendingReward:   pending,
		LastAccrualTime: rec.LastAccrualTime,
		CompoundStreak:  rec.CompoundStreak,
	}
}

type OperationResult struct {
	Operation string               `json:"operation"`
	Accrued   uint64               `json:"accrued"`
	Amount    uint64               `json:"amount"`
	Payout    uint64               `json:"payout"`
	Forfeited uint64               `json:"forfeited"`
	Record    *StakingRecordPublic `json:"record"`
}

func newOperationResult(receipt *ledger.Receipt, rec *ledger.StakingRecord) *OperationResult {
	return &OperationResult{
		Operation: receipt.Operation.String(),
		Accrued:   receipt.Accrued,
		Amount:    receipt.Amount,
		Payout:    receipt.Payout,
		Forfeited: receipt.Forfeited,
		// the record was accrued by the operation itself
		Record: newStakingRecordPublic(rec, rec.RewardAmount),
	}
}

type BalancePublic struct {
	Identity string `json:"identity"`
	Balance  uint64 `json:"balance"`
}

type LedgerStatsPublic struct {
	RecordCount uint64 `json:"record_count"`
	TotalStaked uint64 `json:"total_staked"`
	TotalReward uint64 `json:"total_reward"`
	LastUpdated int64  `json:"last_updated"`
}

func newLedgerStatsPublic(stats *model.LedgerStatsDocument) *LedgerStatsPublic {
	return &LedgerStatsPublic{
		RecordCount: stats.RecordCount,
		TotalStaked: stats.TotalStaked,
		TotalReward: stats.TotalReward,
		LastUpdated: stats.LastUpdated,
	}
}
