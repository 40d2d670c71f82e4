package model

import (
	"fmt"
	"math"

	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
)

const StakingRecordCollection = "staking_records"

// StakingRecordDocument is the persisted form of ledger.StakingRecord. Version
// is bumped on every committed mutation and used for optimistic concurrency.
type StakingRecordDocument struct {
	Owner           string `bson:"_id"`
	StakedAmount    uint64 `bson:"staked_amount"`
	RewardAmount    uint64 `bson:"reward_amount"`
	LastAccrualTime int64  `bson:"last_accrual_time"`
	CompoundStreak  uint64 `bson:"compound_streak"`
	Version         uint64 `bson:"version"`
	CreatedAt       int64  `bson:"created_at"`
	UpdatedAt       int64  `bson:"updated_at"`
}

func FromStakingRecord(rec *ledger.StakingRecord, version uint64) *StakingRecordDocument {
	return &StakingRecordDocument{
		Owner:           rec.Owner,
		StakedAmount:    rec.StakedAmount,
		RewardAmount:    rec.RewardAmount,
		LastAccrualTime: rec.LastAccrualTime,
		CompoundStreak:  rec.CompoundStreak,
		Version:         version,
	}
}

func (d *StakingRecordDocument) ToStakingRecord() *ledger.StakingRecord {
	return &ledger.StakingRecord{
		Owner:           d.Owner,
		StakedAmount:    d.StakedAmount,
		RewardAmount:    d.RewardAmount,
		LastAccrualTime: d.LastAccrualTime,
		CompoundStreak:  d.CompoundStreak,
	}
}

// CheckStorable returns an error wrapping ledger.ErrOverflow when an amount
// does not fit the signed 64-bit integers both backends store.
func (d *StakingRecordDocument) CheckStorable() error {
	if err := CheckStorableAmount("staked_amount", d.StakedAmount); err != nil {
		return err
	}
	if err := CheckStorableAmount("reward_amount", d.RewardAmount); err != nil {
		return err
	}
	return CheckStorableAmount("compound_streak", d.CompoundStreak)
}

func CheckStorableAmount(field string, v uint64) error {
	if v > math.MaxInt64 {
		return fmt.Errorf("%w: %s %d exceeds storable range", ledger.ErrOverflow, field, v)
	}
	return nil
}
