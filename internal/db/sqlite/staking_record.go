package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

var _ db.DbInterface = (*Store)(nil)

func (s *Store) SaveNewStakingRecord(ctx context.Context, doc *model.StakingRecordDocument) error {
	if doc == nil {
		return errors.New("nil staking record")
	}
	if err := doc.CheckStorable(); err != nil {
		return err
	}

	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staking_records (
			owner, staked_amount, reward_amount, last_accrual_time,
			compound_streak, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Owner, doc.StakedAmount, doc.RewardAmount, doc.LastAccrualTime,
		doc.CompoundStreak, doc.Version, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &db.DuplicateKeyError{
				Key:     doc.Owner,
				Message: "staking record already exists",
			}
		}
		return fmt.Errorf("failed to insert staking record: %w", err)
	}

	doc.CreatedAt = now
	doc.UpdatedAt = now
	return nil
}

func (s *Store) GetStakingRecord(ctx context.Context, owner string) (*model.StakingRecordDocument, error) {
	var doc model.StakingRecordDocument
	err := s.db.QueryRowContext(ctx, `
		SELECT owner, staked_amount, reward_amount, last_accrual_time,
			compound_streak, version, created_at, updated_at
		FROM staking_records WHERE owner = ?`, owner,
	).Scan(
		&doc.Owner, &doc.StakedAmount, &doc.RewardAmount, &doc.LastAccrualTime,
		&doc.CompoundStreak, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &db.NotFoundError{
				Key:     owner,
				Message: "staking record not found",
			}
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) UpdateStakingRecord(ctx context.Context, doc *model.StakingRecordDocument) error {
	if err := doc.CheckStorable(); err != nil {
		return err
	}

	updatedAt := time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE staking_records SET
			staked_amount = ?, reward_amount = ?, last_accrual_time = ?,
			compound_streak = ?, updated_at = ?, version = version + 1
		WHERE owner = ? AND version = ?`,
		doc.StakedAmount, doc.RewardAmount, doc.LastAccrualTime,
		doc.CompoundStreak, updatedAt, doc.Owner, doc.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update staking record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.GetStakingRecord(ctx, doc.Owner); err != nil {
			return err
		}
		return &db.ConflictError{
			Key:     doc.Owner,
			Message: fmt.Sprintf("staking record version %d is stale", doc.Version),
		}
	}

	doc.Version++
	doc.UpdatedAt = updatedAt
	return nil
}
