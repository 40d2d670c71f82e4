//go:build integration

package db_test

import (
	"math"
	"testing"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomRecord(t *testing.T) *model.StakingRecordDocument {
	t.Helper()

	return &model.StakingRecordDocument{
		Owner:           gofakeit.UUID(),
		StakedAmount:    gofakeit.Uint64() % math.MaxInt32,
		RewardAmount:    gofakeit.Uint64() % math.MaxInt32,
		LastAccrualTime: gofakeit.Int64() % math.MaxInt32,
		CompoundStreak:  uint64(gofakeit.Uint8()),
	}
}

func TestStakingRecord(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("save and get", func(t *testing.T) {
		doc := randomRecord(t)
		require.NoError(t, testDB.SaveNewStakingRecord(ctx, doc))

		got, err := testDB.GetStakingRecord(ctx, doc.Owner)
		require.NoError(t, err)
		assert.Equal(t, doc.ToStakingRecord(), got.ToStakingRecord())
		assert.Equal(t, uint64(0), got.Version)
	})
	t.Run("duplicate owner", func(t *testing.T) {
		doc := randomRecord(t)
		require.NoError(t, testDB.SaveNewStakingRecord(ctx, doc))

		dup := randomRecord(t)
		dup.Owner = doc.Owner
		err := testDB.SaveNewStakingRecord(ctx, dup)
		assert.True(t, db.IsDuplicateKeyError(err))
	})
	t.Run("not found", func(t *testing.T) {
		_, err := testDB.GetStakingRecord(ctx, gofakeit.UUID())
		assert.True(t, db.IsNotFoundError(err))
	})
	t.Run("amount above int64", func(t *testing.T) {
		doc := randomRecord(t)
		doc.RewardAmount = math.MaxInt64 + 1
		err := testDB.SaveNewStakingRecord(ctx, doc)
		assert.ErrorIs(t, err, ledger.ErrOverflow)
	})
	t.Run("optimistic update", func(t *testing.T) {
		doc := randomRecord(t)
		require.NoError(t, testDB.SaveNewStakingRecord(ctx, doc))

		first, err := testDB.GetStakingRecord(ctx, doc.Owner)
		require.NoError(t, err)
		second, err := testDB.GetStakingRecord(ctx, doc.Owner)
		require.NoError(t, err)

		first.StakedAmount++
		require.NoError(t, testDB.UpdateStakingRecord(ctx, first))
		assert.Equal(t, uint64(1), first.Version)

		second.RewardAmount++
		err = testDB.UpdateStakingRecord(ctx, second)
		assert.True(t, db.IsConflictError(err))

		got, err := testDB.GetStakingRecord(ctx, doc.Owner)
		require.NoError(t, err)
		assert.Equal(t, first.StakedAmount, got.StakedAmount)
		assert.Equal(t, doc.RewardAmount, got.RewardAmount)
		assert.Equal(t, uint64(1), got.Version)
	})
	t.Run("update missing record", func(t *testing.T) {
		err := testDB.UpdateStakingRecord(ctx, randomRecord(t))
		assert.True(t, db.IsNotFoundError(err))
	})
}
