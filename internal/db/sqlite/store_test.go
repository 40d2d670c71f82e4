package sqlite_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/db/sqlite"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestOpenReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveNewStakingRecord(ctx, &model.StakingRecordDocument{Owner: "alice"}))
	require.NoError(t, store.Close())

	// schema application is idempotent
	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()

	doc, err := store.GetStakingRecord(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc.Owner)
	require.NoError(t, store.Ping(ctx))
}

func TestStakingRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		store := openStore(t)
		owner := gofakeit.Username()
		doc := &model.StakingRecordDocument{
			Owner:           owner,
			StakedAmount:    1000,
			RewardAmount:    50,
			LastAccrualTime: 1_700_000_000,
			CompoundStreak:  2,
		}
		require.NoError(t, store.SaveNewStakingRecord(ctx, doc))

		got, err := store.GetStakingRecord(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, doc.ToStakingRecord(), got.ToStakingRecord())
		assert.Equal(t, uint64(0), got.Version)
		assert.NotZero(t, got.CreatedAt)
	})
	t.Run("duplicate owner", func(t *testing.T) {
		store := openStore(t)
		doc := &model.StakingRecordDocument{Owner: "alice"}
		require.NoError(t, store.SaveNewStakingRecord(ctx, doc))

		err := store.SaveNewStakingRecord(ctx, &model.StakingRecordDocument{Owner: "alice"})
		assert.True(t, db.IsDuplicateKeyError(err))
	})
	t.Run("not found", func(t *testing.T) {
		store := openStore(t)
		_, err := store.GetStakingRecord(ctx, "nobody")
		assert.True(t, db.IsNotFoundError(err))
	})
	t.Run("amount above int64", func(t *testing.T) {
		store := openStore(t)
		err := store.SaveNewStakingRecord(ctx, &model.StakingRecordDocument{
			Owner:        "alice",
			StakedAmount: math.MaxInt64 + 1,
		})
		assert.ErrorIs(t, err, ledger.ErrOverflow)
	})
}

func TestUpdateStakingRecord(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	require.NoError(t, store.SaveNewStakingRecord(ctx, &model.StakingRecordDocument{Owner: "alice"}))

	first, err := store.GetStakingRecord(ctx, "alice")
	require.NoError(t, err)
	second, err := store.GetStakingRecord(ctx, "alice")
	require.NoError(t, err)

	first.StakedAmount = 500
	require.NoError(t, store.UpdateStakingRecord(ctx, first))
	assert.Equal(t, uint64(1), first.Version)

	// second was loaded at version 0 and lost the race
	second.StakedAmount = 700
	err = store.UpdateStakingRecord(ctx, second)
	assert.True(t, db.IsConflictError(err))

	got, err := store.GetStakingRecord(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got.StakedAmount)
	assert.Equal(t, uint64(1), got.Version)

	err = store.UpdateStakingRecord(ctx, &model.StakingRecordDocument{Owner: "bob"})
	assert.True(t, db.IsNotFoundError(err))
}

func TestBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown identity has zero balance", func(t *testing.T) {
		store := openStore(t)
		balance, err := store.GetBalance(ctx, "nobody")
		require.NoError(t, err)
		assert.Zero(t, balance)
	})
	t.Run("credit and transfer", func(t *testing.T) {
		store := openStore(t)
		require.NoError(t, store.CreditBalance(ctx, "alice", 100))
		require.NoError(t, store.CreditBalance(ctx, "alice", 50))
		require.NoError(t, store.TransferFunds(ctx, "alice", "custodian", 120))

		alice, err := store.GetBalance(ctx, "alice")
		require.NoError(t, err)
		custodian, err := store.GetBalance(ctx, "custodian")
		require.NoError(t, err)
		assert.Equal(t, uint64(30), alice)
		assert.Equal(t, uint64(120), custodian)
	})
	t.Run("insufficient balance", func(t *testing.T) {
		store := openStore(t)
		require.NoError(t, store.CreditBalance(ctx, "alice", 10))

		err := store.TransferFunds(ctx, "alice", "custodian", 11)
		assert.True(t, db.IsInsufficientBalanceError(err))

		alice, err := store.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(10), alice)
	})
	t.Run("credit overflow rolls back the debit", func(t *testing.T) {
		store := openStore(t)
		require.NoError(t, store.CreditBalance(ctx, "alice", 10))
		require.NoError(t, store.CreditBalance(ctx, "custodian", math.MaxInt64))

		err := store.TransferFunds(ctx, "alice", "custodian", 10)
		assert.ErrorIs(t, err, ledger.ErrOverflow)

		alice, err := store.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(10), alice)
	})
	t.Run("zero amount is a no-op", func(t *testing.T) {
		store := openStore(t)
		require.NoError(t, store.TransferFunds(ctx, "alice", "custodian", 0))
	})
}

func TestFundsAdapter(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	funds := db.NewFundsAdapter(store)

	require.NoError(t, store.CreditBalance(ctx, "alice", 5))
	err := funds.Transfer(ctx, "alice", "custodian", 6)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.True(t, ledger.IsInsufficientFunds(err))

	require.NoError(t, funds.Transfer(ctx, "alice", "custodian", 5))
}

func TestLedgerEvents(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	rec := ledger.NewStakingRecord("alice", 100)
	for i, eventType := range []types.EventType{
		types.EventRecordCreated, types.EventStaked, types.EventCompounded,
	} {
		// the last two share a timestamp
		ts := int64(100 + min(i, 1))
		require.NoError(t, store.SaveLedgerEvent(ctx, model.NewLedgerEvent(eventType, "alice", rec, ts)))
	}
	require.NoError(t, store.SaveLedgerEvent(ctx, model.NewLedgerEvent(types.EventRecordCreated, "bob", ledger.NewStakingRecord("bob", 1), 1)))

	events, err := store.FindLedgerEventsByOwner(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, types.EventCompounded, events[0].EventType)
	assert.Equal(t, types.EventStaked, events[1].EventType)
	assert.Equal(t, types.EventRecordCreated, events[2].EventType)

	events, err = store.FindLedgerEventsByOwner(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)

	dup := events[0]
	assert.True(t, db.IsDuplicateKeyError(store.SaveLedgerEvent(ctx, dup)))
}

func TestLedgerStats(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_, err := store.GetLedgerStats(ctx)
	assert.True(t, db.IsNotFoundError(err))

	stats, err := store.CalculateLedgerStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.RecordCount)

	require.NoError(t, store.SaveNewStakingRecord(ctx, &model.StakingRecordDocument{Owner: "alice", StakedAmount: 100, RewardAmount: 5}))
	require.NoError(t, store.SaveNewStakingRecord(ctx, &model.StakingRecordDocument{Owner: "bob", StakedAmount: 20, RewardAmount: 1}))

	stats, err = store.CalculateLedgerStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.RecordCount)
	assert.Equal(t, uint64(120), stats.TotalStaked)
	assert.Equal(t, uint64(6), stats.TotalReward)

	require.NoError(t, store.UpsertLedgerStats(ctx, stats))
	stored, err := store.GetLedgerStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, stored)
}

func TestLedgerStats_LargeTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("exact below the cap", func(t *testing.T) {
		store := openStore(t)
		for _, owner := range []string{"alice", "bob", "carol"} {
			doc := &model.StakingRecordDocument{Owner: owner, StakedAmount: 3_000_000_000_000_000_001, RewardAmount: math.MaxUint32}
			require.NoError(t, store.SaveNewStakingRecord(ctx, doc))
		}

		stats, err := store.CalculateLedgerStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(9_000_000_000_000_000_003), stats.TotalStaked)
		assert.Equal(t, uint64(3*math.MaxUint32), stats.TotalReward)
	})

	t.Run("sum beyond int64 saturates", func(t *testing.T) {
		store := openStore(t)
		for _, owner := range []string{"alice", "bob"} {
			doc := &model.StakingRecordDocument{Owner: owner, StakedAmount: 6_000_000_000_000_000_000, RewardAmount: math.MaxInt64}
			require.NoError(t, store.SaveNewStakingRecord(ctx, doc))
		}

		stats, err := store.CalculateLedgerStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), stats.RecordCount)
		assert.Equal(t, uint64(math.MaxInt64), stats.TotalStaked)
		assert.Equal(t, uint64(math.MaxInt64), stats.TotalReward)

		require.NoError(t, store.UpsertLedgerStats(ctx, stats))
		stored, err := store.GetLedgerStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, stats, stored)
	})
}
