//go:build integration

package db_test

import (
	"testing"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEvents(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	owner := gofakeit.UUID()
	rec := ledger.NewStakingRecord(owner, 100)

	created := model.NewLedgerEvent(types.EventRecordCreated, owner, rec, 100)
	staked := model.FromReceipt(&ledger.Receipt{Operation: ledger.OperationStake, Amount: 10}, owner, rec, 200)
	compounded := model.FromReceipt(&ledger.Receipt{Operation: ledger.OperationCompound}, owner, rec, 200)
	other := model.NewAccountFundedEvent(gofakeit.UUID(), 5, 300)

	for _, event := range []*model.LedgerEventDocument{created, staked, compounded, other} {
		require.NoError(t, testDB.SaveLedgerEvent(ctx, event))
	}
	assert.True(t, db.IsDuplicateKeyError(testDB.SaveLedgerEvent(ctx, created)))

	events, err := testDB.FindLedgerEventsByOwner(ctx, owner, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, compounded.ID, events[0].ID)
	assert.Equal(t, staked.ID, events[1].ID)
	assert.Equal(t, created, events[2])
	assert.Equal(t, types.EventStaked, events[1].EventType)
	assert.Equal(t, uint64(10), events[1].Amount)

	events, err = testDB.FindLedgerEventsByOwner(ctx, owner, 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
