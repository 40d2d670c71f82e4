//go:build integration

package db_test

import (
	"math"
	"testing"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalances(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	balanceOf := func(t *testing.T, identity string) uint64 {
		balance, err := testDB.GetBalance(ctx, identity)
		require.NoError(t, err)
		return balance
	}

	t.Run("unknown identity", func(t *testing.T) {
		assert.Zero(t, balanceOf(t, pkg.RandString(10)))
	})
	t.Run("credit and transfer", func(t *testing.T) {
		from, to := pkg.RandString(10), pkg.RandString(10)
		require.NoError(t, testDB.CreditBalance(ctx, from, 100))
		require.NoError(t, testDB.CreditBalance(ctx, from, 20))
		require.NoError(t, testDB.TransferFunds(ctx, from, to, 70))

		assert.Equal(t, uint64(50), balanceOf(t, from))
		assert.Equal(t, uint64(70), balanceOf(t, to))
	})
	t.Run("insufficient balance", func(t *testing.T) {
		from, to := pkg.RandString(10), pkg.RandString(10)
		require.NoError(t, testDB.CreditBalance(ctx, from, 5))

		err := testDB.TransferFunds(ctx, from, to, 6)
		assert.True(t, db.IsInsufficientBalanceError(err))
		assert.Equal(t, uint64(5), balanceOf(t, from))
		assert.Zero(t, balanceOf(t, to))

		err = db.NewFundsAdapter(testDB).Transfer(ctx, from, to, 6)
		assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	})
	t.Run("credit overflow refunds the source", func(t *testing.T) {
		from, to := pkg.RandString(10), pkg.RandString(10)
		require.NoError(t, testDB.CreditBalance(ctx, from, 10))
		require.NoError(t, testDB.CreditBalance(ctx, to, math.MaxInt64))

		err := testDB.TransferFunds(ctx, from, to, 10)
		assert.ErrorIs(t, err, ledger.ErrOverflow)
		assert.Equal(t, uint64(10), balanceOf(t, from))
		assert.Equal(t, uint64(math.MaxInt64), balanceOf(t, to))
	})
}
