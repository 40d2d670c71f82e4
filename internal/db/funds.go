package db

import (
	"context"
	"fmt"

	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
)

// FundsAdapter exposes the balances of a DbInterface as ledger.Funds.
type FundsAdapter struct {
	db DbInterface
}

func NewFundsAdapter(db DbInterface) *FundsAdapter {
	return &FundsAdapter{db: db}
}

func (f *FundsAdapter) Transfer(ctx context.Context, from, to string, amount uint64) error {
	err := f.db.TransferFunds(ctx, from, to, amount)
	if IsInsufficientBalanceError(err) {
		return fmt.Errorf("%w: %w", ledger.ErrInsufficientFunds, err)
	}
	return err
}
