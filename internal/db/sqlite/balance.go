package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) GetBalance(ctx context.Context, identity string) (uint64, error) {
	var balance uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM balances WHERE identity = ?`, identity,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *Store) CreditBalance(ctx context.Context, identity string, amount uint64) error {
	if err := model.CheckStorableAmount("amount", amount); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	return credit(ctx, s.db, identity, amount)
}

// TransferFunds debits and credits inside one transaction so a failed credit
// never leaves the source debited.
func (s *Store) TransferFunds(ctx context.Context, from, to string, amount uint64) error {
	if err := model.CheckStorableAmount("amount", amount); err != nil {
		return err
	}
	if amount == 0 || from == to {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE balances SET balance = balance - ? WHERE identity = ? AND balance >= ?`,
			amount, from, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to debit %s: %w", from, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &db.InsufficientBalanceError{
				Key:     from,
				Message: fmt.Sprintf("balance of %s is lower than %d", from, amount),
			}
		}

		return credit(ctx, tx, to, amount)
	})
}

func credit(ctx context.Context, e execer, identity string, amount uint64) error {
	// a conflicting row is only updated while the sum stays within int64
	res, err := e.ExecContext(ctx, `
		INSERT INTO balances (identity, balance) VALUES (?, ?)
		ON CONFLICT(identity) DO UPDATE SET balance = balance + excluded.balance
		WHERE balances.balance <= 9223372036854775807 - excluded.balance`,
		identity, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to credit %s: %w", identity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: balance of %s would exceed storable range", ledger.ErrOverflow, identity)
	}
	return nil
}
