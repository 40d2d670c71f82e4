package ledger

import "context"

//go:generate mockery --name=Funds --output=../../tests/mocks --outpkg=mocks --filename=mock_funds.go

// Funds moves backing value between identities. Implementations must return an
// error matching ErrInsufficientFunds (see IsInsufficientFunds) when the source
// cannot cover the amount, and must leave both balances untouched in that case.
type Funds interface {
	Transfer(ctx context.Context, from, to string, amount uint64) error
}
