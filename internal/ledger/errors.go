package ledger

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnauthorized             = errors.New("caller is not the record owner")
	ErrInsufficientStakedAmount = errors.New("insufficient staked amount")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrRecordNotFound           = errors.New("staking record not found")
	ErrStorageConflict          = errors.New("staking record was modified concurrently")
	ErrOverflow                 = errors.New("arithmetic overflow")
)

// IsInsufficientFunds reports whether err was raised by a Funds implementation
// that could not cover a transfer.
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func addUint64(a, b uint64) (uint64, error) {
	if b > math.MaxUint64-a {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return a + b, nil
}
