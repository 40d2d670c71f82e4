package services

import (
	"context"

	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/rs/zerolog/log"
)

type transfer struct {
	from   string
	to     string
	amount uint64
}

// transferJournal remembers the transfers made by one attempt so they can be
// reversed when the record commit fails.
type transferJournal struct {
	funds     ledger.Funds
	transfers []transfer
}

func newTransferJournal(funds ledger.Funds) *transferJournal {
	return &transferJournal{funds: funds}
}

func (j *transferJournal) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if err := j.funds.Transfer(ctx, from, to, amount); err != nil {
		return err
	}
	j.transfers = append(j.transfers, transfer{from: from, to: to, amount: amount})
	return nil
}

// compensate reverses the journaled transfers, newest first. A reversal that
// fails is logged and the remaining ones are still attempted.
func (j *transferJournal) compensate(ctx context.Context) {
	for i := len(j.transfers) - 1; i >= 0; i-- {
		t := j.transfers[i]
		if err := j.funds.Transfer(ctx, t.to, t.from, t.amount); err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("from", t.to).
				Str("to", t.from).
				Uint64("amount", t.amount).
				Msg("failed to reverse transfer of an uncommitted operation")
		}
	}
	j.transfers = nil
}
