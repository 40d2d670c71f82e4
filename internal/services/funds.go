package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/rs/zerolog/log"
)

// FundAccount credits amount of backing value to identity. It is the entry
// point for value into the ledger: stakers fund their stake, operators fund
// the custodian's reward pool.
func (s *Service) FundAccount(ctx context.Context, identity string, amount uint64) (*BalancePublic, *types.Error) {
	if identity == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "missing identity")
	}
	if amount == 0 {
		return nil, types.NewValidationFailedError(errors.New("amount must be positive"))
	}

	if err := s.db.CreditBalance(ctx, identity, amount); err != nil {
		return nil, toServiceError(err)
	}

	log.Ctx(ctx).Info().Str("identity", identity).Uint64("amount", amount).Msg("account funded")
	s.recordEvent(ctx, model.NewAccountFundedEvent(identity, amount, s.clock.Now()))

	return s.GetBalance(ctx, identity)
}

func (s *Service) GetBalance(ctx context.Context, identity string) (*BalancePublic, *types.Error) {
	balance, err := s.db.GetBalance(ctx, identity)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return &BalancePublic{Identity: identity, Balance: balance}, nil
}
