package services

import (
	"context"
	"net/http"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/rs/zerolog/log"
)

const (
	DefaultEventsLimit = 50
	MaxEventsLimit     = 500
)

// CreateRecord allocates the staking record of caller. A caller owns at most
// one record.
func (s *Service) CreateRecord(ctx context.Context, caller string) (*StakingRecordPublic, *types.Error) {
	if caller == "" {
		return nil, types.NewErrorWithMsg(http.StatusUnauthorized, types.Unauthorized, "missing caller identity")
	}

	now := s.clock.Now()
	rec := ledger.NewStakingRecord(caller, now)
	if err := s.db.SaveNewStakingRecord(ctx, model.FromStakingRecord(rec, 0)); err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, types.NewErrorWithMsg(http.StatusConflict, types.AlreadyExists, "staking record already exists for "+caller)
		}
		return nil, types.NewInternalServiceError(err)
	}

	log.Ctx(ctx).Info().Str("owner", caller).Msg("staking record created")
	s.recordEvent(ctx, model.NewLedgerEvent(types.EventRecordCreated, caller, rec, now))

	return newStakingRecordPublic(rec, 0), nil
}

// GetRecord returns the stored record of owner together with its projected
// pending reward. Reads are open to everyone.
func (s *Service) GetRecord(ctx context.Context, owner string) (*StakingRecordPublic, *types.Error) {
	rec, err := s.loadRecord(ctx, owner)
	if err != nil {
		return nil, err
	}

	pending, pendingErr := s.engine.PendingReward(rec, s.clock.Now())
	if pendingErr != nil {
		return nil, toServiceError(pendingErr)
	}

	return newStakingRecordPublic(rec, pending), nil
}

// ListEvents returns the latest audit entries of owner, newest first.
func (s *Service) ListEvents(
	ctx context.Context, owner string, limit int64,
) ([]*model.LedgerEventDocument, *types.Error) {
	if limit <= 0 {
		limit = DefaultEventsLimit
	}
	if limit > MaxEventsLimit {
		limit = MaxEventsLimit
	}

	events, err := s.db.FindLedgerEventsByOwner(ctx, owner, limit)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	if events == nil {
		events = []*model.LedgerEventDocument{}
	}
	return events, nil
}

func (s *Service) loadRecord(ctx context.Context, owner string) (*ledger.StakingRecord, *types.Error) {
	doc, err := s.db.GetStakingRecord(ctx, owner)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "staking record not found for "+owner)
		}
		return nil, types.NewInternalServiceError(err)
	}
	return doc.ToStakingRecord(), nil
}
