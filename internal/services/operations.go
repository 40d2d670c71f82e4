package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/rs/zerolog/log"
)

type applyFunc func(
	ctx context.Context, engine *ledger.Engine, rec *ledger.StakingRecord, now int64,
) (*ledger.Receipt, error)

type committed struct {
	rec     *ledger.StakingRecord
	receipt *ledger.Receipt
	now     int64
}

func (s *Service) Stake(
	ctx context.Context, owner, caller string, amount uint64,
) (*OperationResult, *types.Error) {
	return s.mutate(ctx, owner, caller, ledger.OperationStake,
		func(ctx context.Context, engine *ledger.Engine, rec *ledger.StakingRecord, now int64) (*ledger.Receipt, error) {
			return engine.Stake(ctx, rec, caller, amount, now)
		})
}

func (s *Service) Unstake(
	ctx context.Context, owner, caller string, amount uint64,
) (*OperationResult, *types.Error) {
	return s.mutate(ctx, owner, caller, ledger.OperationUnstake,
		func(ctx context.Context, engine *ledger.Engine, rec *ledger.StakingRecord, now int64) (*ledger.Receipt, error) {
			return engine.Unstake(ctx, rec, caller, amount, now)
		})
}

func (s *Service) ClaimReward(
	ctx context.Context, owner, caller string, applyPenalty bool,
) (*OperationResult, *types.Error) {
	return s.mutate(ctx, owner, caller, ledger.OperationClaimReward,
		func(ctx context.Context, engine *ledger.Engine, rec *ledger.StakingRecord, now int64) (*ledger.Receipt, error) {
			return engine.ClaimReward(ctx, rec, caller, applyPenalty, now)
		})
}

func (s *Service) Compound(
	ctx context.Context, owner, caller string,
) (*OperationResult, *types.Error) {
	return s.mutate(ctx, owner, caller, ledger.OperationCompound,
		func(ctx context.Context, engine *ledger.Engine, rec *ledger.StakingRecord, now int64) (*ledger.Receipt, error) {
			return engine.Compound(ctx, rec, caller, now)
		})
}

// mutate runs one ledger operation against the stored record of owner.
// Operations on the same owner are serialized in-process; a commit that
// still loses against another writer is retried on a freshly loaded record.
func (s *Service) mutate(
	ctx context.Context, owner, caller string, op ledger.Operation, apply applyFunc,
) (*OperationResult, *types.Error) {
	logger := log.Ctx(ctx).With().
		Str("owner", owner).
		Str("caller", caller).
		Str("operation", op.String()).
		Logger()
	startTime := time.Now()
	retries := 0

	unlock := s.locks.Lock(owner)
	defer unlock()

	result, err := retry.DoWithData(
		func() (*committed, error) {
			return s.attempt(ctx, owner, caller, apply)
		},
		retry.Context(ctx),
		retry.Attempts(s.cfg.Ledger.ConflictRetries()+1),
		retry.Delay(s.cfg.Ledger.ConflictRetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(db.IsConflictError),
		retry.OnRetry(func(n uint, err error) {
			retries = int(n) + 1
			logger.Warn().
				Err(err).
				Uint("attempt", n+1).
				Uint("max_retries", s.cfg.Ledger.ConflictRetries()).
				Msg("staking record changed concurrently, retrying")
		}),
	)
	metrics.RecordLedgerOperation(time.Since(startTime), op.String(), retries, err != nil)

	if err != nil {
		if db.IsConflictError(err) {
			err = fmt.Errorf("%w: %w", ledger.ErrStorageConflict, err)
		}
		serviceErr := toServiceError(err)
		metrics.IncLedgerOperationError(op.String(), serviceErr.ErrorCode.String())
		logger.Info().Err(err).Str("error_code", serviceErr.ErrorCode.String()).Msg("ledger operation rejected")
		return nil, serviceErr
	}

	logger.Info().
		Uint64("accrued", result.receipt.Accrued).
		Uint64("amount", result.receipt.Amount).
		Uint64("payout", result.receipt.Payout).
		Uint64("forfeited", result.receipt.Forfeited).
		Msg("ledger operation committed")

	s.recordEvent(ctx, model.FromReceipt(result.receipt, caller, result.rec, result.now))
	return newOperationResult(result.receipt, result.rec), nil
}

// attempt loads, mutates and commits once. Transfers of an attempt whose
// commit fails are reversed before the error is returned.
func (s *Service) attempt(ctx context.Context, owner, caller string, apply applyFunc) (*committed, error) {
	doc, err := s.db.GetStakingRecord(ctx, owner)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ledger.ErrRecordNotFound, owner)
		}
		return nil, fmt.Errorf("failed to load staking record: %w", err)
	}

	loaded := doc.ToStakingRecord()
	rec := *loaded
	now := s.clock.Now()
	journal := newTransferJournal(s.funds)

	receipt, opErr := apply(ctx, s.engine.WithFunds(journal), &rec, now)
	if opErr != nil {
		// a rejected unstake keeps the accrual it performed
		if errors.Is(opErr, ledger.ErrInsufficientStakedAmount) && rec != *loaded {
			if err := s.db.UpdateStakingRecord(ctx, model.FromStakingRecord(&rec, doc.Version)); err != nil {
				return nil, err
			}
			accrued := rec.RewardAmount - loaded.RewardAmount
			s.recordEvent(ctx, model.NewRewardAccruedEvent(caller, accrued, &rec, now))
		}
		return nil, opErr
	}

	if err := s.db.UpdateStakingRecord(ctx, model.FromStakingRecord(&rec, doc.Version)); err != nil {
		journal.compensate(ctx)
		return nil, err
	}

	return &committed{rec: &rec, receipt: receipt, now: now}, nil
}

// recordEvent appends the audit entry and publishes it. The operation is
// already committed, so failures here are only logged.
func (s *Service) recordEvent(ctx context.Context, event *model.LedgerEventDocument) {
	if err := s.db.SaveLedgerEvent(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.EventType.String()).
			Msg("failed to save ledger event")
	}
	s.publish(ctx, event)
}
