package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/staking-ledger/internal/queue"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/rs/zerolog/log"
)

type Service struct {
	cfg       *config.Config
	db        db.DbInterface
	engine    *ledger.Engine
	funds     ledger.Funds
	clock     ledger.Clock
	publisher queue.EventPublisher
	locks     *keyedMutex
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	publisher queue.EventPublisher,
	clock ledger.Clock,
) (*Service, error) {
	funds := dbFunds(db)
	engine, err := ledger.NewEngine(cfg.Ledger.RewardRate(), funds, cfg.Ledger.CustodianIdentity)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger engine: %w", err)
	}
	if publisher == nil {
		publisher = queue.NoopPublisher{}
	}
	if clock == nil {
		clock = ledger.SystemClock{}
	}

	return &Service{
		cfg:       cfg,
		db:        db,
		engine:    engine,
		funds:     funds,
		clock:     clock,
		publisher: publisher,
		locks:     newKeyedMutex(),
	}, nil
}

func dbFunds(d db.DbInterface) ledger.Funds {
	return db.NewFundsAdapter(d)
}

// Ping checks the storage backend, used by the healthcheck endpoint.
func (s *Service) Ping(ctx context.Context) *types.Error {
	if err := s.db.Ping(ctx); err != nil {
		return types.NewInternalServiceError(fmt.Errorf("storage is unreachable: %w", err))
	}
	return nil
}

// toServiceError maps engine and storage errors to the error returned across
// the service boundary.
func toServiceError(err error) *types.Error {
	if err == nil {
		return nil
	}

	var serviceErr *types.Error
	if errors.As(err, &serviceErr) {
		return serviceErr
	}

	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		return types.NewError(http.StatusForbidden, types.Unauthorized, err)
	case errors.Is(err, ledger.ErrInsufficientStakedAmount):
		return types.NewError(http.StatusBadRequest, types.InsufficientStakedAmount, err)
	case ledger.IsInsufficientFunds(err):
		return types.NewError(http.StatusBadRequest, types.InsufficientFunds, err)
	case errors.Is(err, ledger.ErrRecordNotFound), db.IsNotFoundError(err):
		return types.NewError(http.StatusNotFound, types.NotFound, err)
	case db.IsDuplicateKeyError(err):
		return types.NewError(http.StatusConflict, types.AlreadyExists, err)
	case errors.Is(err, ledger.ErrStorageConflict), db.IsConflictError(err):
		return types.NewError(http.StatusConflict, types.StorageConflict, err)
	case errors.Is(err, ledger.ErrOverflow):
		return types.NewError(http.StatusUnprocessableEntity, types.Overflow, err)
	default:
		return types.NewInternalServiceError(err)
	}
}

// publish pushes a committed event to the queue. A failed publish is logged
// and counted, it never fails the operation.
func (s *Service) publish(ctx context.Context, event *model.LedgerEventDocument) {
	if err := s.publisher.PublishLedgerEvent(ctx, event); err != nil {
		metrics.RecordQueueSendError()
		log.Ctx(ctx).Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.EventType.String()).
			Msg("failed to publish ledger event")
	}
}
