package db

import (
	"context"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

type DbInterface interface {
	/**
	 * Ping checks the database connection.
	 * @param ctx The context
	 * @return An error if the operation failed
	 */
	Ping(ctx context.Context) error
	/**
	 * SaveNewStakingRecord saves a new staking record. Only one record may
	 * exist per owner.
	 * @param ctx The context
	 * @param doc The record to save, its version is stored as given
	 * @return An error if the operation failed, DuplicateKeyError if the owner
	 * already has a record
	 */
	SaveNewStakingRecord(ctx context.Context, doc *model.StakingRecordDocument) error
	/**
	 * GetStakingRecord retrieves the staking record of an owner.
	 * @param ctx The context
	 * @param owner The owner identity
	 * @return The record or NotFoundError
	 */
	GetStakingRecord(ctx context.Context, owner string) (*model.StakingRecordDocument, error)
	/**
	 * UpdateStakingRecord commits a mutated record if the stored version still
	 * equals doc.Version. On success doc.Version is incremented.
	 * @param ctx The context
	 * @param doc The mutated record carrying the version it was loaded at
	 * @return An error if the operation failed, ConflictError if the record was
	 * modified since it was loaded, NotFoundError if it does not exist
	 */
	UpdateStakingRecord(ctx context.Context, doc *model.StakingRecordDocument) error
	/**
	 * GetBalance retrieves the backing funds balance of an identity. Unknown
	 * identities have a zero balance.
	 * @param ctx The context
	 * @param identity The identity
	 * @return The balance or an error
	 */
	GetBalance(ctx context.Context, identity string) (uint64, error)
	/**
	 * CreditBalance adds amount to the balance of an identity.
	 * @param ctx The context
	 * @param identity The identity
	 * @param amount The amount to add
	 * @return An error if the operation failed
	 */
	CreditBalance(ctx context.Context, identity string, amount uint64) error
	/**
	 * TransferFunds moves amount from one identity to another.
	 * @param ctx The context
	 * @param from The debited identity
	 * @param to The credited identity
	 * @param amount The amount to move
	 * @return An error if the operation failed, InsufficientBalanceError if
	 * the source balance is lower than amount
	 */
	TransferFunds(ctx context.Context, from, to string, amount uint64) error
	/**
	 * SaveLedgerEvent appends an event to the audit trail.
	 * @param ctx The context
	 * @param event The event
	 * @return An error if the operation failed
	 */
	SaveLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error
	/**
	 * FindLedgerEventsByOwner retrieves the latest events of an owner, newest
	 * first.
	 * @param ctx The context
	 * @param owner The owner identity
	 * @param limit The max number of events to return
	 * @return The events or an error
	 */
	FindLedgerEventsByOwner(ctx context.Context, owner string, limit int64) ([]*model.LedgerEventDocument, error)
	/**
	 * CalculateLedgerStats aggregates totals over all staking records.
	 * @param ctx The context
	 * @return The stats or an error
	 */
	CalculateLedgerStats(ctx context.Context) (*model.LedgerStatsDocument, error)
	/**
	 * UpsertLedgerStats stores the latest aggregated stats.
	 * @param ctx The context
	 * @param stats The stats
	 * @return An error if the operation failed
	 */
	UpsertLedgerStats(ctx context.Context, stats *model.LedgerStatsDocument) error
	/**
	 * GetLedgerStats retrieves the last stored stats.
	 * @param ctx The context
	 * @return The stats or NotFoundError if they were never calculated
	 */
	GetLedgerStats(ctx context.Context) (*model.LedgerStatsDocument, error)
}
