package model

import (
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/google/uuid"
)

const LedgerEventCollection = "ledger_events"

// LedgerEventDocument is an append-only audit entry written after every
// committed ledger mutation. Balances are the values after the operation.
// IDs are time-ordered (uuid v7).
type LedgerEventDocument struct {
	ID             string          `bson:"_id" json:"id"`
	EventType      types.EventType `bson:"event_type" json:"event_type"`
	Owner          string          `bson:"owner" json:"owner"`
	Caller         string          `bson:"caller" json:"caller"`
	Amount         uint64          `bson:"amount" json:"amount"`
	Accrued        uint64          `bson:"accrued" json:"accrued"`
	Payout         uint64          `bson:"payout" json:"payout"`
	Forfeited      uint64          `bson:"forfeited" json:"forfeited"`
	StakedAmount   uint64          `bson:"staked_amount" json:"staked_amount"`
	RewardAmount   uint64          `bson:"reward_amount" json:"reward_amount"`
	CompoundStreak uint64          `bson:"compound_streak" json:"compound_streak"`
	Timestamp      int64           `bson:"timestamp" json:"timestamp"`
}

var receiptEventTypes = map[ledger.Operation]types.EventType{
	ledger.OperationStake:       types.EventStaked,
	ledger.OperationUnstake:     types.EventUnstaked,
	ledger.OperationClaimReward: types.EventRewardClaimed,
	ledger.OperationCompound:    types.EventCompounded,
}

func NewLedgerEvent(
	eventType types.EventType, caller string, rec *ledger.StakingRecord, timestamp int64,
) *LedgerEventDocument {
	return &LedgerEventDocument{
		ID:             uuid.Must(uuid.NewV7()).String(),
		EventType:      eventType,
		Owner:          rec.Owner,
		Caller:         caller,
		StakedAmount:   rec.StakedAmount,
		RewardAmount:   rec.RewardAmount,
		CompoundStreak: rec.CompoundStreak,
		Timestamp:      timestamp,
	}
}

func FromReceipt(
	receipt *ledger.Receipt, caller string, rec *ledger.StakingRecord, timestamp int64,
) *LedgerEventDocument {
	event := NewLedgerEvent(receiptEventTypes[receipt.Operation], caller, rec, timestamp)
	event.Amount = receipt.Amount
	event.Accrued = receipt.Accrued
	event.Payout = receipt.Payout
	event.Forfeited = receipt.Forfeited
	return event
}

// NewRewardAccruedEvent records an accrual committed without the operation
// that triggered it, e.g. a rejected unstake.
func NewRewardAccruedEvent(
	caller string, accrued uint64, rec *ledger.StakingRecord, timestamp int64,
) *LedgerEventDocument {
	event := NewLedgerEvent(types.EventRewardAccrued, caller, rec, timestamp)
	event.Accrued = accrued
	return event
}

// NewAccountFundedEvent records value credited to an identity from outside
// the ledger. It is not tied to a staking record.
func NewAccountFundedEvent(identity string, amount uint64, timestamp int64) *LedgerEventDocument {
	return &LedgerEventDocument{
		ID:        uuid.Must(uuid.NewV7()).String(),
		EventType: types.EventAccountFunded,
		Owner:     identity,
		Caller:    identity,
		Amount:    amount,
		Timestamp: timestamp,
	}
}
