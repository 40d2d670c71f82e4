package queue

import (
	"encoding/json"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

const LedgerEventMessageVersion = 1

// LedgerEventMessage is the payload published for every committed ledger
// mutation. Amounts are base units.
type LedgerEventMessage struct {
	Version        int    `json:"version"`
	ID             string `json:"id"`
	EventType      string `json:"event_type"`
	Owner          string `json:"owner"`
	Caller         string `json:"caller"`
	Amount         uint64 `json:"amount"`
	Accrued        uint64 `json:"accrued"`
	Payout         uint64 `json:"payout"`
	Forfeited      uint64 `json:"forfeited"`
	StakedAmount   uint64 `json:"staked_amount"`
	RewardAmount   uint64 `json:"reward_amount"`
	CompoundStreak uint64 `json:"compound_streak"`
	Timestamp      int64  `json:"timestamp"`
}

func NewLedgerEventMessage(event *model.LedgerEventDocument) *LedgerEventMessage {
	return &LedgerEventMessage{
		Version:        LedgerEventMessageVersion,
		ID:             event.ID,
		EventType:      string(event.EventType),
		Owner:          event.Owner,
		Caller:         event.Caller,
		Amount:         event.Amount,
		Accrued:        event.Accrued,
		Payout:         event.Payout,
		Forfeited:      event.Forfeited,
		StakedAmount:   event.StakedAmount,
		RewardAmount:   event.RewardAmount,
		CompoundStreak: event.CompoundStreak,
		Timestamp:      event.Timestamp,
	}
}

func (m *LedgerEventMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
