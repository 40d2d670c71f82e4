package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEventMessageEncode(t *testing.T) {
	rec := &ledger.StakingRecord{Owner: "alice", StakedAmount: 1000, RewardAmount: 5, CompoundStreak: 1}
	receipt := &ledger.Receipt{Operation: ledger.OperationClaimReward, Accrued: 5, Payout: 45, Forfeited: 5}
	event := model.FromReceipt(receipt, "alice", rec, 1_700_000_000)

	body, err := NewLedgerEventMessage(event).Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, float64(LedgerEventMessageVersion), decoded["version"])
	assert.Equal(t, event.ID, decoded["id"])
	assert.Equal(t, string(types.EventRewardClaimed), decoded["event_type"])
	assert.Equal(t, float64(45), decoded["payout"])
	assert.Equal(t, float64(5), decoded["forfeited"])
	assert.Equal(t, float64(1000), decoded["staked_amount"])
}

func TestNewEventPublisherWithoutConfig(t *testing.T) {
	publisher, err := NewEventPublisher(nil)
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, publisher)

	event := model.NewLedgerEvent(types.EventRecordCreated, "alice", ledger.NewStakingRecord("alice", 1), 1)
	assert.NoError(t, publisher.PublishLedgerEvent(context.Background(), event))
	publisher.Shutdown()
}

func TestQueueManagerReconnectsOnPublish(t *testing.T) {
	errBrokerDown := errors.New("broker down")
	dials := 0
	qm := &QueueManager{
		cfg: &config.QueueConfig{QueueName: "ledger_events", PublishTimeout: time.Second},
		connect: func() (*amqp.Connection, *amqp.Channel, error) {
			dials++
			return nil, nil, errBrokerDown
		},
	}

	event := model.NewLedgerEvent(types.EventRecordCreated, "alice", ledger.NewStakingRecord("alice", 1), 1)
	for range 3 {
		err := qm.PublishLedgerEvent(context.Background(), event)
		require.ErrorIs(t, err, errBrokerDown)
	}
	// every publish dials again instead of reusing a dead channel
	assert.Equal(t, 3, dials)

	qm.Shutdown()
}
