package types

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventRecordCreated EventType = "staking_ledger.v1.EventRecordCreated"
	EventStaked        EventType = "staking_ledger.v1.EventStaked"
	EventUnstaked      EventType = "staking_ledger.v1.EventUnstaked"
	EventRewardClaimed EventType = "staking_ledger.v1.EventRewardClaimed"
	EventCompounded    EventType = "staking_ledger.v1.EventCompounded"
	EventAccountFunded EventType = "staking_ledger.v1.EventAccountFunded"
	EventRewardAccrued EventType = "staking_ledger.v1.EventRewardAccrued"
)
