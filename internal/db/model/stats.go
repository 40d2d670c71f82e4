package model

import (
	"math"

	sdkmath "cosmossdk.io/math"
)

const (
	LedgerStatsCollection = "ledger_stats"
	LedgerStatsID         = "ledger_stats"
)

var maxStorableTotal = sdkmath.NewInt(math.MaxInt64)

// LedgerStatsDocument aggregates all staking records. Totals are summed
// exactly and then capped at MaxInt64, the largest amount either backend
// stores.
type LedgerStatsDocument struct {
	ID          string `bson:"_id" json:"-"`                     // Always "ledger_stats"
	RecordCount uint64 `bson:"record_count" json:"record_count"` // Number of staking records
	TotalStaked uint64 `bson:"total_staked" json:"total_staked"` // Sum of staked amounts
	TotalReward uint64 `bson:"total_reward" json:"total_reward"` // Sum of accrued-but-unclaimed rewards as last committed
	LastUpdated int64  `bson:"last_updated" json:"last_updated"` // Unix timestamp of last update
}

// StorableTotal converts an aggregated sum into a stats total, saturating at
// MaxInt64.
func StorableTotal(total sdkmath.Int) uint64 {
	if total.IsNegative() {
		return 0
	}
	if total.GT(maxStorableTotal) {
		return math.MaxInt64
	}
	return total.Uint64()
}
