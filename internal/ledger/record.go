package ledger

// StakingRecord is the per-owner ledger entry tracking staked principal and
// accrued-but-unclaimed reward. Amounts are in base units.
type StakingRecord struct {
	Owner           string
	StakedAmount    uint64
	RewardAmount    uint64
	LastAccrualTime int64
	CompoundStreak  uint64
}

// NewStakingRecord returns an empty record for owner whose accrual clock starts at now.
func NewStakingRecord(owner string, now int64) *StakingRecord {
	return &StakingRecord{
		Owner:           owner,
		LastAccrualTime: now,
	}
}

// Total returns staked plus unclaimed reward, or ErrOverflow if the sum
// does not fit in 64 bits.
func (r *StakingRecord) Total() (uint64, error) {
	return addUint64(r.StakedAmount, r.RewardAmount)
}

func authorize(rec *StakingRecord, caller string) error {
	if rec == nil {
		return ErrRecordNotFound
	}
	if caller == "" || caller != rec.Owner {
		return ErrUnauthorized
	}
	return nil
}
