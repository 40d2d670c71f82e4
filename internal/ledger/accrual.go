package ledger

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

const SecondsPerYear = 365 * 24 * 60 * 60

// RewardRate is a simple (non-compounding) annual interest rate expressed as
// Numerator/Denominator per SecondsPerYear.
type RewardRate struct {
	Numerator      uint64
	Denominator    uint64
	SecondsPerYear uint64
}

// DefaultRewardRate is 5% simple annual interest.
var DefaultRewardRate = RewardRate{
	Numerator:      5,
	Denominator:    100,
	SecondsPerYear: SecondsPerYear,
}

func (r RewardRate) Validate() error {
	if r.Denominator == 0 {
		return fmt.Errorf("reward rate denominator must be positive")
	}
	if r.SecondsPerYear == 0 {
		return fmt.Errorf("reward rate seconds per year must be positive")
	}
	return nil
}

// Accrued returns floor(staked * numerator * elapsed / (denominator * secondsPerYear)).
// The product is evaluated on 256-bit integers so that any uint64 stake over
// any int64 interval is exact; only the final quotient has to fit in 64 bits.
func (r RewardRate) Accrued(staked uint64, elapsed int64) (uint64, error) {
	if staked == 0 || elapsed <= 0 || r.Numerator == 0 {
		return 0, nil
	}

	product := sdkmath.NewIntFromUint64(staked).
		Mul(sdkmath.NewIntFromUint64(r.Numerator)).
		Mul(sdkmath.NewInt(elapsed))
	divisor := sdkmath.NewIntFromUint64(r.Denominator).
		Mul(sdkmath.NewIntFromUint64(r.SecondsPerYear))

	accrued := product.Quo(divisor)
	if !accrued.IsUint64() {
		return 0, fmt.Errorf("%w: accrued reward %s exceeds uint64", ErrOverflow, accrued)
	}
	return accrued.Uint64(), nil
}

// Accrue folds the reward earned since rec.LastAccrualTime into rec.RewardAmount
// and advances LastAccrualTime to now. A now earlier than the stored timestamp
// counts as zero elapsed time and leaves the timestamp where it is.
// On error rec is not modified.
func (r RewardRate) Accrue(rec *StakingRecord, now int64) (uint64, error) {
	if now <= rec.LastAccrualTime {
		return 0, nil
	}

	accrued, err := r.Accrued(rec.StakedAmount, now-rec.LastAccrualTime)
	if err != nil {
		return 0, err
	}
	reward, err := addUint64(rec.RewardAmount, accrued)
	if err != nil {
		return 0, fmt.Errorf("failed to accrue reward: %w", err)
	}

	rec.RewardAmount = reward
	rec.LastAccrualTime = now
	return accrued, nil
}

// PendingReward is the reward rec would hold if it were accrued at now.
// rec itself is left untouched.
func (r RewardRate) PendingReward(rec *StakingRecord, now int64) (uint64, error) {
	projected := *rec
	if _, err := r.Accrue(&projected, now); err != nil {
		return 0, err
	}
	return projected.RewardAmount, nil
}

// penalizedPayout is floor(reward * 9 / 10).
func penalizedPayout(reward uint64) uint64 {
	return sdkmath.NewIntFromUint64(reward).MulRaw(9).QuoRaw(10).Uint64()
}
