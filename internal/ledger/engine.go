package ledger

import (
	"context"
	"errors"
	"fmt"
)

type Operation string

const (
	OperationStake       Operation = "stake"
	OperationUnstake     Operation = "unstake"
	OperationClaimReward Operation = "claim_reward"
	OperationCompound    Operation = "compound"
)

func (o Operation) String() string {
	return string(o)
}

// Receipt describes what a successful operation did besides mutating the record.
type Receipt struct {
	Operation Operation
	// Accrued is the reward folded in by the accrual step of this call.
	Accrued uint64
	// Amount is the requested stake/unstake amount, or the reward moved into
	// stake by a compound.
	Amount uint64
	// Payout is the value transferred from the custodian by a claim.
	Payout uint64
	// Forfeited is the part of the reward kept by the custodian when a claim
	// is penalized.
	Forfeited uint64
}

// Engine applies the four staking operations to a record. It holds no state
// of its own; callers serialize mutations of the same record.
type Engine struct {
	rate      RewardRate
	funds     Funds
	custodian string
}

func NewEngine(rate RewardRate, funds Funds, custodian string) (*Engine, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	if funds == nil {
		return nil, errors.New("funds collaborator is required")
	}
	if custodian == "" {
		return nil, errors.New("custodian identity is required")
	}

	return &Engine{
		rate:      rate,
		funds:     funds,
		custodian: custodian,
	}, nil
}

func (e *Engine) Rate() RewardRate {
	return e.rate
}

func (e *Engine) Custodian() string {
	return e.custodian
}

// WithFunds returns a copy of the engine that moves value through funds.
func (e *Engine) WithFunds(funds Funds) *Engine {
	c := *e
	c.funds = funds
	return &c
}

// Accrue brings rec's reward up to date as of now.
func (e *Engine) Accrue(rec *StakingRecord, now int64) (uint64, error) {
	return e.rate.Accrue(rec, now)
}

// PendingReward projects rec's reward at now without mutating it.
func (e *Engine) PendingReward(rec *StakingRecord, now int64) (uint64, error) {
	return e.rate.PendingReward(rec, now)
}

// Stake moves amount from the caller to the custodian and adds it to the
// staked principal. Reward for the elapsed interval is computed on the
// pre-deposit stake. A zero amount only accrues.
func (e *Engine) Stake(
	ctx context.Context, rec *StakingRecord, caller string, amount uint64, now int64,
) (*Receipt, error) {
	if err := authorize(rec, caller); err != nil {
		return nil, err
	}

	next := *rec
	accrued, err := e.rate.Accrue(&next, now)
	if err != nil {
		return nil, err
	}

	staked, err := addUint64(next.StakedAmount, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to stake: %w", err)
	}

	if err := e.transfer(ctx, caller, e.custodian, amount); err != nil {
		return nil, err
	}

	next.StakedAmount = staked
	*rec = next

	return &Receipt{
		Operation: OperationStake,
		Accrued:   accrued,
		Amount:    amount,
	}, nil
}

// Unstake returns amount of staked principal to the caller. When amount
// exceeds the stake the accrual already performed by this call is kept in rec
// and ErrInsufficientStakedAmount is returned.
func (e *Engine) Unstake(
	ctx context.Context, rec *StakingRecord, caller string, amount uint64, now int64,
) (*Receipt, error) {
	if err := authorize(rec, caller); err != nil {
		return nil, err
	}

	next := *rec
	accrued, err := e.rate.Accrue(&next, now)
	if err != nil {
		return nil, err
	}

	if amount > next.StakedAmount {
		*rec = next
		return nil, fmt.Errorf(
			"%w: requested %d, staked %d", ErrInsufficientStakedAmount, amount, next.StakedAmount,
		)
	}

	if err := e.transfer(ctx, e.custodian, caller, amount); err != nil {
		return nil, err
	}

	next.StakedAmount -= amount
	*rec = next

	return &Receipt{
		Operation: OperationUnstake,
		Accrued:   accrued,
		Amount:    amount,
	}, nil
}

// ClaimReward pays out the accrued reward, minus a 10% forfeiture when
// applyPenalty is set, and resets the reward and the compound streak.
func (e *Engine) ClaimReward(
	ctx context.Context, rec *StakingRecord, caller string, applyPenalty bool, now int64,
) (*Receipt, error) {
	if err := authorize(rec, caller); err != nil {
		return nil, err
	}

	next := *rec
	accrued, err := e.rate.Accrue(&next, now)
	if err != nil {
		return nil, err
	}

	payout := next.RewardAmount
	if applyPenalty {
		payout = penalizedPayout(next.RewardAmount)
	}

	if err := e.transfer(ctx, e.custodian, caller, payout); err != nil {
		return nil, err
	}

	forfeited := next.RewardAmount - payout
	next.RewardAmount = 0
	next.CompoundStreak = 0
	*rec = next

	return &Receipt{
		Operation: OperationClaimReward,
		Accrued:   accrued,
		Payout:    payout,
		Forfeited: forfeited,
	}, nil
}

// Compound moves the whole accrued reward into the staked principal. No value
// leaves the custodian.
func (e *Engine) Compound(
	_ context.Context, rec *StakingRecord, caller string, now int64,
) (*Receipt, error) {
	if err := authorize(rec, caller); err != nil {
		return nil, err
	}

	next := *rec
	accrued, err := e.rate.Accrue(&next, now)
	if err != nil {
		return nil, err
	}

	staked, err := addUint64(next.StakedAmount, next.RewardAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to compound: %w", err)
	}
	streak, err := addUint64(next.CompoundStreak, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to compound: %w", err)
	}

	compounded := next.RewardAmount
	next.StakedAmount = staked
	next.RewardAmount = 0
	next.CompoundStreak = streak
	*rec = next

	return &Receipt{
		Operation: OperationCompound,
		Accrued:   accrued,
		Amount:    compounded,
	}, nil
}

func (e *Engine) transfer(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := e.funds.Transfer(ctx, from, to, amount); err != nil {
		return fmt.Errorf("failed to transfer %d from %s to %s: %w", amount, from, to, err)
	}
	return nil
}
