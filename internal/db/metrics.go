package db

import (
	"context"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) SaveNewStakingRecord(ctx context.Context, doc *model.StakingRecordDocument) error {
	return d.run("SaveNewStakingRecord", func() error {
		return d.db.SaveNewStakingRecord(ctx, doc)
	})
}

func (d *DbWithMetrics) GetStakingRecord(ctx context.Context, owner string) (result *model.StakingRecordDocument, err error) {
	//nolint:errcheck
	d.run("GetStakingRecord", func() error {
		result, err = d.db.GetStakingRecord(ctx, owner)
		return err
	})
	return
}

func (d *DbWithMetrics) UpdateStakingRecord(ctx context.Context, doc *model.StakingRecordDocument) error {
	return d.run("UpdateStakingRecord", func() error {
		return d.db.UpdateStakingRecord(ctx, doc)
	})
}

func (d *DbWithMetrics) GetBalance(ctx context.Context, identity string) (result uint64, err error) {
	//nolint:errcheck
	d.run("GetBalance", func() error {
		result, err = d.db.GetBalance(ctx, identity)
		return err
	})
	return
}

func (d *DbWithMetrics) CreditBalance(ctx context.Context, identity string, amount uint64) error {
	return d.run("CreditBalance", func() error {
		return d.db.CreditBalance(ctx, identity, amount)
	})
}

func (d *DbWithMetrics) TransferFunds(ctx context.Context, from, to string, amount uint64) error {
	return d.run("TransferFunds", func() error {
		return d.db.TransferFunds(ctx, from, to, amount)
	})
}

func (d *DbWithMetrics) SaveLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error {
	return d.run("SaveLedgerEvent", func() error {
		return d.db.SaveLedgerEvent(ctx, event)
	})
}

func (d *DbWithMetrics) FindLedgerEventsByOwner(ctx context.Context, owner string, limit int64) (result []*model.LedgerEventDocument, err error) {
	//nolint:errcheck
	d.run("FindLedgerEventsByOwner", func() error {
		result, err = d.db.FindLedgerEventsByOwner(ctx, owner, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) CalculateLedgerStats(ctx context.Context) (result *model.LedgerStatsDocument, err error) {
	//nolint:errcheck
	d.run("CalculateLedgerStats", func() error {
		result, err = d.db.CalculateLedgerStats(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertLedgerStats(ctx context.Context, stats *model.LedgerStatsDocument) error {
	return d.run("UpsertLedgerStats", func() error {
		return d.db.UpsertLedgerStats(ctx, stats)
	})
}

func (d *DbWithMetrics) GetLedgerStats(ctx context.Context) (result *model.LedgerStatsDocument, err error) {
	//nolint:errcheck
	d.run("GetLedgerStats", func() error {
		result, err = d.db.GetLedgerStats(ctx)
		return err
	})
	return
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
