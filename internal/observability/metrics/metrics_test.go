package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NotPanics(t, func() {
		registerMetrics(registry)
	})
}

func TestRecordPollerDuration(t *testing.T) {
	wantErr := errors.New("boom")
	poll := RecordPollerDuration("test_poller", func(ctx context.Context) error {
		return wantErr
	})

	err := poll(context.Background())
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, testutil.CollectAndCount(pollerDurationHistogram, "poller_duration_seconds"))
}

func TestRecordLedgerTotals(t *testing.T) {
	RecordLedgerTotals(3, 1500, 75)

	assert.Equal(t, float64(3), testutil.ToFloat64(recordCountGauge))
	assert.Equal(t, float64(1500), testutil.ToFloat64(totalStakedGauge))
	assert.Equal(t, float64(75), testutil.ToFloat64(totalRewardGauge))
}

func TestLedgerOperationMetrics(t *testing.T) {
	RecordLedgerOperation(10*time.Millisecond, "stake", 0, false)
	IncLedgerOperationError("unstake", "INSUFFICIENT_STAKED_AMOUNT")

	assert.Equal(t, float64(1), testutil.ToFloat64(
		ledgerOperationErrors.WithLabelValues("unstake", "INSUFFICIENT_STAKED_AMOUNT"),
	))
}
