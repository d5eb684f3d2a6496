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

func (d *DbWithMetrics) Close(ctx context.Context) error {
	return d.db.Close(ctx)
}

func (d *DbWithMetrics) SaveLedgerSnapshot(ctx context.Context, snapshot *model.LedgerSnapshotDocument) error {
	return d.run("SaveLedgerSnapshot", func() error {
		return d.db.SaveLedgerSnapshot(ctx, snapshot)
	})
}

func (d *DbWithMetrics) GetLedgerSnapshot(ctx context.Context) (result *model.LedgerSnapshotDocument, err error) {
	//nolint:errcheck
	d.run("GetLedgerSnapshot", func() error {
		result, err = d.db.GetLedgerSnapshot(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error {
	return d.run("SaveLedgerEvent", func() error {
		return d.db.SaveLedgerEvent(ctx, event)
	})
}

func (d *DbWithMetrics) GetLedgerEvents(
	ctx context.Context, afterSequence uint64, limit int64,
) (result []*model.LedgerEventDocument, err error) {
	//nolint:errcheck
	d.run("GetLedgerEvents", func() error {
		result, err = d.db.GetLedgerEvents(ctx, afterSequence, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) GetLastEventSequence(ctx context.Context) (result uint64, err error) {
	//nolint:errcheck
	d.run("GetLastEventSequence", func() error {
		result, err = d.db.GetLastEventSequence(ctx)
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
