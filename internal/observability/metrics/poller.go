package metrics

import (
	"context"
	"time"
)

type pollerFunction = func(ctx context.Context) error

// RecordPollerDuration wraps a poll method with duration and last success
// metrics labeled by typ.
func RecordPollerDuration(typ string, f pollerFunction) pollerFunction {
	return func(ctx context.Context) error {
		startTime := time.Now()
		err := f(ctx)

		status := Success
		if err != nil {
			status = Error
		} else {
			pollerLastSuccessGauge.WithLabelValues(typ).SetToCurrentTime()
		}
		pollerDurationHistogram.WithLabelValues(typ, status.String()).Observe(time.Since(startTime).Seconds())

		return err
	}
}
