// Package source produces head samples for the pipeline. A real tracker
// plugs in behind Source; SyntheticSource stands in when no sensor is
// attached.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/open-teleop/headtrack/pkg/pose"
)

// ErrNoSample means the sensor has nothing for this frame. Callers skip the
// frame and try again on the next tick.
var ErrNoSample = errors.New("no sample available")

// Source yields one head sample per call.
type Source interface {
	Next(ctx context.Context) (pose.Sample, error)
}

// Sink receives samples. It returns false when the sample was not accepted.
type Sink func(s pose.Sample) bool

// RunStats counts what Run did with each tick.
type RunStats struct {
	Delivered uint64
	Rejected  uint64
	Skipped   uint64
}

// Run polls src every interval and pushes samples to sink until ctx is done
// or src fails with an error other than ErrNoSample.
func Run(ctx context.Context, src Source, interval time.Duration, sink Sink) (RunStats, error) {
	var stats RunStats
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		s, err := src.Next(ctx)
		if errors.Is(err, ErrNoSample) {
			stats.Skipped++
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			return stats, err
		}

		if sink(s) {
			stats.Delivered++
		} else {
			stats.Rejected++
		}
	}
}
