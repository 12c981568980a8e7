package expireholds

import (
	"context"
	"time"

	"github.com/onelib/rentalengine/rental/shared/shell"
)

const logMsgSweepFailed = "hold sweep failed"

// Runner runs a Sweeper on a fixed interval.
type Runner struct {
	sweeper  *Sweeper
	interval time.Duration
	now      func() time.Time
	logger   shell.Logger
}

// NewRunner creates a Runner. now is the clock the sweeps compare hold deadlines with.
func NewRunner(sweeper *Sweeper, interval time.Duration, now func() time.Time, logger shell.Logger) *Runner {
	return &Runner{
		sweeper:  sweeper,
		interval: interval,
		now:      now,
		logger:   logger,
	}
}

// Run sweeps once per interval until ctx is cancelled. It always returns nil, so it can run in an errgroup
// next to servers that stop on the same context.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.sweeper.Sweep(ctx, r.now()); err != nil && ctx.Err() == nil && r.logger != nil {
				r.logger.Error(logMsgSweepFailed, logAttrError, err.Error())
			}
		}
	}
}
