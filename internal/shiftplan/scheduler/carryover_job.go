// Package scheduler runs the background jobs of the shiftplan service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/logger"
)

const carryoverLockKey = "shifty:jobs:carryover"

// CarryoverUpdater rebuilds the carryovers of one year
type CarryoverUpdater interface {
	UpdateAllEmployees(ctx context.Context, year int) (int, error)
}

// Clock supplies the time a run is scheduled for
type Clock interface {
	Now() time.Time
}

// CarryoverJob closes the previous year's carryover ledger on a cron schedule
type CarryoverJob struct {
	updater CarryoverUpdater
	lock    Locker
	clock   Clock
	lockTTL time.Duration
	timeout time.Duration
	logger  *logger.Logger

	cron *cron.Cron
}

// NewCarryoverJob creates the job. A nil lock runs without locking.
func NewCarryoverJob(updater CarryoverUpdater, lock Locker, clock Clock, lockTTL, timeout time.Duration, log *logger.Logger) *CarryoverJob {
	if lock == nil {
		lock = NoopLocker{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	if lockTTL < timeout {
		lockTTL = timeout
	}
	return &CarryoverJob{
		updater: updater,
		lock:    lock,
		clock:   clock,
		lockTTL: lockTTL,
		timeout: timeout,
		logger:  log.WithComponent("carryover-job"),
	}
}

// Start schedules the job with a standard five field cron spec
func (j *CarryoverJob) Start(spec string) error {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(spec, j.run); err != nil {
		return fmt.Errorf("invalid carryover schedule %q: %w", spec, err)
	}
	j.cron = c
	c.Start()

	j.logger.Info().Str("schedule", spec).Msg("carryover job scheduled")
	return nil
}

// Stop unschedules the job and waits for a running execution to finish
// or ctx to end.
func (j *CarryoverJob) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		j.logger.Warn().Msg("carryover job still running at shutdown")
	}
}

func (j *CarryoverJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	year := j.clock.Now().Year() - 1
	if _, err := j.RunOnce(ctx, year); err != nil {
		j.logger.Error().Err(err).Int("year", year).Msg("carryover job failed")
	}
}

// RunOnce updates the carryovers of year unless another replica holds the
// lock. It reports whether the update ran.
func (j *CarryoverJob) RunOnce(ctx context.Context, year int) (bool, error) {
	release, ok, err := j.lock.Acquire(ctx, carryoverLockKey, j.lockTTL)
	if err != nil {
		return false, err
	}
	if !ok {
		j.logger.Info().Int("year", year).Msg("carryover job running elsewhere, skipping")
		return false, nil
	}
	defer release()

	start := time.Now()
	written, err := j.updater.UpdateAllEmployees(actor.WithSystem(ctx), year)

	event := j.logger.Info()
	if err != nil {
		event = j.logger.Warn().Err(err)
	}
	event.
		Int("year", year).
		Int("written", written).
		Dur("duration", time.Since(start)).
		Msg("carryover job finished")

	return true, err
}
