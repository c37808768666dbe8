package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shifty/shifty-backend/internal/shiftplan/scheduler"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpdater struct {
	mu     sync.Mutex
	years  []int
	system []bool
	err    error
}

func (u *fakeUpdater) UpdateAllEmployees(ctx context.Context, year int) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.years = append(u.years, year)
	u.system = append(u.system, actor.FromContext(ctx).IsSystem())
	return 1, u.err
}

type fakeLocker struct {
	held     bool
	err      error
	released int
	ttl      time.Duration
}

func (l *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.ttl = ttl
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() {
		l.held = false
		l.released++
	}, true, nil
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func newJob(updater *fakeUpdater, lock scheduler.Locker) *scheduler.CarryoverJob {
	clock := fixedClock(time.Date(2025, time.January, 1, 2, 0, 0, 0, time.UTC))
	return scheduler.NewCarryoverJob(updater, lock, clock, time.Minute, time.Minute, logger.Nop())
}

func TestCarryoverJob_RunOnce(t *testing.T) {
	updater := &fakeUpdater{}
	lock := &fakeLocker{}

	ran, err := newJob(updater, lock).RunOnce(context.Background(), 2024)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []int{2024}, updater.years)
	assert.Equal(t, []bool{true}, updater.system)
	assert.Equal(t, 1, lock.released)
	assert.False(t, lock.held)
}

func TestCarryoverJob_SkipsWhenLocked(t *testing.T) {
	updater := &fakeUpdater{}
	lock := &fakeLocker{held: true}

	ran, err := newJob(updater, lock).RunOnce(context.Background(), 2024)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Empty(t, updater.years)
}

func TestCarryoverJob_LockError(t *testing.T) {
	updater := &fakeUpdater{}
	lock := &fakeLocker{err: errors.New("redis down")}

	_, err := newJob(updater, lock).RunOnce(context.Background(), 2024)
	assert.Error(t, err)
	assert.Empty(t, updater.years)
}

func TestCarryoverJob_ReleasesOnFailure(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("1 sales person failed")}
	lock := &fakeLocker{}

	ran, err := newJob(updater, lock).RunOnce(context.Background(), 2024)
	assert.True(t, ran)
	assert.Error(t, err)
	assert.Equal(t, 1, lock.released)
}

func TestCarryoverJob_LockOutlivesTimeout(t *testing.T) {
	lock := &fakeLocker{}
	clock := fixedClock(time.Now())
	job := scheduler.NewCarryoverJob(&fakeUpdater{}, lock, clock, time.Second, time.Hour, logger.Nop())

	_, err := job.RunOnce(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, lock.ttl)
}

func TestCarryoverJob_Start(t *testing.T) {
	job := newJob(&fakeUpdater{}, nil)

	assert.Error(t, job.Start("not a schedule"))

	require.NoError(t, job.Start("0 2 1 1 *"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}

func TestNoopLocker(t *testing.T) {
	release, ok, err := scheduler.NoopLocker{}.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	release()
}
