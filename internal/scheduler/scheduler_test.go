package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stocksync/internal/config"
	"github.com/mamadbah2/stocksync/internal/domain/models"
)

type fakeRunner struct {
	triggers    []models.SyncTrigger
	hasDeadline bool
	err         error
}

func (f *fakeRunner) RunWithTrigger(ctx context.Context, trigger models.SyncTrigger) (models.SyncResult, error) {
	f.triggers = append(f.triggers, trigger)
	_, f.hasDeadline = ctx.Deadline()
	if f.err != nil {
		return models.SyncResult{}, f.err
	}
	return models.SyncResult{Success: true, Count: 3}, nil
}

func TestNewScheduler_InvalidTimezone(t *testing.T) {
	_, err := NewScheduler(config.SyncConfig{Timezone: "Nowhere/Land"}, &fakeRunner{}, nil)

	assert.Error(t, err)
}

func TestStart_RegistersSyncJob(t *testing.T) {
	sched, err := NewScheduler(config.SyncConfig{Enabled: true, CronSchedule: "*/30 * * * *", Timezone: "UTC"}, &fakeRunner{}, nil)
	require.NoError(t, err)

	require.NoError(t, sched.Start())
	defer sched.Stop()

	entries := sched.cron.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Next.Minute()%30)
}

func TestStart_Disabled(t *testing.T) {
	sched, err := NewScheduler(config.SyncConfig{Enabled: false, CronSchedule: "*/30 * * * *", Timezone: "UTC"}, &fakeRunner{}, nil)
	require.NoError(t, err)

	require.NoError(t, sched.Start())

	assert.Empty(t, sched.cron.Entries())
}

func TestStart_InvalidSchedule(t *testing.T) {
	sched, err := NewScheduler(config.SyncConfig{Enabled: true, CronSchedule: "every half hour", Timezone: "UTC"}, &fakeRunner{}, nil)
	require.NoError(t, err)

	assert.ErrorContains(t, sched.Start(), "schedule inventory sync")
}

func TestSyncInventory_UsesScheduledTrigger(t *testing.T) {
	for _, runErr := range []error{nil, models.ErrSyncInProgress, errors.New("fetch failed")} {
		runner := &fakeRunner{err: runErr}
		sched, err := NewScheduler(config.SyncConfig{Timezone: "UTC"}, runner, nil)
		require.NoError(t, err)

		sched.syncInventory()

		assert.Equal(t, []models.SyncTrigger{models.SyncTriggerScheduled}, runner.triggers)
		assert.False(t, runner.hasDeadline)
	}
}
