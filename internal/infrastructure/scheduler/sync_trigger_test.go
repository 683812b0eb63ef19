package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/fabworks/backend/internal/application/sync"
	"github.com/fabworks/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// mockRunner implements Runner for testing
type mockRunner struct {
	runFunc  func(ctx context.Context, opts appsync.Options) (*sync.RunResult, error)
	runCount int32
}

func (m *mockRunner) Run(ctx context.Context, opts appsync.Options) (*sync.RunResult, error) {
	atomic.AddInt32(&m.runCount, 1)
	if m.runFunc != nil {
		return m.runFunc(ctx, opts)
	}
	return &sync.RunResult{
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Entities: []sync.EntityResult{
			{EntityType: sync.EntityTypeCustomers, Status: sync.EntityStatusSuccess},
		},
	}, nil
}

func (m *mockRunner) runs() int32 {
	return atomic.LoadInt32(&m.runCount)
}

// ---------------------------------------------------------------------------
// SyncTrigger Tests
// ---------------------------------------------------------------------------

func TestSyncTriggerConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultSyncTriggerConfig().Validate())
	assert.Error(t, SyncTriggerConfig{Interval: 0}.Validate())
	assert.Error(t, SyncTriggerConfig{Interval: -time.Minute}.Validate())
}

func TestNewSyncTrigger_InvalidConfig(t *testing.T) {
	trigger, err := NewSyncTrigger(SyncTriggerConfig{}, &mockRunner{}, newTestLogger())
	assert.Error(t, err)
	assert.Nil(t, trigger)
}

func TestSyncTrigger_StartStop(t *testing.T) {
	runner := &mockRunner{}
	trigger, err := NewSyncTrigger(SyncTriggerConfig{Interval: time.Hour}, runner, newTestLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, trigger.Start(ctx))
	// Start again should be idempotent
	require.NoError(t, trigger.Start(ctx))

	// Wait for the startup pass
	time.Sleep(100 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))
	require.NoError(t, trigger.Stop(stopCtx))

	assert.Equal(t, int32(1), runner.runs(), "one startup pass, no interval ticks")
}

func TestSyncTrigger_RunsOnInterval(t *testing.T) {
	runner := &mockRunner{}
	trigger, err := NewSyncTrigger(SyncTriggerConfig{Interval: 30 * time.Millisecond}, runner, newTestLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, trigger.Start(ctx))

	time.Sleep(110 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))

	// Startup pass plus at least two ticks
	assert.GreaterOrEqual(t, runner.runs(), int32(3))
}

func TestSyncTrigger_Hint(t *testing.T) {
	runner := &mockRunner{}
	trigger, err := NewSyncTrigger(SyncTriggerConfig{Interval: time.Hour}, runner, newTestLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, trigger.Start(ctx))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, trigger.Hint())
	time.Sleep(100 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))

	assert.Equal(t, int32(2), runner.runs(), "startup pass plus one hinted pass")
}

func TestSyncTrigger_Hint_NotRunning(t *testing.T) {
	trigger, err := NewSyncTrigger(SyncTriggerConfig{Interval: time.Hour}, &mockRunner{}, newTestLogger())
	require.NoError(t, err)

	assert.ErrorIs(t, trigger.Hint(), ErrTriggerNotRunning)
}

func TestSyncTrigger_LastRun(t *testing.T) {
	runner := &mockRunner{}
	trigger, err := NewSyncTrigger(SyncTriggerConfig{Interval: time.Hour}, runner, newTestLogger())
	require.NoError(t, err)

	last, when := trigger.LastRun()
	assert.Nil(t, last)
	assert.True(t, when.IsZero())

	ctx := context.Background()
	require.NoError(t, trigger.Start(ctx))
	time.Sleep(100 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))

	last, when = trigger.LastRun()
	require.NotNil(t, last)
	assert.False(t, when.IsZero())
	assert.Equal(t, sync.EntityStatusSuccess, last.Entities[0].Status)
}
