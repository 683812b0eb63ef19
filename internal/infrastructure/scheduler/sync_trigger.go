package scheduler

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	appsync "github.com/fabworks/backend/internal/application/sync"
	"github.com/fabworks/backend/internal/domain/sync"
)

// ErrTriggerNotRunning indicates an early-run request against a stopped trigger
var ErrTriggerNotRunning = errors.New("scheduler: sync trigger is not running")

// Runner runs one sync pass. Satisfied by the sync orchestrator.
type Runner interface {
	Run(ctx context.Context, opts appsync.Options) (*sync.RunResult, error)
}

// ---------------------------------------------------------------------------
// SyncTriggerConfig
// ---------------------------------------------------------------------------

// SyncTriggerConfig holds configuration for the interval sync trigger
type SyncTriggerConfig struct {
	// Interval is the time between scheduled full sync runs
	Interval time.Duration

	// RunTimeout bounds one run; zero means no bound beyond the parent context
	RunTimeout time.Duration
}

// DefaultSyncTriggerConfig returns default configuration
func DefaultSyncTriggerConfig() SyncTriggerConfig {
	return SyncTriggerConfig{
		Interval:   15 * time.Minute,
		RunTimeout: 10 * time.Minute,
	}
}

// Validate validates the trigger configuration
func (c SyncTriggerConfig) Validate() error {
	if c.Interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}
	return nil
}

// ---------------------------------------------------------------------------
// SyncTrigger
// ---------------------------------------------------------------------------

// SyncTrigger runs full sync passes on a fixed interval. Overlap protection is
// not its job: the watermark claim declines a second concurrent run per entity
// type, so an early-run hint while a scheduled run is active degrades to
// ALREADY_RUNNING results instead of queueing.
type SyncTrigger struct {
	config SyncTriggerConfig
	runner Runner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        gosync.WaitGroup
	mu        gosync.Mutex
	isRunning bool

	// kick wakes the loop for an early scheduled pass
	kick chan struct{}

	lastMu   gosync.RWMutex
	lastRun  *sync.RunResult
	lastWhen time.Time
}

// NewSyncTrigger creates a new interval sync trigger
func NewSyncTrigger(config SyncTriggerConfig, runner Runner, logger *zap.Logger) (*SyncTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SyncTrigger{
		config: config,
		runner: runner,
		logger: logger.Named("sync_trigger"),
		kick:   make(chan struct{}, 1),
	}, nil
}

// Start starts the trigger loop
func (t *SyncTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Sync trigger started", zap.Duration("interval", t.config.Interval))
	return nil
}

// Stop stops the trigger loop and waits for an in-flight run to finish
func (t *SyncTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sync trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Hint asks the loop to run a pass as soon as possible. Non-blocking; a hint
// arriving while one is already pending coalesces into it.
func (t *SyncTrigger) Hint() error {
	t.mu.Lock()
	running := t.isRunning
	t.mu.Unlock()
	if !running {
		return ErrTriggerNotRunning
	}
	select {
	case t.kick <- struct{}{}:
	default:
	}
	return nil
}

// LastRun returns the most recent run result and when it finished
func (t *SyncTrigger) LastRun() (*sync.RunResult, time.Time) {
	t.lastMu.RLock()
	defer t.lastMu.RUnlock()
	return t.lastRun, t.lastWhen
}

// runLoop runs passes on the interval and on hints
func (t *SyncTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	// Run once at startup so a fresh deployment does not wait a full interval
	t.runPass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runPass(ctx)
		case <-t.kick:
			t.runPass(ctx)
		}
	}
}

// runPass executes one full sync run
func (t *SyncTrigger) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx := ctx
	if t.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.config.RunTimeout)
		defer cancel()
	}

	result, err := t.runner.Run(runCtx, appsync.Options{})
	if err != nil {
		t.logger.Error("Scheduled sync pass failed to start", zap.Error(err))
		return
	}

	t.lastMu.Lock()
	t.lastRun = result
	t.lastWhen = time.Now()
	t.lastMu.Unlock()

	if result.Failed() {
		t.logger.Warn("Scheduled sync pass completed with failures")
	}
}
