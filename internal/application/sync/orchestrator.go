package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Sync orchestrator
// ---------------------------------------------------------------------------

// Options selects what a run covers
type Options struct {
	// EntityType restricts the run to one type; nil runs every type in
	// dependency order.
	EntityType *sync.EntityType
	// Window switches the run to deep-sync mode: the watermark is ignored for
	// reading and left unchanged afterwards, so a deep sync can never move
	// last_synced_at past records it did not cover.
	Window *sync.Window
}

// Config tunes the orchestrator's fetch behavior
type Config struct {
	// InitialLookback bounds the first run's change window when no watermark
	// exists yet.
	InitialLookback time.Duration
	// MaxRetries is the number of retries after the first failed page fetch
	MaxRetries int
	// RetryBaseDelay is the backoff base; attempt n waits base * 2^n
	RetryBaseDelay time.Duration
}

// Orchestrator drives full sync runs: per entity type it claims the watermark,
// pages the remote feed, routes each record through the type's module, and
// advances the watermark only after every page committed. Failures are isolated
// per type except authentication failures, which abort the whole run.
type Orchestrator struct {
	client     sync.Client
	watermarks sync.WatermarkRepository
	registry   *Registry
	audit      *AuditGateway
	cfg        Config
	logger     *zap.Logger
}

// NewOrchestrator creates the orchestrator
func NewOrchestrator(
	client sync.Client,
	watermarks sync.WatermarkRepository,
	registry *Registry,
	audit *AuditGateway,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.InitialLookback <= 0 {
		cfg.InitialLookback = 10 * 365 * 24 * time.Hour
	}
	return &Orchestrator{
		client:     client,
		watermarks: watermarks,
		registry:   registry,
		audit:      audit,
		cfg:        cfg,
		logger:     logger.Named("orchestrator"),
	}
}

// Run executes one sync run and returns the per-type results. The error return
// is reserved for invalid options; operational failures land in the result.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*sync.RunResult, error) {
	types := sync.DependencyOrder()
	if opts.EntityType != nil {
		if !opts.EntityType.IsValid() {
			return nil, sync.ErrInvalidEntityType
		}
		types = []sync.EntityType{*opts.EntityType}
	}
	if opts.Window != nil {
		if err := opts.Window.Validate(); err != nil {
			return nil, err
		}
	}

	result := &sync.RunResult{
		StartedAt: time.Now(),
		DeepSync:  opts.Window != nil,
		Entities:  make([]sync.EntityResult, 0, len(types)),
	}

	o.logger.Info("Sync run starting",
		zap.Int("entity_types", len(types)),
		zap.Bool("deep_sync", result.DeepSync),
	)

	aborted := false
	for _, entityType := range types {
		if aborted {
			result.Entities = append(result.Entities, sync.EntityResult{
				EntityType: entityType,
				Status:     sync.EntityStatusSkipped,
			})
			continue
		}

		entityResult, fatal := o.runEntityType(ctx, entityType, opts.Window)
		result.Entities = append(result.Entities, entityResult)

		if fatal {
			o.logger.Error("Aborting run after fatal failure",
				zap.String("entity_type", entityType.String()),
				zap.String("error", entityResult.Error),
			)
			aborted = true
		}
	}

	result.FinishedAt = time.Now()
	o.logger.Info("Sync run finished",
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
		zap.Bool("failed", result.Failed()),
	)
	return result, nil
}

// runEntityType runs one entity type's slice of the run. The second return is
// true when the failure is fatal for the whole run.
func (o *Orchestrator) runEntityType(ctx context.Context, entityType sync.EntityType, window *sync.Window) (sync.EntityResult, bool) {
	res := sync.EntityResult{EntityType: entityType}
	logger := o.logger.With(zap.String("entity_type", entityType.String()))

	module, ok := o.registry.Get(entityType)
	if !ok {
		res.Status = sync.EntityStatusFailed
		res.Error = fmt.Sprintf("no module registered for %s", entityType)
		return res, false
	}

	if err := o.watermarks.Claim(ctx, entityType); err != nil {
		if errors.Is(err, sync.ErrSyncAlreadyRunning) {
			logger.Info("Another run holds the claim; declining")
			res.Status = sync.EntityStatusAlreadyRunning
			return res, false
		}
		res.Status = sync.EntityStatusFailed
		res.Error = err.Error()
		return res, false
	}

	// Claimed from here; the claim must be dropped on every exit path. Advance
	// clears it together with the timestamp write, so releasing twice is
	// harmless but skipping it would wedge the type until manual repair.
	runStartedAt := time.Now()
	modifiedSince, err := o.changeWindowStart(ctx, entityType, window)
	if err != nil {
		o.release(ctx, entityType, logger)
		res.Status = sync.EntityStatusFailed
		res.Error = err.Error()
		return res, false
	}

	err = o.pageLoop(ctx, module, entityType, modifiedSince, window, &res, logger)
	if err != nil {
		o.release(ctx, entityType, logger)
		res.Status = sync.EntityStatusFailed
		res.Error = err.Error()
		o.audit.Record(ctx, sync.NewErrorRecord(
			auditKindFor(err),
			entityType,
			"",
			"sync run aborted for entity type",
			err.Error(),
		))
		return res, sync.IsFatal(err)
	}

	if window != nil {
		// Deep sync reads outside the watermark's window, so advancing here
		// could skip changes between the watermark and the window. Leave it.
		o.release(ctx, entityType, logger)
		res.WatermarkAdvanced = false
	} else {
		if err := o.watermarks.Advance(ctx, entityType, runStartedAt); err != nil {
			o.release(ctx, entityType, logger)
			res.Status = sync.EntityStatusFailed
			res.Error = fmt.Sprintf("advance watermark: %s", err)
			return res, false
		}
		res.WatermarkAdvanced = true
	}

	if res.Failed > 0 {
		res.Status = sync.EntityStatusPartial
	} else {
		res.Status = sync.EntityStatusSuccess
	}
	logger.Info("Entity type synced",
		zap.String("status", res.Status.String()),
		zap.Int("pages", res.Pages),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("linked", res.Linked),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("failed", res.Failed),
	)
	return res, false
}

// changeWindowStart picks the modified-since bound for fetching
func (o *Orchestrator) changeWindowStart(ctx context.Context, entityType sync.EntityType, window *sync.Window) (time.Time, error) {
	if window != nil {
		return window.Start, nil
	}
	watermark, err := o.watermarks.Get(ctx, entityType)
	if err != nil {
		return time.Time{}, fmt.Errorf("read watermark: %w", err)
	}
	if watermark.LastSyncedAt != nil {
		return *watermark.LastSyncedAt, nil
	}
	return time.Now().Add(-o.cfg.InitialLookback), nil
}

// pageLoop fetches and applies every page of the change window
func (o *Orchestrator) pageLoop(
	ctx context.Context,
	module EntityModule,
	entityType sync.EntityType,
	modifiedSince time.Time,
	window *sync.Window,
	res *sync.EntityResult,
	logger *zap.Logger,
) error {
	cursor := ""
	for {
		page, err := o.fetchWithRetry(ctx, entityType, modifiedSince, cursor, logger)
		if err != nil {
			return err
		}
		res.Pages++

		for _, rec := range page.Records {
			if window != nil && !rec.ModifiedAt.Before(window.End) {
				continue
			}
			if err := o.applyRecord(ctx, module, rec, res); err != nil {
				return err
			}
		}

		if !page.HasMore() {
			return nil
		}
		cursor = page.NextCursor
	}
}

// applyRecord routes one record through the module. Record-level failures are
// audited and skipped; only fatal errors and context cancellation propagate.
func (o *Orchestrator) applyRecord(ctx context.Context, module EntityModule, rec sync.RemoteRecord, res *sync.EntityResult) error {
	outcome, err := module.Apply(ctx, rec)
	if err != nil {
		if sync.IsFatal(err) || ctx.Err() != nil {
			return err
		}
		res.Failed++
		o.audit.Record(ctx, sync.NewErrorRecord(
			auditKindFor(err),
			rec.EntityType,
			rec.RemoteID,
			"failed to apply remote record",
			err.Error(),
		))
		return nil
	}

	switch outcome {
	case OutcomeCreated:
		res.Created++
	case OutcomeUpdated:
		res.Updated++
	case OutcomeLinked:
		res.Linked++
	case OutcomeUnchanged:
		res.Unchanged++
	case OutcomeSkipped:
		// Intentional skips are not failures; modules audit the ones that
		// need operator attention.
	}
	return nil
}

// fetchWithRetry fetches one page, retrying transient failures with bounded
// exponential backoff. Non-transient failures return immediately.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, entityType sync.EntityType, modifiedSince time.Time, cursor string, logger *zap.Logger) (*sync.Page, error) {
	var lastErr error
	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := o.cfg.RetryBaseDelay << (attempt - 1)
			logger.Warn("Retrying page fetch",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		page, err := o.client.FetchPage(ctx, entityType, modifiedSince, cursor)
		if err == nil {
			return page, nil
		}
		if !sync.IsTransient(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: retries exhausted: %w", errTransientExhausted, lastErr)
}

// errTransientExhausted marks a page fetch that failed after all retries
var errTransientExhausted = errors.New("sync: transient failures exhausted retries")

// auditKindFor classifies an error into its audit kind
func auditKindFor(err error) sync.ErrorKind {
	switch {
	case errors.Is(err, errTransientExhausted):
		return sync.ErrorKindTransientExhausted
	case errors.Is(err, sync.ErrRemoteRejected), errors.Is(err, sync.ErrRemoteAuth):
		return sync.ErrorKindRemoteRejected
	default:
		return sync.ErrorKindMappingInvalid
	}
}

func (o *Orchestrator) release(ctx context.Context, entityType sync.EntityType, logger *zap.Logger) {
	if err := o.watermarks.Release(ctx, entityType); err != nil {
		logger.Error("Failed to release run claim", zap.Error(err))
	}
}
