package sync

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// SyncWatermark
// ---------------------------------------------------------------------------

// Watermark is the per-entity-type sync state row. LastSyncedAt marks the end of
// the most recently fully-processed change window and only advances after a run
// has processed every page for that type; a run that fails partway leaves it
// unchanged so the next run re-fetches the same window.
//
// InProgress is the cross-process run guard: it is claimed at run start and
// released at run end, including on failure. A second trigger observing it set
// declines to start rather than queueing.
type Watermark struct {
	EntityType   EntityType
	LastSyncedAt *time.Time
	InProgress   bool
	UpdatedAt    time.Time
}

// WatermarkRepository persists one watermark row per entity type.
//
// Claim must be atomic at the storage layer (single UPDATE guarded on
// in_progress = false) because triggers may originate from different processes.
type WatermarkRepository interface {
	// Get returns the watermark for an entity type, or a zero-value watermark
	// (nil LastSyncedAt) if no run has happened yet.
	Get(ctx context.Context, entityType EntityType) (*Watermark, error)

	// GetAll returns watermarks for every known entity type, for diagnosis.
	GetAll(ctx context.Context) ([]Watermark, error)

	// Claim atomically sets in_progress = true. Returns ErrSyncAlreadyRunning
	// if another run already holds the claim.
	Claim(ctx context.Context, entityType EntityType) error

	// Release clears in_progress without touching the watermark timestamp.
	Release(ctx context.Context, entityType EntityType) error

	// Advance sets last_synced_at and clears in_progress in one write. Called
	// only after every page of the run committed successfully.
	Advance(ctx context.Context, entityType EntityType, syncedAt time.Time) error
}
