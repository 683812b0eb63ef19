package sync

import "time"

// ---------------------------------------------------------------------------
// Run results
// ---------------------------------------------------------------------------

// EntityStatus is the per-entity-type outcome of a run
type EntityStatus string

const (
	// EntityStatusSuccess indicates every page processed and watermark advanced
	EntityStatusSuccess EntityStatus = "SUCCESS"
	// EntityStatusPartial indicates some records failed but the run completed;
	// failed records are in the audit trail and the watermark still advanced
	EntityStatusPartial EntityStatus = "PARTIAL"
	// EntityStatusFailed indicates the run for this type aborted; watermark unchanged
	EntityStatusFailed EntityStatus = "FAILED"
	// EntityStatusAlreadyRunning indicates another run held the claim
	EntityStatusAlreadyRunning EntityStatus = "ALREADY_RUNNING"
	// EntityStatusSkipped indicates the run aborted before reaching this type
	EntityStatusSkipped EntityStatus = "SKIPPED"
)

// IsValid returns true if the status is valid
func (s EntityStatus) IsValid() bool {
	switch s {
	case EntityStatusSuccess, EntityStatusPartial, EntityStatusFailed,
		EntityStatusAlreadyRunning, EntityStatusSkipped:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityStatus
func (s EntityStatus) String() string {
	return string(s)
}

// EntityResult reports one entity type's slice of a run
type EntityResult struct {
	EntityType EntityType   `json:"entity_type"`
	Status     EntityStatus `json:"status"`
	// Pages is the number of remote pages fetched and committed
	Pages int `json:"pages"`
	// Created/Updated/Linked/Unchanged count reconciliation outcomes
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Linked    int `json:"linked"`
	Unchanged int `json:"unchanged"`
	// Failed counts records recorded in the audit trail and skipped
	Failed int `json:"failed"`
	// WatermarkAdvanced reports whether last_synced_at moved
	WatermarkAdvanced bool `json:"watermark_advanced"`
	// Error carries the aborting error message when Status is FAILED
	Error string `json:"error,omitempty"`
}

// Writes returns the number of local writes this entity slice performed
func (r *EntityResult) Writes() int {
	return r.Created + r.Updated + r.Linked
}

// RunResult aggregates per-entity-type results for one orchestrator invocation.
// It is returned to the caller (HTTP trigger, CLI, scheduler) rather than held
// in shared mutable state.
type RunResult struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	DeepSync   bool           `json:"deep_sync"`
	Entities   []EntityResult `json:"entities"`
}

// Failed returns true if any entity type failed
func (r *RunResult) Failed() bool {
	for _, e := range r.Entities {
		if e.Status == EntityStatusFailed {
			return true
		}
	}
	return false
}

// Find returns the result for one entity type, or nil
func (r *RunResult) Find(t EntityType) *EntityResult {
	for i := range r.Entities {
		if r.Entities[i].EntityType == t {
			return &r.Entities[i]
		}
	}
	return nil
}
