package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Sync requests
// ---------------------------------------------------------------------------

// WindowRequest selects an explicit deep-sync change window
type WindowRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// RunSyncRequest triggers a sync run. An empty body runs every entity type
// from its watermark; entity_type restricts the run, window switches it to
// deep-sync mode.
type RunSyncRequest struct {
	EntityType *string        `json:"entity_type,omitempty"`
	Window     *WindowRequest `json:"window,omitempty"`
}

// ListErrorRecordsRequest filters the sync error audit trail
type ListErrorRecordsRequest struct {
	ListRequest
	Kind       string `form:"kind"`
	EntityType string `form:"entity_type"`
	Since      string `form:"since"` // RFC 3339
}

// ---------------------------------------------------------------------------
// Sync responses
// ---------------------------------------------------------------------------

// WatermarkResponse is one entity type's sync state
type WatermarkResponse struct {
	EntityType   string     `json:"entity_type"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	InProgress   bool       `json:"in_progress"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// WatermarkResponseFromDomain converts a domain watermark
func WatermarkResponseFromDomain(w sync.Watermark) WatermarkResponse {
	return WatermarkResponse{
		EntityType:   w.EntityType.String(),
		LastSyncedAt: w.LastSyncedAt,
		InProgress:   w.InProgress,
		UpdatedAt:    w.UpdatedAt,
	}
}

// ErrorRecordResponse is one audit trail row
type ErrorRecordResponse struct {
	ID              uuid.UUID   `json:"id"`
	Kind            string      `json:"kind"`
	EntityType      string      `json:"entity_type"`
	RemoteID        string      `json:"remote_id,omitempty"`
	LocalCandidates []uuid.UUID `json:"local_candidates,omitempty"`
	Message         string      `json:"message"`
	Detail          string      `json:"detail,omitempty"`
	OccurredAt      time.Time   `json:"occurred_at"`
}

// ErrorRecordResponseFromDomain converts a domain audit record
func ErrorRecordResponseFromDomain(r sync.ErrorRecord) ErrorRecordResponse {
	return ErrorRecordResponse{
		ID:              r.ID,
		Kind:            string(r.Kind),
		EntityType:      r.EntityType.String(),
		RemoteID:        r.RemoteID,
		LocalCandidates: r.LocalCandidates,
		Message:         r.Message,
		Detail:          r.Detail,
		OccurredAt:      r.OccurredAt,
	}
}

// RunResponse is a run's status report: the per-type results plus the number
// of error records the audit trail gained since the run started, so operators
// know whether GET /sync/errors has anything new to look at.
type RunResponse struct {
	*sync.RunResult
	ErrorRecords int64 `json:"error_records"`
}

// LastRunResponse wraps the most recent scheduled run
type LastRunResponse struct {
	Result     *sync.RunResult `json:"result"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}
