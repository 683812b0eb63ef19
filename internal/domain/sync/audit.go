package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Error audit trail
// ---------------------------------------------------------------------------

// ErrorKind classifies an audit record
type ErrorKind string

const (
	// ErrorKindTransientExhausted means page-level retries ran out
	ErrorKindTransientExhausted ErrorKind = "remote_transient_exhausted"
	// ErrorKindRemoteRejected means the remote refused a record non-retryably
	ErrorKindRemoteRejected ErrorKind = "remote_rejected"
	// ErrorKindReconcileAmbiguous means heuristic matching found multiple
	// equally-plausible unlinked candidates and a new entity was created instead
	ErrorKindReconcileAmbiguous ErrorKind = "reconcile_ambiguous"
	// ErrorKindMappingInvalid means a remote record could not be mapped locally
	ErrorKindMappingInvalid ErrorKind = "mapping_invalid"
	// ErrorKindPayrollLocked means a posting hit a posted (immutable) pay period
	ErrorKindPayrollLocked ErrorKind = "payroll_locked"
	// ErrorKindPushFailed means an outbound document push failed
	ErrorKindPushFailed ErrorKind = "push_failed"
)

// IsValid returns true if the kind is known
func (k ErrorKind) IsValid() bool {
	switch k {
	case ErrorKindTransientExhausted, ErrorKindRemoteRejected,
		ErrorKindReconcileAmbiguous, ErrorKindMappingInvalid,
		ErrorKindPayrollLocked, ErrorKindPushFailed:
		return true
	default:
		return false
	}
}

// ErrorRecord is one immutable audit row. Rows are append-only: they are
// created by the audit gateway and never mutated or deleted by the application.
type ErrorRecord struct {
	ID         uuid.UUID
	Kind       ErrorKind
	EntityType EntityType
	// RemoteID is the remote identifier involved, when known
	RemoteID string
	// LocalCandidates lists local entity IDs involved (e.g. ambiguous matches)
	LocalCandidates []uuid.UUID
	Message         string
	// Detail carries wrapped error text or remote response fragments
	Detail     string
	OccurredAt time.Time
}

// NewErrorRecord creates an audit row stamped with the current time
func NewErrorRecord(kind ErrorKind, entityType EntityType, remoteID, message, detail string, candidates ...uuid.UUID) *ErrorRecord {
	return &ErrorRecord{
		ID:              uuid.New(),
		Kind:            kind,
		EntityType:      entityType,
		RemoteID:        remoteID,
		LocalCandidates: candidates,
		Message:         message,
		Detail:          detail,
		OccurredAt:      time.Now(),
	}
}

// ErrorRecordFilter filters audit queries
type ErrorRecordFilter struct {
	Kind       *ErrorKind
	EntityType *EntityType
	Since      *time.Time
	Page       int
	PageSize   int
}

// ErrorRecordRepository persists the append-only audit trail
type ErrorRecordRepository interface {
	// Append inserts a new record; records are never updated
	Append(ctx context.Context, record *ErrorRecord) error

	// List returns records matching the filter, newest first
	List(ctx context.Context, filter ErrorRecordFilter) ([]ErrorRecord, int64, error)

	// CountSince counts records created at or after t
	CountSince(ctx context.Context, t time.Time) (int64, error)
}
