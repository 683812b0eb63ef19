package sync

import (
	"errors"
	"time"
)

// ---------------------------------------------------------------------------
// RemoteRecord
// ---------------------------------------------------------------------------

// RemoteRecord is one record as returned by the remote system's list endpoints.
// The payload keeps the decoded remote fields; the typed header fields are what
// reconciliation needs.
type RemoteRecord struct {
	// RemoteID is the record's identifier on the remote system
	RemoteID string
	// EntityType identifies which entity family this record belongs to
	EntityType EntityType
	// DisplayName is the remote display key (contact name, project name, item code)
	DisplayName string
	// Email is the remote contact email, when the entity type carries one
	Email string
	// ModifiedAt is the remote last-modified timestamp
	ModifiedAt time.Time
	// Payload holds the remaining decoded remote fields
	Payload map[string]any
}

// Validate checks the record header is usable for reconciliation
func (r *RemoteRecord) Validate() error {
	if r.RemoteID == "" {
		return errors.New("sync: remote record missing remote id")
	}
	if !r.EntityType.IsValid() {
		return ErrInvalidEntityType
	}
	return nil
}

// ---------------------------------------------------------------------------
// Window
// ---------------------------------------------------------------------------

// maxWindow bounds a deep-sync window so an operator typo cannot schedule an
// unbounded re-scan.
const maxWindow = 366 * 24 * time.Hour

// Window is an explicit [Start, End) range for deep-sync mode. It overrides the
// watermark and re-processes already-synced records; applying a record that is
// already current must be a no-op.
type Window struct {
	Start time.Time
	End   time.Time
}

// Validate validates the window bounds
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidWindow
	}
	if !w.Start.Before(w.End) {
		return ErrInvalidWindow
	}
	if w.End.Sub(w.Start) > maxWindow {
		return ErrInvalidWindow
	}
	return nil
}

// IsZero returns true when no window was supplied
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}
