package trade

import (
	"errors"
	"time"
)

// ---------------------------------------------------------------------------
// Push state machine
// ---------------------------------------------------------------------------

var (
	// ErrAlreadyVoided indicates the document's remote copy was already voided
	ErrAlreadyVoided = errors.New("trade: document already voided")
	// ErrNotPushed indicates an operation requiring a pushed document
	ErrNotPushed = errors.New("trade: document has not been pushed")
	// ErrRemoteIDMismatch indicates an attempt to store a second remote id
	ErrRemoteIDMismatch = errors.New("trade: document already bound to a different remote id")
	// ErrEmptyRemoteID indicates a push reported success without a remote id
	ErrEmptyRemoteID = errors.New("trade: empty remote id")
)

// PushStatus is the outbound lifecycle of a locally-authoritative document:
// Unpushed -> Pushed -> Voided. A document holds at most one non-nil remote id
// over its whole lifetime; voiding retains the id for audit.
type PushStatus string

const (
	PushStatusUnpushed PushStatus = "UNPUSHED"
	PushStatusPushed   PushStatus = "PUSHED"
	PushStatusVoided   PushStatus = "VOIDED"
)

// IsValid returns true if the status is valid
func (s PushStatus) IsValid() bool {
	switch s {
	case PushStatusUnpushed, PushStatusPushed, PushStatusVoided:
		return true
	default:
		return false
	}
}

// String returns the string representation of PushStatus
func (s PushStatus) String() string {
	return string(s)
}

// RemoteDocument carries the remote-link state shared by sales documents and
// purchase orders. It is embedded, not a standalone entity.
type RemoteDocument struct {
	PushStatus PushStatus
	// RemoteID is the remote document id; retained after voiding
	RemoteID           *string
	RemoteLastModified *time.Time
	PushedAt           *time.Time
	VoidedAt           *time.Time
}

// NewRemoteDocument returns the initial unpushed state
func NewRemoteDocument() RemoteDocument {
	return RemoteDocument{PushStatus: PushStatusUnpushed}
}

// IsPushed returns true if the document has an active remote copy
func (d *RemoteDocument) IsPushed() bool {
	return d.PushStatus == PushStatusPushed
}

// MarkPushed records a successful push. The first push stores the returned
// remote id; a re-push must return the same id, since re-pushes are update
// calls against the stored id, never a second create.
func (d *RemoteDocument) MarkPushed(remoteID string) error {
	if remoteID == "" {
		return ErrEmptyRemoteID
	}
	if d.PushStatus == PushStatusVoided {
		return ErrAlreadyVoided
	}
	if d.RemoteID != nil && *d.RemoteID != remoteID {
		return ErrRemoteIDMismatch
	}
	now := time.Now()
	d.RemoteID = &remoteID
	d.PushStatus = PushStatusPushed
	d.PushedAt = &now
	return nil
}

// MarkVoided records a successful remote void. The historical remote id is
// kept so the audit trail can still reference the voided remote document.
func (d *RemoteDocument) MarkVoided() error {
	if d.PushStatus == PushStatusVoided {
		return ErrAlreadyVoided
	}
	if d.PushStatus != PushStatusPushed {
		return ErrNotPushed
	}
	now := time.Now()
	d.PushStatus = PushStatusVoided
	d.VoidedAt = &now
	return nil
}
