package partner

import (
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactPerson is a person at a customer. Locally a customer has many contact
// persons; the remote system models exactly one contact per customer. Remote is
// therefore a read-only source for contact persons: sync upserts the remote's
// single contact as one linked row, and local creations or edits are never
// pushed back, so the local one-to-many model cannot be collapsed by the
// remote's one-to-one constraint.
type ContactPerson struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	Name       string
	Email      string
	Phone      string
	Role       string

	// RemoteID is set only on the single contact mirrored from remote
	RemoteID           *string
	RemoteLastModified *time.Time
}

// NewContactPerson creates a locally-owned contact person
func NewContactPerson(customerID uuid.UUID, name string) (*ContactPerson, error) {
	if customerID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}
	return &ContactPerson{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Name:       name,
	}, nil
}

// IsRemoteMirror returns true if this row mirrors the remote's single contact
func (p *ContactPerson) IsRemoteMirror() bool {
	return p.RemoteID != nil && *p.RemoteID != ""
}

// ApplyRemote copies remote contact fields and returns true if anything changed
func (p *ContactPerson) ApplyRemote(name, email, phone string, modified time.Time) bool {
	changed := false
	if name != "" && p.Name != name {
		p.Name = name
		changed = true
	}
	if p.Email != email {
		p.Email = email
		changed = true
	}
	if p.Phone != phone {
		p.Phone = phone
		changed = true
	}
	if p.RemoteLastModified == nil || !p.RemoteLastModified.Equal(modified) {
		p.RemoteLastModified = &modified
		changed = true
	}
	if changed {
		p.Touch()
	}
	return changed
}
