package partner

import (
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Customer
// ---------------------------------------------------------------------------

// Customer is a fabrication customer. A customer is created either by local
// user action (and later linked to a remote contact) or by first-sync creation
// from a remote record (and then immediately carries a remote id).
type Customer struct {
	shared.BaseEntity
	Code  string
	Name  string
	Email string
	Phone string

	AddressLine string
	City        string
	Postcode    string
	Country     string

	// RemoteID is the linked remote contact id; unique when present
	RemoteID *string
	// RemoteLastModified is the remote timestamp at last sync, for conflict comparison
	RemoteLastModified *time.Time

	Active bool
}

// NewCustomer creates a local customer
func NewCustomer(name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Active:     true,
	}, nil
}

// IsLinked returns true if the customer is bound to a remote contact
func (c *Customer) IsLinked() bool {
	return c.RemoteID != nil && *c.RemoteID != ""
}

// LinkRemote binds the customer to a remote contact id. Rebinding an
// already-linked customer to a different id is a reconciliation defect and is
// rejected here as a second line of defence behind the resolver's unlinked
// filter and the storage uniqueness constraint.
func (c *Customer) LinkRemote(remoteID string) error {
	if remoteID == "" {
		return shared.ErrInvalidInput
	}
	if c.IsLinked() && *c.RemoteID != remoteID {
		return shared.ErrConcurrencyConflict
	}
	c.RemoteID = &remoteID
	c.Touch()
	return nil
}

// ApplyRemote copies remote contact fields onto the customer and returns true
// if anything changed. Re-applying an already-current record is a no-op so
// deep sync stays idempotent.
func (c *Customer) ApplyRemote(name, email, phone string, modified time.Time) bool {
	changed := false
	if name != "" && c.Name != name {
		c.Name = name
		changed = true
	}
	if c.Email != email {
		c.Email = email
		changed = true
	}
	if c.Phone != phone {
		c.Phone = phone
		changed = true
	}
	if c.RemoteLastModified == nil || !c.RemoteLastModified.Equal(modified) {
		c.RemoteLastModified = &modified
		changed = true
	}
	if changed {
		c.Touch()
	}
	return changed
}
