package partner

import (
	"context"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the persistence port for customers.
//
// The three Find* reconciliation queries back the resolver cascade: exact link
// lookup first, then heuristic matching restricted to unlinked rows. The
// unlinked queries MUST filter remote_id IS NULL at the storage layer —
// matching by name without that filter re-links already-bound customers and
// duplicates local rows when the remote holds several contacts sharing a
// display name.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*Customer, error)

	// FindUnlinkedByName returns customers with remote_id IS NULL and an exact
	// name match, newest first.
	FindUnlinkedByName(ctx context.Context, name string) ([]Customer, error)

	// FindUnlinkedByEmail returns customers with remote_id IS NULL and an exact
	// email match, newest first.
	FindUnlinkedByEmail(ctx context.Context, email string) ([]Customer, error)

	// ClaimRemoteID atomically sets remote_id on an unlinked customer. The
	// update is guarded on remote_id IS NULL and the column carries a unique
	// index, so two concurrent writers cannot both claim the same remote id.
	ClaimRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error

	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ContactPersonRepository defines the persistence port for contact persons
type ContactPersonRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ContactPerson, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]ContactPerson, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*ContactPerson, error)
	Save(ctx context.Context, contact *ContactPerson) error
}
