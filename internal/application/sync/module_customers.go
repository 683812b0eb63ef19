package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/sync"
)

// CustomersModule syncs remote contacts into local customers. Customers get the
// full resolver cascade: exact link, then unlinked-by-name, then
// unlinked-by-email, then create. The remote's single contact person per
// customer is mirrored as one linked contact row; locally-owned contact rows
// are never touched.
type CustomersModule struct {
	customers partner.CustomerRepository
	contacts  partner.ContactPersonRepository
	resolver  *Resolver
	audit     *AuditGateway
}

// NewCustomersModule creates the customers module
func NewCustomersModule(
	customers partner.CustomerRepository,
	contacts partner.ContactPersonRepository,
	resolver *Resolver,
	audit *AuditGateway,
) *CustomersModule {
	return &CustomersModule{
		customers: customers,
		contacts:  contacts,
		resolver:  resolver,
		audit:     audit,
	}
}

// Type returns the entity type this module serves
func (m *CustomersModule) Type() sync.EntityType {
	return sync.EntityTypeCustomers
}

// Apply reconciles one remote contact record
func (m *CustomersModule) Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error) {
	decision, err := m.resolver.Resolve(ctx, customerLookup{repo: m.customers}, rec)
	if err != nil {
		return OutcomeSkipped, err
	}

	var (
		customer *partner.Customer
		outcome  Outcome
	)

	switch decision.Action {
	case ActionUpdate:
		customer, outcome, err = m.applyLinked(ctx, decision.TargetID, rec)
	case ActionLink:
		customer, outcome, err = m.link(ctx, decision.TargetID, rec)
	default:
		customer, outcome, err = m.create(ctx, rec)
	}
	if err != nil || outcome == OutcomeSkipped {
		return outcome, err
	}

	if err := m.mirrorContact(ctx, customer, rec); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// applyLinked absorbs the record into the customer already holding its remote id
func (m *CustomersModule) applyLinked(ctx context.Context, id uuid.UUID, rec sync.RemoteRecord) (*partner.Customer, Outcome, error) {
	customer, err := m.customers.FindByID(ctx, id)
	if err != nil {
		return nil, OutcomeSkipped, err
	}
	if !customer.ApplyRemote(rec.DisplayName, rec.Email, payloadString(rec.Payload, "phone"), rec.ModifiedAt) {
		return customer, OutcomeUnchanged, nil
	}
	if err := m.customers.Save(ctx, customer); err != nil {
		return nil, OutcomeSkipped, err
	}
	return customer, OutcomeUpdated, nil
}

// link claims the remote id for an unlinked customer. If a concurrent writer
// got there first the claim loses cleanly and the record is re-resolved against
// whatever that writer left behind.
func (m *CustomersModule) link(ctx context.Context, id uuid.UUID, rec sync.RemoteRecord) (*partner.Customer, Outcome, error) {
	if err := m.customers.ClaimRemoteID(ctx, id, rec.RemoteID); err != nil {
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, OutcomeSkipped, err
		}
		existing, ferr := m.customers.FindByRemoteID(ctx, rec.RemoteID)
		if ferr == nil {
			return m.applyLinked(ctx, existing.ID, rec)
		}
		if !errors.Is(ferr, shared.ErrNotFound) {
			return nil, OutcomeSkipped, ferr
		}
		// The candidate was claimed by a different remote id; nothing else
		// matches, so fall back to create.
		return m.create(ctx, rec)
	}

	customer, err := m.customers.FindByID(ctx, id)
	if err != nil {
		return nil, OutcomeSkipped, err
	}
	customer.ApplyRemote(rec.DisplayName, rec.Email, payloadString(rec.Payload, "phone"), rec.ModifiedAt)
	if err := m.customers.Save(ctx, customer); err != nil {
		return nil, OutcomeSkipped, err
	}
	return customer, OutcomeLinked, nil
}

// create makes a new customer already bound to the remote id
func (m *CustomersModule) create(ctx context.Context, rec sync.RemoteRecord) (*partner.Customer, Outcome, error) {
	customer, err := partner.NewCustomer(rec.DisplayName)
	if err != nil {
		m.audit.Record(ctx, sync.NewErrorRecord(
			sync.ErrorKindMappingInvalid,
			rec.EntityType,
			rec.RemoteID,
			"remote contact has no usable display name",
			err.Error(),
		))
		return nil, OutcomeSkipped, nil
	}
	if err := customer.LinkRemote(rec.RemoteID); err != nil {
		return nil, OutcomeSkipped, err
	}
	customer.ApplyRemote(rec.DisplayName, rec.Email, payloadString(rec.Payload, "phone"), rec.ModifiedAt)
	if err := m.customers.Save(ctx, customer); err != nil {
		return nil, OutcomeSkipped, err
	}
	return customer, OutcomeCreated, nil
}

// mirrorContact upserts the remote's single contact person as one linked row
func (m *CustomersModule) mirrorContact(ctx context.Context, customer *partner.Customer, rec sync.RemoteRecord) error {
	contactRemoteID := payloadString(rec.Payload, "contact_id")
	if contactRemoteID == "" {
		return nil
	}
	name := payloadString(rec.Payload, "contact_name")
	email := payloadString(rec.Payload, "contact_email")
	phone := payloadString(rec.Payload, "contact_phone")

	existing, err := m.contacts.FindByRemoteID(ctx, contactRemoteID)
	switch {
	case err == nil:
		changed := existing.ApplyRemote(name, email, phone, rec.ModifiedAt)
		if existing.CustomerID != customer.ID {
			existing.CustomerID = customer.ID
			existing.Touch()
			changed = true
		}
		if !changed {
			return nil
		}
		return m.contacts.Save(ctx, existing)

	case errors.Is(err, shared.ErrNotFound):
		if name == "" {
			return nil
		}
		contact, err := partner.NewContactPerson(customer.ID, name)
		if err != nil {
			return fmt.Errorf("mirror contact %s: %w", contactRemoteID, err)
		}
		contact.RemoteID = &contactRemoteID
		contact.ApplyRemote(name, email, phone, rec.ModifiedAt)
		return m.contacts.Save(ctx, contact)

	default:
		return err
	}
}

// customerLookup adapts the customer repository to the resolver cascade
type customerLookup struct {
	repo partner.CustomerRepository
}

func (l customerLookup) FindLinked(ctx context.Context, remoteID string) (uuid.UUID, bool, error) {
	customer, err := l.repo.FindByRemoteID(ctx, remoteID)
	if errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return customer.ID, true, nil
}

func (l customerLookup) UnlinkedByName(ctx context.Context, name string) ([]Candidate, error) {
	customers, err := l.repo.FindUnlinkedByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return customerCandidates(customers), nil
}

func (l customerLookup) UnlinkedByEmail(ctx context.Context, email string) ([]Candidate, error) {
	customers, err := l.repo.FindUnlinkedByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return customerCandidates(customers), nil
}

func customerCandidates(customers []partner.Customer) []Candidate {
	candidates := make([]Candidate, len(customers))
	for i, c := range customers {
		candidates[i] = Candidate{ID: c.ID, CreatedAt: c.CreatedAt}
	}
	return candidates
}

// Ensure CustomersModule implements EntityModule
var _ EntityModule = (*CustomersModule)(nil)
