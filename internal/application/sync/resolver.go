package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Reconciliation resolver
// ---------------------------------------------------------------------------

// Action is what the resolver decided to do with a remote record
type Action string

const (
	// ActionUpdate means a local entity already holds the record's remote id
	ActionUpdate Action = "update"
	// ActionLink means an unlinked local entity matched heuristically and
	// should claim the remote id
	ActionLink Action = "link"
	// ActionCreate means no match; a new local entity is created
	ActionCreate Action = "create"
)

// Candidate is one unlinked local entity considered by heuristic matching.
// CreatedAt drives the tie-break between multiple candidates.
type Candidate struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// Lookup adapts one entity family's repository to the resolver cascade. The
// two unlinked queries MUST be restricted to remote_id IS NULL at the storage
// layer; the resolver trusts that restriction and never re-checks it.
type Lookup interface {
	// FindLinked returns the id of the entity already holding remoteID,
	// or false if none does.
	FindLinked(ctx context.Context, remoteID string) (uuid.UUID, bool, error)

	// UnlinkedByName returns unlinked candidates matching the display name
	// exactly, newest first.
	UnlinkedByName(ctx context.Context, name string) ([]Candidate, error)

	// UnlinkedByEmail returns unlinked candidates matching the email exactly,
	// newest first. Entity families without an email return nothing.
	UnlinkedByEmail(ctx context.Context, email string) ([]Candidate, error)
}

// Decision is the resolver's verdict for one remote record
type Decision struct {
	Action Action
	// TargetID is the local entity to update or link (zero for create)
	TargetID uuid.UUID
	// Ambiguous is set when multiple equally-plausible unlinked candidates
	// matched and the resolver fell back to create; an audit record was filed.
	Ambiguous bool
}

// Resolver decides, per remote record, whether to update a linked entity,
// claim an unlinked one, or create a new one. The cascade is strict: exact
// remote-id link first, then unlinked-by-name, then unlinked-by-email, then
// create. Matching never considers already-linked rows, so a remote side
// holding several records with one display name grows duplicates visibly
// instead of silently re-linking a bound entity.
type Resolver struct {
	audit *AuditGateway
}

// NewResolver creates a resolver
func NewResolver(audit *AuditGateway) *Resolver {
	return &Resolver{audit: audit}
}

// Resolve runs the cascade for one record
func (r *Resolver) Resolve(ctx context.Context, store Lookup, rec sync.RemoteRecord) (Decision, error) {
	if err := rec.Validate(); err != nil {
		return Decision{}, err
	}

	// Step 1: exact link lookup
	id, found, err := store.FindLinked(ctx, rec.RemoteID)
	if err != nil {
		return Decision{}, fmt.Errorf("resolve %s %s: %w", rec.EntityType, rec.RemoteID, err)
	}
	if found {
		return Decision{Action: ActionUpdate, TargetID: id}, nil
	}

	// Step 2: unlinked heuristic match, name then email
	candidates, err := r.heuristicCandidates(ctx, store, rec)
	if err != nil {
		return Decision{}, fmt.Errorf("resolve %s %s: %w", rec.EntityType, rec.RemoteID, err)
	}

	switch {
	case len(candidates) == 1:
		return Decision{Action: ActionLink, TargetID: candidates[0].ID}, nil

	case len(candidates) > 1:
		// Tie-break: prefer the most recently created candidate. If the top
		// two were created at the same instant there is nothing to prefer;
		// fail toward duplication-with-visibility rather than guess a merge.
		if candidates[0].CreatedAt.After(candidates[1].CreatedAt) {
			return Decision{Action: ActionLink, TargetID: candidates[0].ID}, nil
		}
		ids := make([]uuid.UUID, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}
		r.audit.Record(ctx, sync.NewErrorRecord(
			sync.ErrorKindReconcileAmbiguous,
			rec.EntityType,
			rec.RemoteID,
			"multiple unlinked candidates matched; created a new entity for manual review",
			fmt.Sprintf("display name %q matched %d unlinked candidates", rec.DisplayName, len(candidates)),
			ids...,
		))
		return Decision{Action: ActionCreate, Ambiguous: true}, nil
	}

	// Step 3: no match
	return Decision{Action: ActionCreate}, nil
}

// heuristicCandidates runs the name match, then the email match as a fallback
func (r *Resolver) heuristicCandidates(ctx context.Context, store Lookup, rec sync.RemoteRecord) ([]Candidate, error) {
	if rec.DisplayName != "" {
		candidates, err := store.UnlinkedByName(ctx, rec.DisplayName)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	if rec.Email != "" {
		candidates, err := store.UnlinkedByEmail(ctx, rec.Email)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	return nil, nil
}
