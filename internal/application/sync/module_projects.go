package sync

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/project"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/sync"
)

// ProjectsModule syncs remote jobs into local projects. Projects resolve by
// exact link then unlinked-by-name; they carry no email, so the email step of
// the cascade never matches.
type ProjectsModule struct {
	projects project.Repository
	resolver *Resolver
	audit    *AuditGateway
}

// NewProjectsModule creates the projects module
func NewProjectsModule(projects project.Repository, resolver *Resolver, audit *AuditGateway) *ProjectsModule {
	return &ProjectsModule{projects: projects, resolver: resolver, audit: audit}
}

// Type returns the entity type this module serves
func (m *ProjectsModule) Type() sync.EntityType {
	return sync.EntityTypeProjects
}

// Apply reconciles one remote job record
func (m *ProjectsModule) Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error) {
	decision, err := m.resolver.Resolve(ctx, projectLookup{repo: m.projects}, rec)
	if err != nil {
		return OutcomeSkipped, err
	}

	status := parseProjectStatus(payloadString(rec.Payload, "status"))

	switch decision.Action {
	case ActionUpdate:
		return m.applyLinked(ctx, decision.TargetID, rec, status)
	case ActionLink:
		return m.link(ctx, decision.TargetID, rec, status)
	default:
		return m.create(ctx, rec, status)
	}
}

func (m *ProjectsModule) applyLinked(ctx context.Context, id uuid.UUID, rec sync.RemoteRecord, status project.Status) (Outcome, error) {
	proj, err := m.projects.FindByID(ctx, id)
	if err != nil {
		return OutcomeSkipped, err
	}
	if !proj.ApplyRemote(rec.DisplayName, status, rec.ModifiedAt) {
		return OutcomeUnchanged, nil
	}
	if err := m.projects.Save(ctx, proj); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeUpdated, nil
}

func (m *ProjectsModule) link(ctx context.Context, id uuid.UUID, rec sync.RemoteRecord, status project.Status) (Outcome, error) {
	if err := m.projects.ClaimRemoteID(ctx, id, rec.RemoteID); err != nil {
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return OutcomeSkipped, err
		}
		existing, ferr := m.projects.FindByRemoteID(ctx, rec.RemoteID)
		if ferr == nil {
			return m.applyLinked(ctx, existing.ID, rec, status)
		}
		if !errors.Is(ferr, shared.ErrNotFound) {
			return OutcomeSkipped, ferr
		}
		return m.create(ctx, rec, status)
	}

	proj, err := m.projects.FindByID(ctx, id)
	if err != nil {
		return OutcomeSkipped, err
	}
	proj.ApplyRemote(rec.DisplayName, status, rec.ModifiedAt)
	if err := m.projects.Save(ctx, proj); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeLinked, nil
}

func (m *ProjectsModule) create(ctx context.Context, rec sync.RemoteRecord, status project.Status) (Outcome, error) {
	proj, err := project.NewProject(rec.DisplayName)
	if err != nil {
		m.audit.Record(ctx, sync.NewErrorRecord(
			sync.ErrorKindMappingInvalid,
			rec.EntityType,
			rec.RemoteID,
			"remote job has no usable name",
			err.Error(),
		))
		return OutcomeSkipped, nil
	}
	if err := proj.LinkRemote(rec.RemoteID); err != nil {
		return OutcomeSkipped, err
	}
	proj.ApplyRemote(rec.DisplayName, status, rec.ModifiedAt)
	if err := m.projects.Save(ctx, proj); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeCreated, nil
}

// parseProjectStatus maps the remote job status to the local lifecycle state.
// Unknown statuses map to the zero value, which ApplyRemote ignores.
func parseProjectStatus(raw string) project.Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QUOTED":
		return project.StatusQuoted
	case "IN_PROGRESS":
		return project.StatusInProgress
	case "COMPLETED":
		return project.StatusCompleted
	case "CANCELLED":
		return project.StatusCancelled
	default:
		return ""
	}
}

// projectLookup adapts the project repository to the resolver cascade
type projectLookup struct {
	repo project.Repository
}

func (l projectLookup) FindLinked(ctx context.Context, remoteID string) (uuid.UUID, bool, error) {
	proj, err := l.repo.FindByRemoteID(ctx, remoteID)
	if errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return proj.ID, true, nil
}

func (l projectLookup) UnlinkedByName(ctx context.Context, name string) ([]Candidate, error) {
	projects, err := l.repo.FindUnlinkedByName(ctx, name)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, len(projects))
	for i, p := range projects {
		candidates[i] = Candidate{ID: p.ID, CreatedAt: p.CreatedAt}
	}
	return candidates, nil
}

func (l projectLookup) UnlinkedByEmail(ctx context.Context, email string) ([]Candidate, error) {
	return nil, nil
}

// Ensure ProjectsModule implements EntityModule
var _ EntityModule = (*ProjectsModule)(nil)
