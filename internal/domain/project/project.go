package project

import (
	"context"
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the project lifecycle state
type Status string

const (
	StatusQuoted     Status = "QUOTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusQuoted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Project is a fabrication job. Projects sync from the remote system's
// project/job list and may also be created locally before being linked.
type Project struct {
	shared.BaseEntity
	Number     string
	Name       string
	CustomerID *uuid.UUID
	Status     Status

	RemoteID           *string
	RemoteLastModified *time.Time
}

// NewProject creates a local project
func NewProject(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	return &Project{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Status:     StatusQuoted,
	}, nil
}

// IsLinked returns true if the project is bound to a remote job
func (p *Project) IsLinked() bool {
	return p.RemoteID != nil && *p.RemoteID != ""
}

// LinkRemote binds the project to a remote job id
func (p *Project) LinkRemote(remoteID string) error {
	if remoteID == "" {
		return shared.ErrInvalidInput
	}
	if p.IsLinked() && *p.RemoteID != remoteID {
		return shared.ErrConcurrencyConflict
	}
	p.RemoteID = &remoteID
	p.Touch()
	return nil
}

// ApplyRemote copies remote job fields and returns true if anything changed
func (p *Project) ApplyRemote(name string, status Status, modified time.Time) bool {
	changed := false
	if name != "" && p.Name != name {
		p.Name = name
		changed = true
	}
	if status.IsValid() && p.Status != status {
		p.Status = status
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

// Repository defines the persistence port for projects. The unlinked queries
// carry the same remote_id IS NULL restriction as partner.CustomerRepository.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*Project, error)
	FindUnlinkedByName(ctx context.Context, name string) ([]Project, error)
	ClaimRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)
	Save(ctx context.Context, project *Project) error
}
