package payroll

import (
	"context"
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PayItem mirrors one remote payroll pay item code (ordinary hours, annual
// leave, and so on). Pay items are pure reference data: created only by sync,
// never pushed back, and referenced when postings are built.
type PayItem struct {
	shared.BaseEntity
	Code string
	Name string
	// Classification is the local job classification this pay item pays out
	Classification JobClassification

	RemoteID           *string
	RemoteLastModified *time.Time
}

// NewPayItem creates a pay item mirrored from remote
func NewPayItem(code, name string, classification JobClassification) (*PayItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Pay item code cannot be empty")
	}
	return &PayItem{
		BaseEntity:     shared.NewBaseEntity(),
		Code:           code,
		Name:           name,
		Classification: classification,
	}, nil
}

// ApplyRemote copies remote pay item fields and returns true if anything changed
func (p *PayItem) ApplyRemote(name string, classification JobClassification, modified time.Time) bool {
	changed := false
	if name != "" && p.Name != name {
		p.Name = name
		changed = true
	}
	if classification.IsValid() && p.Classification != classification {
		p.Classification = classification
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

// PayItemRepository defines the persistence port for pay items
type PayItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PayItem, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*PayItem, error)
	FindByCode(ctx context.Context, code string) (*PayItem, error)
	Save(ctx context.Context, item *PayItem) error
}
