package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is stock of one material or consumable. Items are singletons keyed
// by their business item code: the same code is never duplicated into parallel
// rows, and quantity changes only through movement events applied to the one
// row.
type StockItem struct {
	shared.BaseEntity
	// Code is the business item code; unique across stock items
	Code        string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal

	RemoteID           *string
	RemoteLastModified *time.Time
}

// NewStockItem creates a stock item with zero quantity
func NewStockItem(code, description string) (*StockItem, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Item code cannot be empty")
	}
	return &StockItem{
		BaseEntity:  shared.NewBaseEntity(),
		Code:        code,
		Description: description,
		Quantity:    decimal.Zero,
	}, nil
}

// IsLinked returns true if the item is bound to a remote item
func (s *StockItem) IsLinked() bool {
	return s.RemoteID != nil && *s.RemoteID != ""
}

// LinkRemote binds the item to a remote item id
func (s *StockItem) LinkRemote(remoteID string) error {
	if remoteID == "" {
		return shared.ErrInvalidInput
	}
	if s.IsLinked() && *s.RemoteID != remoteID {
		return shared.ErrConcurrencyConflict
	}
	s.RemoteID = &remoteID
	s.Touch()
	return nil
}

// ApplyMovement accumulates a quantity delta. Negative deltas may not take the
// quantity below zero.
func (s *StockItem) ApplyMovement(delta decimal.Decimal) error {
	next := s.Quantity.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Movement would take stock below zero")
	}
	s.Quantity = next
	s.Touch()
	return nil
}

// ApplyRemote copies remote item fields and returns true if anything changed.
// Quantity is deliberately not overwritten from remote: it accumulates through
// movements only, so a sync cannot silently erase local stock adjustments.
func (s *StockItem) ApplyRemote(description, unit string, unitCost decimal.Decimal, modified time.Time) bool {
	changed := false
	if description != "" && s.Description != description {
		s.Description = description
		changed = true
	}
	if unit != "" && s.Unit != unit {
		s.Unit = unit
		changed = true
	}
	if !s.UnitCost.Equal(unitCost) {
		s.UnitCost = unitCost
		changed = true
	}
	if s.RemoteLastModified == nil || !s.RemoteLastModified.Equal(modified) {
		s.RemoteLastModified = &modified
		changed = true
	}
	if changed {
		s.Touch()
	}
	return changed
}

// Repository defines the persistence port for stock items. FindByCode backs
// the singleton-by-code invariant; the code column carries a unique index.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	FindByCode(ctx context.Context, code string) (*StockItem, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*StockItem, error)
	ClaimRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)
	Save(ctx context.Context, item *StockItem) error
}
