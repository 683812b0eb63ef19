package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fabworks/backend/internal/domain/finance"
	"github.com/fabworks/backend/internal/domain/inventory"
	"github.com/fabworks/backend/internal/domain/payroll"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/sync"
)

// Reference-data entity types (ledger accounts, stock items, pay items) are
// keyed by a unique business code instead of a free-text display name, so they
// skip the heuristic cascade: exact link lookup, then exact code lookup, then
// create. A code row already bound to a different remote id means the remote
// holds two records with one code; that is a mapping defect, audited and
// skipped rather than guessed at.

// AccountsModule mirrors the remote chart of accounts
type AccountsModule struct {
	accounts finance.Repository
	audit    *AuditGateway
}

// NewAccountsModule creates the accounts module
func NewAccountsModule(accounts finance.Repository, audit *AuditGateway) *AccountsModule {
	return &AccountsModule{accounts: accounts, audit: audit}
}

// Type returns the entity type this module serves
func (m *AccountsModule) Type() sync.EntityType {
	return sync.EntityTypeAccounts
}

// Apply mirrors one remote account record
func (m *AccountsModule) Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error) {
	if err := rec.Validate(); err != nil {
		return OutcomeSkipped, err
	}
	name := payloadString(rec.Payload, "name")
	class := parseAccountClass(payloadString(rec.Payload, "class"))

	account, err := m.accounts.FindByRemoteID(ctx, rec.RemoteID)
	switch {
	case err == nil:
		if !account.ApplyRemote(name, class, rec.ModifiedAt) {
			return OutcomeUnchanged, nil
		}
		if err := m.accounts.Save(ctx, account); err != nil {
			return OutcomeSkipped, err
		}
		return OutcomeUpdated, nil
	case !errors.Is(err, shared.ErrNotFound):
		return OutcomeSkipped, err
	}

	code := rec.DisplayName
	existing, err := m.accounts.FindByCode(ctx, code)
	switch {
	case err == nil:
		if existing.RemoteID != nil && *existing.RemoteID != rec.RemoteID {
			m.recordCodeConflict(ctx, rec, code, *existing.RemoteID)
			return OutcomeSkipped, nil
		}
		existing.RemoteID = &rec.RemoteID
		existing.ApplyRemote(name, class, rec.ModifiedAt)
		existing.Touch()
		if err := m.accounts.Save(ctx, existing); err != nil {
			return OutcomeSkipped, err
		}
		return OutcomeLinked, nil
	case !errors.Is(err, shared.ErrNotFound):
		return OutcomeSkipped, err
	}

	account, err = finance.NewLedgerAccount(code, name, class)
	if err != nil {
		m.audit.Record(ctx, sync.NewErrorRecord(
			sync.ErrorKindMappingInvalid,
			rec.EntityType,
			rec.RemoteID,
			"remote account has no usable code",
			err.Error(),
		))
		return OutcomeSkipped, nil
	}
	account.RemoteID = &rec.RemoteID
	account.ApplyRemote(name, class, rec.ModifiedAt)
	if err := m.accounts.Save(ctx, account); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeCreated, nil
}

func (m *AccountsModule) recordCodeConflict(ctx context.Context, rec sync.RemoteRecord, code, boundTo string) {
	m.audit.Record(ctx, sync.NewErrorRecord(
		sync.ErrorKindMappingInvalid,
		rec.EntityType,
		rec.RemoteID,
		"remote record shares a code with an entity bound to a different remote id",
		fmt.Sprintf("code %q is already linked to remote id %s", code, boundTo),
	))
}

// parseAccountClass maps the remote classification string
func parseAccountClass(raw string) finance.AccountClass {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ASSET":
		return finance.AccountClassAsset
	case "LIABILITY":
		return finance.AccountClassLiability
	case "EQUITY":
		return finance.AccountClassEquity
	case "REVENUE":
		return finance.AccountClassRevenue
	case "EXPENSE":
		return finance.AccountClassExpense
	default:
		return ""
	}
}

// StockItemsModule syncs remote inventory items into local stock items. The
// item code is the singleton key; quantity never syncs, only descriptive
// fields and unit cost.
type StockItemsModule struct {
	items inventory.Repository
	audit *AuditGateway
}

// NewStockItemsModule creates the stock items module
func NewStockItemsModule(items inventory.Repository, audit *AuditGateway) *StockItemsModule {
	return &StockItemsModule{items: items, audit: audit}
}

// Type returns the entity type this module serves
func (m *StockItemsModule) Type() sync.EntityType {
	return sync.EntityTypeStockItems
}

// Apply mirrors one remote item record
func (m *StockItemsModule) Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error) {
	if err := rec.Validate(); err != nil {
		return OutcomeSkipped, err
	}
	description := payloadString(rec.Payload, "description")
	unit := payloadString(rec.Payload, "unit")
	unitCost := payloadDecimal(rec.Payload, "unit_cost")

	item, err := m.items.FindByRemoteID(ctx, rec.RemoteID)
	switch {
	case err == nil:
		if !item.ApplyRemote(description, unit, unitCost, rec.ModifiedAt) {
			return OutcomeUnchanged, nil
		}
		if err := m.items.Save(ctx, item); err != nil {
			return OutcomeSkipped, err
		}
		return OutcomeUpdated, nil
	case !errors.Is(err, shared.ErrNotFound):
		return OutcomeSkipped, err
	}

	code := strings.ToUpper(strings.TrimSpace(rec.DisplayName))
	existing, err := m.items.FindByCode(ctx, code)
	switch {
	case err == nil:
		if existing.IsLinked() && *existing.RemoteID != rec.RemoteID {
			m.audit.Record(ctx, sync.NewErrorRecord(
				sync.ErrorKindMappingInvalid,
				rec.EntityType,
				rec.RemoteID,
				"remote record shares a code with an entity bound to a different remote id",
				fmt.Sprintf("code %q is already linked to remote id %s", code, *existing.RemoteID),
			))
			return OutcomeSkipped, nil
		}
		if err := m.items.ClaimRemoteID(ctx, existing.ID, rec.RemoteID); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return OutcomeSkipped, nil
			}
			return OutcomeSkipped, err
		}
		existing.RemoteID = &rec.RemoteID
		existing.ApplyRemote(description, unit, unitCost, rec.ModifiedAt)
		if err := m.items.Save(ctx, existing); err != nil {
			return OutcomeSkipped, err
		}
		return OutcomeLinked, nil
	case !errors.Is(err, shared.ErrNotFound):
		return OutcomeSkipped, err
	}

	item, err = inventory.NewStockItem(code, description)
	if err != nil {
		m.audit.Record(ctx, sync.NewErrorRecord(
			sync.ErrorKindMappingInvalid,
			rec.EntityType,
			rec.RemoteID,
			"remote item has no usable code",
			err.Error(),
		))
		return OutcomeSkipped, nil
	}
	if err := item.LinkRemote(rec.RemoteID); err != nil {
		return OutcomeSkipped, err
	}
	item.ApplyRemote(description, unit, unitCost, rec.ModifiedAt)
	if err := m.items.Save(ctx, item); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeCreated, nil
}

// PayItemsModule mirrors the remote payroll pay item codes
type PayItemsModule struct {
	items payroll.PayItemRepository
	audit *AuditGateway
}

// NewPayItemsModule creates the pay items module
func NewPayItemsModule(items payroll.PayItemRepository, audit *AuditGateway) *PayItemsModule {
	return &PayItemsModule{items: items, audit: audit}
}

// Type returns the entity type this module serves
func (m *PayItemsModule) Type() sync.EntityType {
	return sync.EntityTypePayrollItems
}

// Apply mirrors one remote pay item record
func (m *PayItemsModule) Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error) {
	if err := rec.Validate(); err != nil {
		return OutcomeSkipped, err
	}
	name := payloadString(rec.Payload, "name")
	classification := payroll.JobClassification(strings.ToLower(strings.TrimSpace(payloadString(rec.Payload, "classification"))))

	item, err := m.items.FindByRemoteID(ctx, rec.RemoteID)
	switch {
	case err == nil:
		if !item.ApplyRemote(name, classification, rec.ModifiedAt) {
			return OutcomeUnchanged, nil
		}
		if err := m.items.Save(ctx, item); err != nil {
			return OutcomeSkipped, err
		}
		return OutcomeUpdated, nil
	case !errors.Is(err, shared.ErrNotFound):
		return OutcomeSkipped, err
	}

	code := rec.DisplayName
	existing, err := m.items.FindByCode(ctx, code)
	switch {
	case err == nil:
		if existing.RemoteID != nil && *existing.RemoteID != rec.RemoteID {
			m.audit.Record(ctx, sync.NewErrorRecord(
				sync.ErrorKindMappingInvalid,
				rec.EntityType,
				rec.RemoteID,
				"remote record shares a code with an entity bound to a different remote id",
				fmt.Sprintf("code %q is already linked to remote id %s", code, *existing.RemoteID),
			))
			return OutcomeSkipped, nil
		}
		existing.RemoteID = &rec.RemoteID
		existing.ApplyRemote(name, classification, rec.ModifiedAt)
		existing.Touch()
		if err := m.items.Save(ctx, existing); err != nil {
			return OutcomeSkipped, err
		}
		return OutcomeLinked, nil
	case !errors.Is(err, shared.ErrNotFound):
		return OutcomeSkipped, err
	}

	item, err = payroll.NewPayItem(code, name, classification)
	if err != nil {
		m.audit.Record(ctx, sync.NewErrorRecord(
			sync.ErrorKindMappingInvalid,
			rec.EntityType,
			rec.RemoteID,
			"remote pay item has no usable code",
			err.Error(),
		))
		return OutcomeSkipped, nil
	}
	item.RemoteID = &rec.RemoteID
	item.ApplyRemote(name, classification, rec.ModifiedAt)
	if err := m.items.Save(ctx, item); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeCreated, nil
}

// Ensure the reference modules implement EntityModule
var (
	_ EntityModule = (*AccountsModule)(nil)
	_ EntityModule = (*StockItemsModule)(nil)
	_ EntityModule = (*PayItemsModule)(nil)
)
