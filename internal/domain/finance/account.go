package finance

import (
	"context"
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountClass is the remote chart-of-accounts classification
type AccountClass string

const (
	AccountClassAsset     AccountClass = "ASSET"
	AccountClassLiability AccountClass = "LIABILITY"
	AccountClassEquity    AccountClass = "EQUITY"
	AccountClassRevenue   AccountClass = "REVENUE"
	AccountClassExpense   AccountClass = "EXPENSE"
)

// IsValid returns true if the class is valid
func (c AccountClass) IsValid() bool {
	switch c {
	case AccountClassAsset, AccountClassLiability, AccountClassEquity,
		AccountClassRevenue, AccountClassExpense:
		return true
	default:
		return false
	}
}

// LedgerAccount mirrors one remote chart-of-accounts entry. Accounts are pure
// reference data: they are created only by sync and are never pushed back.
type LedgerAccount struct {
	shared.BaseEntity
	Code  string
	Name  string
	Class AccountClass

	RemoteID           *string
	RemoteLastModified *time.Time
}

// NewLedgerAccount creates an account mirrored from remote
func NewLedgerAccount(code, name string, class AccountClass) (*LedgerAccount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code cannot be empty")
	}
	return &LedgerAccount{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Class:      class,
	}, nil
}

// ApplyRemote copies remote account fields and returns true if anything changed
func (a *LedgerAccount) ApplyRemote(name string, class AccountClass, modified time.Time) bool {
	changed := false
	if name != "" && a.Name != name {
		a.Name = name
		changed = true
	}
	if class.IsValid() && a.Class != class {
		a.Class = class
		changed = true
	}
	if a.RemoteLastModified == nil || !a.RemoteLastModified.Equal(modified) {
		a.RemoteLastModified = &modified
		changed = true
	}
	if changed {
		a.Touch()
	}
	return changed
}

// Repository defines the persistence port for ledger accounts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerAccount, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*LedgerAccount, error)
	FindByCode(ctx context.Context, code string) (*LedgerAccount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]LedgerAccount, error)
	Save(ctx context.Context, account *LedgerAccount) error
}
