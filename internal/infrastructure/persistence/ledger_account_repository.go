package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fabworks/backend/internal/domain/finance"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerAccountRepository implements finance.Repository using GORM
type GormLedgerAccountRepository struct {
	db *gorm.DB
}

// NewGormLedgerAccountRepository creates a new GormLedgerAccountRepository
func NewGormLedgerAccountRepository(db *gorm.DB) *GormLedgerAccountRepository {
	return &GormLedgerAccountRepository{db: db}
}

// FindByID finds a ledger account by its ID
func (r *GormLedgerAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerAccount, error) {
	var model models.LedgerAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds the account linked to a remote account id
func (r *GormLedgerAccountRepository) FindByRemoteID(ctx context.Context, remoteID string) (*finance.LedgerAccount, error) {
	if remoteID == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.LedgerAccountModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a ledger account by its code
func (r *GormLedgerAccountRepository) FindByCode(ctx context.Context, code string) (*finance.LedgerAccount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.LedgerAccountModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all ledger accounts matching the filter
func (r *GormLedgerAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.LedgerAccount, error) {
	var accountModels []models.LedgerAccountModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.LedgerAccountModel{}), filter, "code ASC")
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]finance.LedgerAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts, nil
}

// Save creates or updates a ledger account
func (r *GormLedgerAccountRepository) Save(ctx context.Context, account *finance.LedgerAccount) error {
	model := models.LedgerAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormLedgerAccountRepository implements finance.Repository
var _ finance.Repository = (*GormLedgerAccountRepository)(nil)
