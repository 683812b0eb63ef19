package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fabworks/backend/internal/domain/payroll"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayItemRepository implements payroll.PayItemRepository using GORM
type GormPayItemRepository struct {
	db *gorm.DB
}

// NewGormPayItemRepository creates a new GormPayItemRepository
func NewGormPayItemRepository(db *gorm.DB) *GormPayItemRepository {
	return &GormPayItemRepository{db: db}
}

// FindByID finds a pay item by its ID
func (r *GormPayItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.PayItem, error) {
	var model models.PayItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds the pay item linked to a remote pay item id
func (r *GormPayItemRepository) FindByRemoteID(ctx context.Context, remoteID string) (*payroll.PayItem, error) {
	if remoteID == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.PayItemModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a pay item by its code
func (r *GormPayItemRepository) FindByCode(ctx context.Context, code string) (*payroll.PayItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.PayItemModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a pay item
func (r *GormPayItemRepository) Save(ctx context.Context, item *payroll.PayItem) error {
	model := models.PayItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPayItemRepository implements payroll.PayItemRepository
var _ payroll.PayItemRepository = (*GormPayItemRepository)(nil)
