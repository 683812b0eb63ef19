package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fabworks/backend/internal/domain/inventory"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockItemRepository implements inventory.Repository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds the single stock item holding a business item code
func (r *GormStockItemRepository) FindByCode(ctx context.Context, code string) (*inventory.StockItem, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds the stock item linked to a remote item id
func (r *GormStockItemRepository) FindByRemoteID(ctx context.Context, remoteID string) (*inventory.StockItem, error) {
	if remoteID == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ClaimRemoteID atomically sets remote_id on an unlinked stock item
func (r *GormStockItemRepository) ClaimRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error {
	if remoteID == "" {
		return shared.ErrInvalidInput
	}
	result := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Where("id = ? AND remote_id IS NULL", id).
		Update("remote_id", remoteID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindAll finds all stock items matching the filter
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	var itemModels []models.StockItemModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.StockItemModel{}), filter, "code ASC")
	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.StockItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormStockItemRepository implements inventory.Repository
var _ inventory.Repository = (*GormStockItemRepository)(nil)
