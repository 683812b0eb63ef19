package persistence

import (
	"context"
	"errors"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/trade"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesDocumentRepository implements SalesDocumentRepository using GORM
type GormSalesDocumentRepository struct {
	db *gorm.DB
}

// NewGormSalesDocumentRepository creates a new GormSalesDocumentRepository
func NewGormSalesDocumentRepository(db *gorm.DB) *GormSalesDocumentRepository {
	return &GormSalesDocumentRepository{db: db}
}

// FindByID finds a sales document by its ID
func (r *GormSalesDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesDocument, error) {
	var model models.SalesDocumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds the sales document holding a remote id. Voided
// documents retain their id, so this also resolves historical documents.
func (r *GormSalesDocumentRepository) FindByRemoteID(ctx context.Context, remoteID string) (*trade.SalesDocument, error) {
	if remoteID == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.SalesDocumentModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sales documents matching the filter
func (r *GormSalesDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesDocument, error) {
	var docModels []models.SalesDocumentModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.SalesDocumentModel{}), filter, "issued_at DESC")
	if err := query.Find(&docModels).Error; err != nil {
		return nil, err
	}
	docs := make([]trade.SalesDocument, len(docModels))
	for i := range docModels {
		docs[i] = *docModels[i].ToDomain()
	}
	return docs, nil
}

// Save creates or updates a sales document
func (r *GormSalesDocumentRepository) Save(ctx context.Context, doc *trade.SalesDocument) error {
	model := models.SalesDocumentModelFromDomain(doc)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSalesDocumentRepository implements SalesDocumentRepository
var _ trade.SalesDocumentRepository = (*GormSalesDocumentRepository)(nil)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds the purchase order holding a remote id
func (r *GormPurchaseOrderRepository) FindByRemoteID(ctx context.Context, remoteID string) (*trade.PurchaseOrder, error) {
	if remoteID == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orderModels []models.PurchaseOrderModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}), filter, "ordered_at DESC")
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.PurchaseOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Save creates or updates a purchase order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
