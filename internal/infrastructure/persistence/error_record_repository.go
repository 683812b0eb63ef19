package persistence

import (
	"context"
	"time"

	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormErrorRecordRepository implements sync.ErrorRecordRepository using GORM.
// The audit trail is append-only: this repository exposes no update or delete.
type GormErrorRecordRepository struct {
	db *gorm.DB
}

// NewGormErrorRecordRepository creates a new GormErrorRecordRepository
func NewGormErrorRecordRepository(db *gorm.DB) *GormErrorRecordRepository {
	return &GormErrorRecordRepository{db: db}
}

// Append inserts a new audit record
func (r *GormErrorRecordRepository) Append(ctx context.Context, record *sync.ErrorRecord) error {
	model := models.SyncErrorRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// List returns records matching the filter, newest first, with the total count
func (r *GormErrorRecordRepository) List(ctx context.Context, filter sync.ErrorRecordFilter) ([]sync.ErrorRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SyncErrorRecordModel{})
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.Since != nil {
		query = query.Where("occurred_at >= ?", *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("occurred_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var recordModels []models.SyncErrorRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}

	records := make([]sync.ErrorRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records, total, nil
}

// CountSince counts records created at or after t
func (r *GormErrorRecordRepository) CountSince(ctx context.Context, t time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SyncErrorRecordModel{}).
		Where("occurred_at >= ?", t).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormErrorRecordRepository implements sync.ErrorRecordRepository
var _ sync.ErrorRecordRepository = (*GormErrorRecordRepository)(nil)
