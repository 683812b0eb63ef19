package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWatermarkRepository implements sync.WatermarkRepository using GORM
type GormWatermarkRepository struct {
	db *gorm.DB
}

// NewGormWatermarkRepository creates a new GormWatermarkRepository
func NewGormWatermarkRepository(db *gorm.DB) *GormWatermarkRepository {
	return &GormWatermarkRepository{db: db}
}

// Get returns the watermark for an entity type. Before the first run there is
// no row yet; a zero-value watermark (nil LastSyncedAt) is returned instead.
func (r *GormWatermarkRepository) Get(ctx context.Context, entityType sync.EntityType) (*sync.Watermark, error) {
	var model models.SyncWatermarkModel
	if err := r.db.WithContext(ctx).First(&model, "entity_type = ?", entityType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &sync.Watermark{EntityType: entityType}, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetAll returns watermarks for every known entity type, in dependency order.
// Types without a row yet appear as zero-value watermarks.
func (r *GormWatermarkRepository) GetAll(ctx context.Context) ([]sync.Watermark, error) {
	var watermarkModels []models.SyncWatermarkModel
	if err := r.db.WithContext(ctx).Find(&watermarkModels).Error; err != nil {
		return nil, err
	}

	byType := make(map[sync.EntityType]*sync.Watermark, len(watermarkModels))
	for i := range watermarkModels {
		byType[watermarkModels[i].EntityType] = watermarkModels[i].ToDomain()
	}

	order := sync.DependencyOrder()
	watermarks := make([]sync.Watermark, 0, len(order))
	for _, entityType := range order {
		if w, ok := byType[entityType]; ok {
			watermarks = append(watermarks, *w)
		} else {
			watermarks = append(watermarks, sync.Watermark{EntityType: entityType})
		}
	}
	return watermarks, nil
}

// Claim atomically sets in_progress = true. The claim is a single guarded
// UPDATE so triggers from different processes cannot both win; an insert with
// conflict-do-nothing first guarantees the row exists on the very first run.
func (r *GormWatermarkRepository) Claim(ctx context.Context, entityType sync.EntityType) error {
	if !entityType.IsValid() {
		return sync.ErrInvalidEntityType
	}

	seed := models.SyncWatermarkModel{
		EntityType: entityType,
		UpdatedAt:  time.Now(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.SyncWatermarkModel{}).
		Where("entity_type = ? AND in_progress = ?", entityType, false).
		Updates(map[string]any{
			"in_progress": true,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return sync.ErrSyncAlreadyRunning
	}
	return nil
}

// Release clears in_progress without touching the watermark timestamp
func (r *GormWatermarkRepository) Release(ctx context.Context, entityType sync.EntityType) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncWatermarkModel{}).
		Where("entity_type = ?", entityType).
		Updates(map[string]any{
			"in_progress": false,
			"updated_at":  time.Now(),
		}).Error
}

// Advance sets last_synced_at and clears in_progress in one write
func (r *GormWatermarkRepository) Advance(ctx context.Context, entityType sync.EntityType, syncedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncWatermarkModel{}).
		Where("entity_type = ?", entityType).
		Updates(map[string]any{
			"last_synced_at": syncedAt,
			"in_progress":    false,
			"updated_at":     time.Now(),
		}).Error
}

// Ensure GormWatermarkRepository implements sync.WatermarkRepository
var _ sync.WatermarkRepository = (*GormWatermarkRepository)(nil)
