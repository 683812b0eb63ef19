package persistence

import (
	"context"
	"time"

	"github.com/fabworks/backend/internal/domain/payroll"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTimeEntryRepository implements payroll.TimeEntryRepository using GORM
type GormTimeEntryRepository struct {
	db *gorm.DB
}

// NewGormTimeEntryRepository creates a new GormTimeEntryRepository
func NewGormTimeEntryRepository(db *gorm.DB) *GormTimeEntryRepository {
	return &GormTimeEntryRepository{db: db}
}

// FindForStaffWeek returns all entries for one staff member in the calendar
// week ending on weekEnding (a Sunday), ordered by date.
func (r *GormTimeEntryRepository) FindForStaffWeek(ctx context.Context, staffID uuid.UUID, weekEnding time.Time) ([]payroll.TimeEntry, error) {
	weekEnding = payroll.Day(weekEnding)
	weekStart := weekEnding.AddDate(0, 0, -6)

	var entryModels []models.TimeEntryModel
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND date >= ? AND date <= ?", staffID, weekStart, weekEnding).
		Order("date ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]payroll.TimeEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// Save creates or updates a time entry
func (r *GormTimeEntryRepository) Save(ctx context.Context, entry *payroll.TimeEntry) error {
	model := models.TimeEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormTimeEntryRepository implements payroll.TimeEntryRepository
var _ payroll.TimeEntryRepository = (*GormTimeEntryRepository)(nil)
