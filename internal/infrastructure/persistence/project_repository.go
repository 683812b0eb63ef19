package persistence

import (
	"context"
	"errors"

	"github.com/fabworks/backend/internal/domain/project"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProjectRepository implements project.Repository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds the project linked to a remote job id
func (r *GormProjectRepository) FindByRemoteID(ctx context.Context, remoteID string) (*project.Project, error) {
	if remoteID == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindUnlinkedByName returns unlinked projects matching the name exactly,
// newest first. The remote_id IS NULL restriction is load-bearing.
func (r *GormProjectRepository) FindUnlinkedByName(ctx context.Context, name string) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	if err := r.db.WithContext(ctx).
		Where("remote_id IS NULL AND name = ?", name).
		Order("created_at DESC").
		Find(&projectModels).Error; err != nil {
		return nil, err
	}
	return projectsToDomain(projectModels), nil
}

// ClaimRemoteID atomically sets remote_id on an unlinked project
func (r *GormProjectRepository) ClaimRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error {
	if remoteID == "" {
		return shared.ErrInvalidInput
	}
	result := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
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

// FindAll finds all projects matching the filter
func (r *GormProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.ProjectModel{}), filter, "created_at DESC")
	if err := query.Find(&projectModels).Error; err != nil {
		return nil, err
	}
	return projectsToDomain(projectModels), nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// projectsToDomain converts a slice of persistence models
func projectsToDomain(projectModels []models.ProjectModel) []project.Project {
	projects := make([]project.Project, len(projectModels))
	for i := range projectModels {
		projects[i] = *projectModels[i].ToDomain()
	}
	return projects
}

// Ensure GormProjectRepository implements project.Repository
var _ project.Repository = (*GormProjectRepository)(nil)
