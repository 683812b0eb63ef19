package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds the customer linked to a remote contact id
func (r *GormCustomerRepository) FindByRemoteID(ctx context.Context, remoteID string) (*partner.Customer, error) {
	if remoteID == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindUnlinkedByName returns unlinked customers matching the name exactly,
// newest first. The remote_id IS NULL restriction is load-bearing: without it
// the resolver re-links already-bound customers and duplicates local rows.
func (r *GormCustomerRepository) FindUnlinkedByName(ctx context.Context, name string) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("remote_id IS NULL AND name = ?", name).
		Order("created_at DESC").
		Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return customersToDomain(customerModels), nil
}

// FindUnlinkedByEmail returns unlinked customers matching the email exactly,
// newest first. Same remote_id IS NULL restriction as FindUnlinkedByName.
func (r *GormCustomerRepository) FindUnlinkedByEmail(ctx context.Context, email string) ([]partner.Customer, error) {
	if email == "" {
		return []partner.Customer{}, nil
	}
	var customerModels []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("remote_id IS NULL AND email = ?", strings.ToLower(email)).
		Order("created_at DESC").
		Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return customersToDomain(customerModels), nil
}

// ClaimRemoteID atomically sets remote_id on an unlinked customer. The update
// is guarded on remote_id IS NULL and the column carries a unique index, so a
// concurrent claim of the same row or the same remote id loses cleanly.
func (r *GormCustomerRepository) ClaimRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error {
	if remoteID == "" {
		return shared.ErrInvalidInput
	}
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
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

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter, "name ASC")
	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return customersToDomain(customerModels), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// customersToDomain converts a slice of persistence models
func customersToDomain(customerModels []models.CustomerModel) []partner.Customer {
	customers := make([]partner.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

// GormContactPersonRepository implements ContactPersonRepository using GORM
type GormContactPersonRepository struct {
	db *gorm.DB
}

// NewGormContactPersonRepository creates a new GormContactPersonRepository
func NewGormContactPersonRepository(db *gorm.DB) *GormContactPersonRepository {
	return &GormContactPersonRepository{db: db}
}

// FindByID finds a contact person by its ID
func (r *GormContactPersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.ContactPerson, error) {
	var model models.ContactPersonModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns all contact persons of a customer
func (r *GormContactPersonRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.ContactPerson, error) {
	var contactModels []models.ContactPersonModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	contacts := make([]partner.ContactPerson, len(contactModels))
	for i := range contactModels {
		contacts[i] = *contactModels[i].ToDomain()
	}
	return contacts, nil
}

// FindByRemoteID finds the contact person mirroring a remote contact
func (r *GormContactPersonRepository) FindByRemoteID(ctx context.Context, remoteID string) (*partner.ContactPerson, error) {
	if remoteID == "" {
		return nil, shared.ErrInvalidInput
	}
	var model models.ContactPersonModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a contact person
func (r *GormContactPersonRepository) Save(ctx context.Context, contact *partner.ContactPerson) error {
	model := models.ContactPersonModelFromDomain(contact)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormContactPersonRepository implements ContactPersonRepository
var _ partner.ContactPersonRepository = (*GormContactPersonRepository)(nil)
