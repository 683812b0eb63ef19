package models

import (
	"time"

	"github.com/fabworks/backend/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeEntryModel is the persistence model for the TimeEntry domain entity.
type TimeEntryModel struct {
	BaseModel
	StaffID        uuid.UUID                 `gorm:"type:uuid;not null;index:idx_time_entry_staff_date"`
	Date           time.Time                 `gorm:"not null;index:idx_time_entry_staff_date"`
	Hours          decimal.Decimal           `gorm:"type:decimal(8,2);not null"`
	JobCode        string                    `gorm:"type:varchar(50);not null"`
	Classification payroll.JobClassification `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (TimeEntryModel) TableName() string {
	return "time_entries"
}

// ToDomain converts the persistence model to a domain TimeEntry entity.
func (m *TimeEntryModel) ToDomain() *payroll.TimeEntry {
	return &payroll.TimeEntry{
		BaseEntity:     m.BaseModel.ToDomain(),
		StaffID:        m.StaffID,
		Date:           m.Date,
		Hours:          m.Hours,
		JobCode:        m.JobCode,
		Classification: m.Classification,
	}
}

// FromDomain populates the persistence model from a domain TimeEntry entity.
func (m *TimeEntryModel) FromDomain(e *payroll.TimeEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.StaffID = e.StaffID
	m.Date = e.Date
	m.Hours = e.Hours
	m.JobCode = e.JobCode
	m.Classification = e.Classification
}

// TimeEntryModelFromDomain creates a new persistence model from a domain TimeEntry entity.
func TimeEntryModelFromDomain(e *payroll.TimeEntry) *TimeEntryModel {
	m := &TimeEntryModel{}
	m.FromDomain(e)
	return m
}

// PayItemModel is the persistence model for the PayItem domain entity.
type PayItemModel struct {
	BaseModel
	Code           string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_pay_item_code"`
	Name           string                    `gorm:"type:varchar(200)"`
	Classification payroll.JobClassification `gorm:"type:varchar(30);not null"`

	RemoteID           *string    `gorm:"type:varchar(100);uniqueIndex:idx_pay_item_remote_id"`
	RemoteLastModified *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (PayItemModel) TableName() string {
	return "pay_items"
}

// ToDomain converts the persistence model to a domain PayItem entity.
func (m *PayItemModel) ToDomain() *payroll.PayItem {
	return &payroll.PayItem{
		BaseEntity:         m.BaseModel.ToDomain(),
		Code:               m.Code,
		Name:               m.Name,
		Classification:     m.Classification,
		RemoteID:           m.RemoteID,
		RemoteLastModified: m.RemoteLastModified,
	}
}

// FromDomain populates the persistence model from a domain PayItem entity.
func (m *PayItemModel) FromDomain(p *payroll.PayItem) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Code = p.Code
	m.Name = p.Name
	m.Classification = p.Classification
	m.RemoteID = p.RemoteID
	m.RemoteLastModified = p.RemoteLastModified
}

// PayItemModelFromDomain creates a new persistence model from a domain PayItem entity.
func PayItemModelFromDomain(p *payroll.PayItem) *PayItemModel {
	m := &PayItemModel{}
	m.FromDomain(p)
	return m
}
