package models

import (
	"time"

	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);index"`
	Name        string `gorm:"type:varchar(200);not null;index"`
	Email       string `gorm:"type:varchar(200);index"`
	Phone       string `gorm:"type:varchar(50)"`
	AddressLine string `gorm:"type:text"`
	City        string `gorm:"type:varchar(100)"`
	Postcode    string `gorm:"type:varchar(20)"`
	Country     string `gorm:"type:varchar(100)"`

	RemoteID           *string    `gorm:"type:varchar(100);uniqueIndex:idx_customer_remote_id"`
	RemoteLastModified *time.Time `gorm:""`

	Active bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity:         m.BaseModel.ToDomain(),
		Code:               m.Code,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		AddressLine:        m.AddressLine,
		City:               m.City,
		Postcode:           m.Postcode,
		Country:            m.Country,
		RemoteID:           m.RemoteID,
		RemoteLastModified: m.RemoteLastModified,
		Active:             m.Active,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Code = c.Code
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.AddressLine = c.AddressLine
	m.City = c.City
	m.Postcode = c.Postcode
	m.Country = c.Country
	m.RemoteID = c.RemoteID
	m.RemoteLastModified = c.RemoteLastModified
	m.Active = c.Active
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ContactPersonModel is the persistence model for the ContactPerson domain entity.
type ContactPersonModel struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Email      string    `gorm:"type:varchar(200)"`
	Phone      string    `gorm:"type:varchar(50)"`
	Role       string    `gorm:"type:varchar(100)"`

	RemoteID           *string    `gorm:"type:varchar(100);uniqueIndex:idx_contact_person_remote_id"`
	RemoteLastModified *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (ContactPersonModel) TableName() string {
	return "contact_persons"
}

// ToDomain converts the persistence model to a domain ContactPerson entity.
func (m *ContactPersonModel) ToDomain() *partner.ContactPerson {
	return &partner.ContactPerson{
		BaseEntity:         m.BaseModel.ToDomain(),
		CustomerID:         m.CustomerID,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Role:               m.Role,
		RemoteID:           m.RemoteID,
		RemoteLastModified: m.RemoteLastModified,
	}
}

// FromDomain populates the persistence model from a domain ContactPerson entity.
func (m *ContactPersonModel) FromDomain(p *partner.ContactPerson) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CustomerID = p.CustomerID
	m.Name = p.Name
	m.Email = p.Email
	m.Phone = p.Phone
	m.Role = p.Role
	m.RemoteID = p.RemoteID
	m.RemoteLastModified = p.RemoteLastModified
}

// ContactPersonModelFromDomain creates a new persistence model from a domain ContactPerson entity.
func ContactPersonModelFromDomain(p *partner.ContactPerson) *ContactPersonModel {
	m := &ContactPersonModel{}
	m.FromDomain(p)
	return m
}
