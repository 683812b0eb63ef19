package models

import (
	"time"

	"github.com/fabworks/backend/internal/domain/project"
	"github.com/google/uuid"
)

// ProjectModel is the persistence model for the Project domain entity.
type ProjectModel struct {
	BaseModel
	Number     string         `gorm:"type:varchar(50);index"`
	Name       string         `gorm:"type:varchar(200);not null;index"`
	CustomerID *uuid.UUID     `gorm:"type:uuid;index"`
	Status     project.Status `gorm:"type:varchar(20);not null;default:'QUOTED'"`

	RemoteID           *string    `gorm:"type:varchar(100);uniqueIndex:idx_project_remote_id"`
	RemoteLastModified *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		BaseEntity:         m.BaseModel.ToDomain(),
		Number:             m.Number,
		Name:               m.Name,
		CustomerID:         m.CustomerID,
		Status:             m.Status,
		RemoteID:           m.RemoteID,
		RemoteLastModified: m.RemoteLastModified,
	}
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Number = p.Number
	m.Name = p.Name
	m.CustomerID = p.CustomerID
	m.Status = p.Status
	m.RemoteID = p.RemoteID
	m.RemoteLastModified = p.RemoteLastModified
}

// ProjectModelFromDomain creates a new persistence model from a domain Project entity.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}
