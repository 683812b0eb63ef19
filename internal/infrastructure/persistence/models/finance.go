package models

import (
	"time"

	"github.com/fabworks/backend/internal/domain/finance"
)

// LedgerAccountModel is the persistence model for the LedgerAccount domain entity.
type LedgerAccountModel struct {
	BaseModel
	Code  string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_ledger_account_code"`
	Name  string               `gorm:"type:varchar(200);not null"`
	Class finance.AccountClass `gorm:"type:varchar(20);not null"`

	RemoteID           *string    `gorm:"type:varchar(100);uniqueIndex:idx_ledger_account_remote_id"`
	RemoteLastModified *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (LedgerAccountModel) TableName() string {
	return "ledger_accounts"
}

// ToDomain converts the persistence model to a domain LedgerAccount entity.
func (m *LedgerAccountModel) ToDomain() *finance.LedgerAccount {
	return &finance.LedgerAccount{
		BaseEntity:         m.BaseModel.ToDomain(),
		Code:               m.Code,
		Name:               m.Name,
		Class:              m.Class,
		RemoteID:           m.RemoteID,
		RemoteLastModified: m.RemoteLastModified,
	}
}

// FromDomain populates the persistence model from a domain LedgerAccount entity.
func (m *LedgerAccountModel) FromDomain(a *finance.LedgerAccount) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Code = a.Code
	m.Name = a.Name
	m.Class = a.Class
	m.RemoteID = a.RemoteID
	m.RemoteLastModified = a.RemoteLastModified
}

// LedgerAccountModelFromDomain creates a new persistence model from a domain LedgerAccount entity.
func LedgerAccountModelFromDomain(a *finance.LedgerAccount) *LedgerAccountModel {
	m := &LedgerAccountModel{}
	m.FromDomain(a)
	return m
}
