package models

import (
	"time"

	"github.com/fabworks/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockItemModel is the persistence model for the StockItem domain entity.
// The item code carries a unique index backing the singleton-by-code invariant.
type StockItemModel struct {
	BaseModel
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_item_code"`
	Description string          `gorm:"type:text"`
	Unit        string          `gorm:"type:varchar(20)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	RemoteID           *string    `gorm:"type:varchar(100);uniqueIndex:idx_stock_item_remote_id"`
	RemoteLastModified *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem entity.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	return &inventory.StockItem{
		BaseEntity:         m.BaseModel.ToDomain(),
		Code:               m.Code,
		Description:        m.Description,
		Unit:               m.Unit,
		Quantity:           m.Quantity,
		UnitCost:           m.UnitCost,
		RemoteID:           m.RemoteID,
		RemoteLastModified: m.RemoteLastModified,
	}
}

// FromDomain populates the persistence model from a domain StockItem entity.
func (m *StockItemModel) FromDomain(s *inventory.StockItem) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Code = s.Code
	m.Description = s.Description
	m.Unit = s.Unit
	m.Quantity = s.Quantity
	m.UnitCost = s.UnitCost
	m.RemoteID = s.RemoteID
	m.RemoteLastModified = s.RemoteLastModified
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem entity.
func StockItemModelFromDomain(s *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(s)
	return m
}
