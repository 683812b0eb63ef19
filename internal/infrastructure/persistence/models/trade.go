package models

import (
	"time"

	"github.com/fabworks/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// remoteDocumentColumns holds the embedded push-state columns shared by sales
// documents and purchase orders.
type remoteDocumentColumns struct {
	PushStatus         trade.PushStatus `gorm:"type:varchar(20);not null;default:'UNPUSHED';index"`
	RemoteID           *string          `gorm:"type:varchar(100)"`
	RemoteLastModified *time.Time       `gorm:""`
	PushedAt           *time.Time       `gorm:""`
	VoidedAt           *time.Time       `gorm:""`
}

// toDomain converts the embedded push-state columns
func (c *remoteDocumentColumns) toDomain() trade.RemoteDocument {
	return trade.RemoteDocument{
		PushStatus:         c.PushStatus,
		RemoteID:           c.RemoteID,
		RemoteLastModified: c.RemoteLastModified,
		PushedAt:           c.PushedAt,
		VoidedAt:           c.VoidedAt,
	}
}

// fromDomain populates the embedded push-state columns
func (c *remoteDocumentColumns) fromDomain(d trade.RemoteDocument) {
	c.PushStatus = d.PushStatus
	c.RemoteID = d.RemoteID
	c.RemoteLastModified = d.RemoteLastModified
	c.PushedAt = d.PushedAt
	c.VoidedAt = d.VoidedAt
}

// SalesDocumentModel is the persistence model for the SalesDocument domain entity.
type SalesDocumentModel struct {
	BaseModel
	remoteDocumentColumns `gorm:"embedded"`
	Kind                  trade.SalesDocumentKind `gorm:"type:varchar(20);not null"`
	Number                string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_doc_number"`
	CustomerID            uuid.UUID               `gorm:"type:uuid;not null;index"`
	ProjectID             *uuid.UUID              `gorm:"type:uuid;index"`
	Reference             string                  `gorm:"type:varchar(200)"`
	Total                 decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	IssuedAt              time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesDocumentModel) TableName() string {
	return "sales_documents"
}

// ToDomain converts the persistence model to a domain SalesDocument entity.
func (m *SalesDocumentModel) ToDomain() *trade.SalesDocument {
	return &trade.SalesDocument{
		BaseEntity:     m.BaseModel.ToDomain(),
		RemoteDocument: m.remoteDocumentColumns.toDomain(),
		Kind:           m.Kind,
		Number:         m.Number,
		CustomerID:     m.CustomerID,
		ProjectID:      m.ProjectID,
		Reference:      m.Reference,
		Total:          m.Total,
		IssuedAt:       m.IssuedAt,
	}
}

// FromDomain populates the persistence model from a domain SalesDocument entity.
func (m *SalesDocumentModel) FromDomain(d *trade.SalesDocument) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.remoteDocumentColumns.fromDomain(d.RemoteDocument)
	m.Kind = d.Kind
	m.Number = d.Number
	m.CustomerID = d.CustomerID
	m.ProjectID = d.ProjectID
	m.Reference = d.Reference
	m.Total = d.Total
	m.IssuedAt = d.IssuedAt
}

// SalesDocumentModelFromDomain creates a new persistence model from a domain SalesDocument entity.
func SalesDocumentModelFromDomain(d *trade.SalesDocument) *SalesDocumentModel {
	m := &SalesDocumentModel{}
	m.FromDomain(d)
	return m
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder domain entity.
type PurchaseOrderModel struct {
	BaseModel
	remoteDocumentColumns `gorm:"embedded"`
	Number                string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_number"`
	SupplierName          string          `gorm:"type:varchar(200);not null"`
	Reference             string          `gorm:"type:varchar(200)"`
	Total                 decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OrderedAt             time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	return &trade.PurchaseOrder{
		BaseEntity:     m.BaseModel.ToDomain(),
		RemoteDocument: m.remoteDocumentColumns.toDomain(),
		Number:         m.Number,
		SupplierName:   m.SupplierName,
		Reference:      m.Reference,
		Total:          m.Total,
		OrderedAt:      m.OrderedAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(o *trade.PurchaseOrder) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.remoteDocumentColumns.fromDomain(o.RemoteDocument)
	m.Number = o.Number
	m.SupplierName = o.SupplierName
	m.Reference = o.Reference
	m.Total = o.Total
	m.OrderedAt = o.OrderedAt
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}
