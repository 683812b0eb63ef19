package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/trade"
)

// SalesDocumentResponse is the API shape of a quote or invoice
type SalesDocumentResponse struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	Number     string     `json:"number"`
	CustomerID uuid.UUID  `json:"customer_id"`
	ProjectID  *uuid.UUID `json:"project_id,omitempty"`
	Reference  string     `json:"reference,omitempty"`
	Total      string     `json:"total"`
	IssuedAt   time.Time  `json:"issued_at"`

	PushStatus string     `json:"push_status"`
	RemoteID   *string    `json:"remote_id,omitempty"`
	PushedAt   *time.Time `json:"pushed_at,omitempty"`
	VoidedAt   *time.Time `json:"voided_at,omitempty"`
}

// SalesDocumentResponseFromDomain converts a domain sales document
func SalesDocumentResponseFromDomain(d *trade.SalesDocument) SalesDocumentResponse {
	return SalesDocumentResponse{
		ID:         d.ID,
		Kind:       string(d.Kind),
		Number:     d.Number,
		CustomerID: d.CustomerID,
		ProjectID:  d.ProjectID,
		Reference:  d.Reference,
		Total:      d.Total.String(),
		IssuedAt:   d.IssuedAt,
		PushStatus: d.PushStatus.String(),
		RemoteID:   d.RemoteID,
		PushedAt:   d.PushedAt,
		VoidedAt:   d.VoidedAt,
	}
}

// PurchaseOrderResponse is the API shape of a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID `json:"id"`
	Number       string    `json:"number"`
	SupplierName string    `json:"supplier_name"`
	Reference    string    `json:"reference,omitempty"`
	Total        string    `json:"total"`
	OrderedAt    time.Time `json:"ordered_at"`

	PushStatus string     `json:"push_status"`
	RemoteID   *string    `json:"remote_id,omitempty"`
	PushedAt   *time.Time `json:"pushed_at,omitempty"`
	VoidedAt   *time.Time `json:"voided_at,omitempty"`
}

// PurchaseOrderResponseFromDomain converts a domain purchase order
func PurchaseOrderResponseFromDomain(o *trade.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		SupplierName: o.SupplierName,
		Reference:    o.Reference,
		Total:        o.Total.String(),
		OrderedAt:    o.OrderedAt,
		PushStatus:   o.PushStatus.String(),
		RemoteID:     o.RemoteID,
		PushedAt:     o.PushedAt,
		VoidedAt:     o.VoidedAt,
	}
}
