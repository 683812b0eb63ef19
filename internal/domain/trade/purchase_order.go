package trade

import (
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is an order placed with a supplier. Like sales documents, the
// local system is authoritative at creation time and pushes the order out.
type PurchaseOrder struct {
	shared.BaseEntity
	RemoteDocument
	Number       string
	SupplierName string
	Reference    string
	Total        decimal.Decimal
	OrderedAt    time.Time
}

// NewPurchaseOrder creates an unpushed purchase order
func NewPurchaseOrder(number, supplierName string, total decimal.Decimal) (*PurchaseOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	return &PurchaseOrder{
		BaseEntity:     shared.NewBaseEntity(),
		RemoteDocument: NewRemoteDocument(),
		Number:         number,
		SupplierName:   supplierName,
		Total:          total,
		OrderedAt:      time.Now(),
	}, nil
}

// ApplyRemoteStatus refreshes the inbound remote modified stamp during sync
func (o *PurchaseOrder) ApplyRemoteStatus(modified time.Time) bool {
	if o.RemoteLastModified != nil && o.RemoteLastModified.Equal(modified) {
		return false
	}
	o.RemoteLastModified = &modified
	o.Touch()
	return true
}
