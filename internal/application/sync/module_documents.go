package sync

import (
	"context"
	"errors"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/domain/trade"
)

// Sales documents and purchase orders are locally authoritative: they are
// created here and pushed out, so the inbound direction is a status refresh
// only. A remote document with no local counterpart was created directly on the
// remote side and is skipped; nothing local should spring into existence from
// it.

// SalesDocumentsModule refreshes pushed sales documents from the remote feed
type SalesDocumentsModule struct {
	documents trade.SalesDocumentRepository
}

// NewSalesDocumentsModule creates the sales documents module
func NewSalesDocumentsModule(documents trade.SalesDocumentRepository) *SalesDocumentsModule {
	return &SalesDocumentsModule{documents: documents}
}

// Type returns the entity type this module serves
func (m *SalesDocumentsModule) Type() sync.EntityType {
	return sync.EntityTypeSalesDocuments
}

// Apply refreshes one pushed sales document
func (m *SalesDocumentsModule) Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error) {
	if err := rec.Validate(); err != nil {
		return OutcomeSkipped, err
	}
	doc, err := m.documents.FindByRemoteID(ctx, rec.RemoteID)
	if errors.Is(err, shared.ErrNotFound) {
		return OutcomeSkipped, nil
	}
	if err != nil {
		return OutcomeSkipped, err
	}
	if !doc.ApplyRemoteStatus(rec.ModifiedAt) {
		return OutcomeUnchanged, nil
	}
	if err := m.documents.Save(ctx, doc); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeUpdated, nil
}

// PurchaseOrdersModule refreshes pushed purchase orders from the remote feed
type PurchaseOrdersModule struct {
	orders trade.PurchaseOrderRepository
}

// NewPurchaseOrdersModule creates the purchase orders module
func NewPurchaseOrdersModule(orders trade.PurchaseOrderRepository) *PurchaseOrdersModule {
	return &PurchaseOrdersModule{orders: orders}
}

// Type returns the entity type this module serves
func (m *PurchaseOrdersModule) Type() sync.EntityType {
	return sync.EntityTypePurchaseOrders
}

// Apply refreshes one pushed purchase order
func (m *PurchaseOrdersModule) Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error) {
	if err := rec.Validate(); err != nil {
		return OutcomeSkipped, err
	}
	order, err := m.orders.FindByRemoteID(ctx, rec.RemoteID)
	if errors.Is(err, shared.ErrNotFound) {
		return OutcomeSkipped, nil
	}
	if err != nil {
		return OutcomeSkipped, err
	}
	if !order.ApplyRemoteStatus(rec.ModifiedAt) {
		return OutcomeUnchanged, nil
	}
	if err := m.orders.Save(ctx, order); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeUpdated, nil
}

// Ensure both modules implement EntityModule
var (
	_ EntityModule = (*SalesDocumentsModule)(nil)
	_ EntityModule = (*PurchaseOrdersModule)(nil)
)
