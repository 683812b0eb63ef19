package trade

import (
	"context"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesDocumentRepository defines the persistence port for sales documents
type SalesDocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesDocument, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*SalesDocument, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesDocument, error)
	Save(ctx context.Context, doc *SalesDocument) error
}

// PurchaseOrderRepository defines the persistence port for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	Save(ctx context.Context, order *PurchaseOrder) error
}
