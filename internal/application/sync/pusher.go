package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/domain/trade"
)

// ---------------------------------------------------------------------------
// Document pusher
// ---------------------------------------------------------------------------

// ErrCustomerNotLinked indicates a sales document whose customer has no remote
// link yet; the remote system cannot accept a document without a contact id.
var ErrCustomerNotLinked = errors.New("sync: customer is not linked to a remote contact")

// DocumentPusher pushes locally-authoritative documents to the remote system.
// The first push is a create and stores the remote-assigned id; every
// subsequent push is an update against that stored id, so a document holds at
// most one remote id over its lifetime. Voiding voids the remote copy and
// retains the id.
type DocumentPusher struct {
	client    sync.Client
	sales     trade.SalesDocumentRepository
	orders    trade.PurchaseOrderRepository
	customers partner.CustomerRepository
	audit     *AuditGateway
	logger    *zap.Logger
}

// NewDocumentPusher creates the document pusher
func NewDocumentPusher(
	client sync.Client,
	sales trade.SalesDocumentRepository,
	orders trade.PurchaseOrderRepository,
	customers partner.CustomerRepository,
	audit *AuditGateway,
	logger *zap.Logger,
) *DocumentPusher {
	return &DocumentPusher{
		client:    client,
		sales:     sales,
		orders:    orders,
		customers: customers,
		audit:     audit,
		logger:    logger.Named("pusher"),
	}
}

// PushSalesDocument pushes one sales document, creating or updating the remote
// copy depending on whether it was pushed before.
func (p *DocumentPusher) PushSalesDocument(ctx context.Context, id uuid.UUID) (*trade.SalesDocument, error) {
	doc, err := p.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.PushStatus == trade.PushStatusVoided {
		return nil, trade.ErrAlreadyVoided
	}

	payload, err := p.salesDocumentPayload(ctx, doc)
	if err != nil {
		p.recordPushFailure(ctx, sync.EntityTypeSalesDocuments, doc.RemoteDocument, doc.Number, err)
		return nil, err
	}

	remoteID, err := p.push(ctx, sync.EntityTypeSalesDocuments, payload, doc.RemoteDocument)
	if err != nil {
		p.recordPushFailure(ctx, sync.EntityTypeSalesDocuments, doc.RemoteDocument, doc.Number, err)
		return nil, err
	}
	if err := doc.MarkPushed(remoteID); err != nil {
		p.recordPushFailure(ctx, sync.EntityTypeSalesDocuments, doc.RemoteDocument, doc.Number, err)
		return nil, err
	}
	if err := p.sales.Save(ctx, doc); err != nil {
		return nil, err
	}
	p.logger.Info("Sales document pushed",
		zap.String("number", doc.Number),
		zap.String("remote_id", remoteID),
	)
	return doc, nil
}

// VoidSalesDocument voids the remote copy of a pushed sales document
func (p *DocumentPusher) VoidSalesDocument(ctx context.Context, id uuid.UUID) (*trade.SalesDocument, error) {
	doc, err := p.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsPushed() {
		if doc.PushStatus == trade.PushStatusVoided {
			return nil, trade.ErrAlreadyVoided
		}
		return nil, trade.ErrNotPushed
	}
	if err := p.client.Void(ctx, sync.EntityTypeSalesDocuments, *doc.RemoteID); err != nil {
		p.recordPushFailure(ctx, sync.EntityTypeSalesDocuments, doc.RemoteDocument, doc.Number, err)
		return nil, err
	}
	if err := doc.MarkVoided(); err != nil {
		return nil, err
	}
	if err := p.sales.Save(ctx, doc); err != nil {
		return nil, err
	}
	p.logger.Info("Sales document voided",
		zap.String("number", doc.Number),
		zap.String("remote_id", *doc.RemoteID),
	)
	return doc, nil
}

// PushPurchaseOrder pushes one purchase order
func (p *DocumentPusher) PushPurchaseOrder(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	order, err := p.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PushStatus == trade.PushStatusVoided {
		return nil, trade.ErrAlreadyVoided
	}

	payload := map[string]any{
		"number":        order.Number,
		"supplier_name": order.SupplierName,
		"reference":     order.Reference,
		"total":         order.Total.String(),
		"ordered_at":    order.OrderedAt.UTC().Format(time.RFC3339),
	}

	remoteID, err := p.push(ctx, sync.EntityTypePurchaseOrders, payload, order.RemoteDocument)
	if err != nil {
		p.recordPushFailure(ctx, sync.EntityTypePurchaseOrders, order.RemoteDocument, order.Number, err)
		return nil, err
	}
	if err := order.MarkPushed(remoteID); err != nil {
		p.recordPushFailure(ctx, sync.EntityTypePurchaseOrders, order.RemoteDocument, order.Number, err)
		return nil, err
	}
	if err := p.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	p.logger.Info("Purchase order pushed",
		zap.String("number", order.Number),
		zap.String("remote_id", remoteID),
	)
	return order, nil
}

// VoidPurchaseOrder voids the remote copy of a pushed purchase order
func (p *DocumentPusher) VoidPurchaseOrder(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	order, err := p.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsPushed() {
		if order.PushStatus == trade.PushStatusVoided {
			return nil, trade.ErrAlreadyVoided
		}
		return nil, trade.ErrNotPushed
	}
	if err := p.client.Void(ctx, sync.EntityTypePurchaseOrders, *order.RemoteID); err != nil {
		p.recordPushFailure(ctx, sync.EntityTypePurchaseOrders, order.RemoteDocument, order.Number, err)
		return nil, err
	}
	if err := order.MarkVoided(); err != nil {
		return nil, err
	}
	if err := p.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	p.logger.Info("Purchase order voided",
		zap.String("number", order.Number),
		zap.String("remote_id", *order.RemoteID),
	)
	return order, nil
}

// push sends the payload out, passing the stored remote id so a re-push is an
// update instead of a second create.
func (p *DocumentPusher) push(ctx context.Context, entityType sync.EntityType, payload map[string]any, state trade.RemoteDocument) (string, error) {
	remoteID := ""
	if state.RemoteID != nil {
		remoteID = *state.RemoteID
	}
	return p.client.Push(ctx, entityType, payload, remoteID)
}

// salesDocumentPayload builds the remote representation of a sales document.
// The customer must already be linked; the remote system addresses documents by
// contact id.
func (p *DocumentPusher) salesDocumentPayload(ctx context.Context, doc *trade.SalesDocument) (map[string]any, error) {
	customer, err := p.customers.FindByID(ctx, doc.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load customer %s: %w", doc.CustomerID, err)
	}
	if !customer.IsLinked() {
		return nil, fmt.Errorf("%w: customer %s", ErrCustomerNotLinked, customer.ID)
	}
	return map[string]any{
		"kind":       string(doc.Kind),
		"number":     doc.Number,
		"contact_id": *customer.RemoteID,
		"reference":  doc.Reference,
		"total":      doc.Total.String(),
		"issued_at":  doc.IssuedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (p *DocumentPusher) recordPushFailure(ctx context.Context, entityType sync.EntityType, state trade.RemoteDocument, number string, err error) {
	remoteID := ""
	if state.RemoteID != nil {
		remoteID = *state.RemoteID
	}
	p.audit.Record(ctx, sync.NewErrorRecord(
		sync.ErrorKindPushFailed,
		entityType,
		remoteID,
		fmt.Sprintf("failed to push document %s", number),
		err.Error(),
	))
}
