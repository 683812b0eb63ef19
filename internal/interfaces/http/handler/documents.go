package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appsync "github.com/fabworks/backend/internal/application/sync"
	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/domain/trade"
	"github.com/fabworks/backend/internal/interfaces/http/dto"
)

// DocumentsHandler exposes outbound push and void operations for
// locally-authoritative trade documents
type DocumentsHandler struct {
	BaseHandler
	pusher *appsync.DocumentPusher
}

// NewDocumentsHandler creates the documents handler
func NewDocumentsHandler(pusher *appsync.DocumentPusher) *DocumentsHandler {
	return &DocumentsHandler{pusher: pusher}
}

// RegisterRoutes registers document push routes
func (h *DocumentsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales-documents")
	{
		sales.POST("/:id/push", h.PushSalesDocument)
		sales.POST("/:id/void", h.VoidSalesDocument)
	}
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("/:id/push", h.PushPurchaseOrder)
		orders.POST("/:id/void", h.VoidPurchaseOrder)
	}
}

// PushSalesDocument pushes a quote or invoice to the remote system
// POST /api/v1/sales-documents/:id/push
func (h *DocumentsHandler) PushSalesDocument(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	doc, err := h.pusher.PushSalesDocument(c.Request.Context(), id)
	if err != nil {
		h.handlePushError(c, err)
		return
	}
	h.Success(c, dto.SalesDocumentResponseFromDomain(doc))
}

// VoidSalesDocument voids the remote copy of a pushed document
// POST /api/v1/sales-documents/:id/void
func (h *DocumentsHandler) VoidSalesDocument(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	doc, err := h.pusher.VoidSalesDocument(c.Request.Context(), id)
	if err != nil {
		h.handlePushError(c, err)
		return
	}
	h.Success(c, dto.SalesDocumentResponseFromDomain(doc))
}

// PushPurchaseOrder pushes a purchase order to the remote system
// POST /api/v1/purchase-orders/:id/push
func (h *DocumentsHandler) PushPurchaseOrder(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	order, err := h.pusher.PushPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.handlePushError(c, err)
		return
	}
	h.Success(c, dto.PurchaseOrderResponseFromDomain(order))
}

// VoidPurchaseOrder voids the remote copy of a pushed purchase order
// POST /api/v1/purchase-orders/:id/void
func (h *DocumentsHandler) VoidPurchaseOrder(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	order, err := h.pusher.VoidPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.handlePushError(c, err)
		return
	}
	h.Success(c, dto.PurchaseOrderResponseFromDomain(order))
}

func (h *DocumentsHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid document id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid document id")
		return uuid.Nil, false
	}
	return id, true
}

// handlePushError maps push lifecycle and remote failures to HTTP responses
func (h *DocumentsHandler) handlePushError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trade.ErrAlreadyVoided), errors.Is(err, trade.ErrNotPushed):
		h.Conflict(c, dto.ErrCodeInvalidState, err.Error())
	case errors.Is(err, appsync.ErrCustomerNotLinked):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState,
			"Customer must be linked to a remote contact before pushing")
	case errors.Is(err, sync.ErrRemoteRateLimited):
		h.ErrorWithCode(c, dto.ErrCodeRateLimited, "Remote system rate limit exceeded, retry later")
	case errors.Is(err, sync.ErrRemoteUnavailable):
		h.ErrorWithCode(c, dto.ErrCodeRemoteUnavailable, "Remote system is unavailable")
	case errors.Is(err, sync.ErrRemoteAuth):
		h.ErrorWithCode(c, dto.ErrCodeRemoteAuth, "Remote system rejected our credentials")
	case errors.Is(err, sync.ErrRemoteRejected):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Remote system rejected the document")
	default:
		h.HandleError(c, err)
	}
}
