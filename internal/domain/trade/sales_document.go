package trade

import (
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesDocumentKind distinguishes quotes from invoices
type SalesDocumentKind string

const (
	SalesDocumentKindQuote   SalesDocumentKind = "QUOTE"
	SalesDocumentKindInvoice SalesDocumentKind = "INVOICE"
)

// IsValid returns true if the kind is valid
func (k SalesDocumentKind) IsValid() bool {
	return k == SalesDocumentKindQuote || k == SalesDocumentKindInvoice
}

// SalesDocument is a quote or invoice. The local system is authoritative at
// creation time: documents are created here and pushed to the remote system,
// which assigns the remote id.
type SalesDocument struct {
	shared.BaseEntity
	RemoteDocument
	Kind       SalesDocumentKind
	Number     string
	CustomerID uuid.UUID
	ProjectID  *uuid.UUID
	Reference  string
	Total      decimal.Decimal
	IssuedAt   time.Time
}

// NewSalesDocument creates an unpushed sales document
func NewSalesDocument(kind SalesDocumentKind, number string, customerID uuid.UUID, total decimal.Decimal) (*SalesDocument, error) {
	if !kind.IsValid() {
		return nil, shared.ErrInvalidInput
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	return &SalesDocument{
		BaseEntity:     shared.NewBaseEntity(),
		RemoteDocument: NewRemoteDocument(),
		Kind:           kind,
		Number:         number,
		CustomerID:     customerID,
		Total:          total,
		IssuedAt:       time.Now(),
	}, nil
}

// ApplyRemoteStatus refreshes inbound remote fields (status/modified stamp) on
// an already-pushed document during sync. Returns true if anything changed.
func (d *SalesDocument) ApplyRemoteStatus(modified time.Time) bool {
	if d.RemoteLastModified != nil && d.RemoteLastModified.Equal(modified) {
		return false
	}
	d.RemoteLastModified = &modified
	d.Touch()
	return true
}
