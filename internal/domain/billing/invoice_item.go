package billing

import (
	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceItem is one billed line of an invoice.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID
	Description string
	Amount      decimal.Decimal
}

// NewInvoiceItem creates an invoice line item.
func NewInvoiceItem(invoiceID uuid.UUID, description string, amount decimal.Decimal) (*InvoiceItem, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice item amount cannot be negative")
	}
	return &InvoiceItem{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   invoiceID,
		Description: description,
		Amount:      amount,
	}, nil
}

// CopyTo duplicates the line item onto another invoice. Renewal uses this
// to carry the billed lines of the previous period forward.
func (i *InvoiceItem) CopyTo(invoiceID uuid.UUID) (*InvoiceItem, error) {
	return NewInvoiceItem(invoiceID, i.Description, i.Amount)
}
