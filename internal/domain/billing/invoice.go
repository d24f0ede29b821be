package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft       InvoiceStatus = "Draft"
	InvoiceStatusPending     InvoiceStatus = "Pending"
	InvoiceStatusOutstanding InvoiceStatus = "Outstanding"
	InvoiceStatusPaid        InvoiceStatus = "Paid"
)

// IsValid reports whether s is a known invoice status.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusOutstanding, InvoiceStatusPaid:
		return true
	}
	return false
}

// Invoice is an aggregate root billing one tenancy period. Its line items
// are stored separately; the monetary state (total, remaining, settled)
// is always derived from items, discount and the payment ledger rather
// than cached on the invoice.
type Invoice struct {
	shared.BaseAggregateRoot
	TenancyID   uuid.UUID
	TenantID    uuid.UUID
	PeriodStart time.Time
	DueDate     *time.Time
	Discount    *decimal.Decimal
	Status      InvoiceStatus
	Notes       string
}

// NewInvoice creates an invoice for a tenancy period. Status defaults to
// Pending when empty.
func NewInvoice(tenancyID, tenantID uuid.UUID, periodStart time.Time, dueDate *time.Time, discount *decimal.Decimal, status InvoiceStatus, notes string) (*Invoice, error) {
	if tenancyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenancy ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant ID cannot be empty")
	}
	if periodStart.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice period start cannot be empty")
	}
	if status == "" {
		status = InvoiceStatusPending
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown invoice status: "+string(status))
	}
	if discount != nil && discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount cannot be negative")
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenancyID:         tenancyID,
		TenantID:          tenantID,
		PeriodStart:       periodStart.UTC(),
		DueDate:           dueDate,
		Discount:          discount,
		Status:            status,
		Notes:             notes,
	}, nil
}

// Total returns the sum of item amounts minus the discount. The result is
// not clamped at zero: a discount larger than the items yields a negative
// total, which the reconciliation tolerance then treats as settled by a
// zero payment sum.
func (i *Invoice) Total(items []*InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	if i.Discount != nil {
		total = total.Sub(*i.Discount)
	}
	return total
}

// IsSettled reports whether the recorded payments already cover the total
// beyond the tolerance. A settled invoice accepts no further payments.
func (i *Invoice) IsSettled(paymentsSum, total, tolerance decimal.Decimal) bool {
	return paymentsSum.Sub(tolerance).GreaterThan(total)
}

// Reconcile recomputes the invoice status from the payment sum and total.
// Payments within the tolerance of the total mark the invoice Paid, any
// other mismatch marks it Outstanding. Payments exceeding the total
// beyond the tolerance are a bookkeeping fault and are rejected.
func (i *Invoice) Reconcile(paymentsSum, total, tolerance decimal.Decimal) error {
	if i.IsSettled(paymentsSum, total, tolerance) {
		return shared.NewDomainError("ALREADY_PAID", "Invoice has already been completely paid")
	}
	if paymentsSum.Sub(total).Abs().LessThan(tolerance) {
		i.Status = InvoiceStatusPaid
	} else {
		i.Status = InvoiceStatusOutstanding
	}
	i.UpdatedAt = time.Now().UTC()
	i.IncrementVersion()
	return nil
}

// Issue moves a draft invoice to Pending so payments can be recorded
// against it.
func (i *Invoice) Issue() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be issued")
	}
	i.Status = InvoiceStatusPending
	i.UpdatedAt = time.Now().UTC()
	i.IncrementVersion()
	return nil
}
