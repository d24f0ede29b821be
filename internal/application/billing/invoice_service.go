package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// NewTenancyRentItemDescription is the line item written onto the first
// invoice of a freshly created tenancy.
const NewTenancyRentItemDescription = "New Tenancy Rent"

// InvoiceService creates invoices and keeps their status reconciled with
// the recorded payments.
type InvoiceService struct {
	uow          finance.UnitOfWork
	invoices     billing.InvoiceRepository
	items        billing.InvoiceItemRepository
	payments     ledger.RentPaymentRepository
	transactions ledger.TransactionRepository
	tolerance    decimal.Decimal
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	uow finance.UnitOfWork,
	invoices billing.InvoiceRepository,
	items billing.InvoiceItemRepository,
	payments ledger.RentPaymentRepository,
	transactions ledger.TransactionRepository,
	tolerance decimal.Decimal,
) *InvoiceService {
	return &InvoiceService{
		uow:          uow,
		invoices:     invoices,
		items:        items,
		payments:     payments,
		transactions: transactions,
		tolerance:    tolerance,
	}
}

// InvoiceItemInput is one requested invoice line.
type InvoiceItemInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateInvoiceRequest carries the fields for a new invoice.
type CreateInvoiceRequest struct {
	TenancyID uuid.UUID
	TenantID  uuid.UUID
	DueDate   *time.Time
	Discount  *decimal.Decimal
	Notes     string
	Items     []InvoiceItemInput
}

// InvoiceRecord pairs an invoice with its line items.
type InvoiceRecord struct {
	Invoice *billing.Invoice       `json:"invoice"`
	Items   []*billing.InvoiceItem `json:"items"`
}

// InvoiceDetail is an invoice with its derived monetary state.
type InvoiceDetail struct {
	Invoice   *billing.Invoice       `json:"invoice"`
	Items     []*billing.InvoiceItem `json:"items"`
	Total     decimal.Decimal        `json:"total"`
	Paid      decimal.Decimal        `json:"paid"`
	Remaining decimal.Decimal        `json:"remaining"`
	Settled   bool                   `json:"settled"`
}

// PaymentRecord pairs a rent payment with its ledger transaction.
type PaymentRecord struct {
	Payment     *ledger.RentPayment `json:"payment"`
	Transaction *ledger.Transaction `json:"transaction"`
}

// CreateInvoice creates a Pending invoice whose billing period starts now,
// together with its line items, in one unit of work.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceRecord, error) {
	invoice, err := billing.NewInvoice(req.TenancyID, req.TenantID, time.Now().UTC(), req.DueDate, req.Discount, billing.InvoiceStatusPending, req.Notes)
	if err != nil {
		return nil, err
	}

	items := make([]*billing.InvoiceItem, 0, len(req.Items))
	for _, in := range req.Items {
		item, err := billing.NewInvoiceItem(invoice.ID, in.Description, in.Amount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	err = s.uow.Execute(ctx, func(repos finance.TxRepos) error {
		if err := repos.Invoices().Create(ctx, invoice); err != nil {
			return err
		}
		return repos.InvoiceItems().CreateBatch(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	return &InvoiceRecord{Invoice: invoice, Items: items}, nil
}

// CreateTenancyRequest carries the fields for a new tenancy and its first
// invoice.
type CreateTenancyRequest struct {
	TenantID          uuid.UUID
	PropertyID        uuid.UUID
	SubUnitID         *uuid.UUID
	Start             time.Time
	Renewable         bool
	RenewalPeriodDays int
	Rent              decimal.Decimal
	DueDate           *time.Time
	Discount          *decimal.Decimal
	Notes             string
}

// TenancyRecord is the result of creating a tenancy with its first invoice.
type TenancyRecord struct {
	Tenancy *billing.Tenancy `json:"tenancy"`
	Invoice *InvoiceRecord   `json:"invoice"`
}

// CreateTenancyWithFirstInvoice creates an active tenancy together with
// its first rent invoice in one unit of work. The invoice carries a single
// "New Tenancy Rent" line for the agreed rent.
func (s *InvoiceService) CreateTenancyWithFirstInvoice(ctx context.Context, req CreateTenancyRequest) (*TenancyRecord, error) {
	tenancy, err := billing.NewTenancy(req.TenantID, req.PropertyID, req.SubUnitID, req.Start, req.Renewable, req.RenewalPeriodDays)
	if err != nil {
		return nil, err
	}
	invoice, err := billing.NewInvoice(tenancy.ID, req.TenantID, time.Now().UTC(), req.DueDate, req.Discount, billing.InvoiceStatusPending, req.Notes)
	if err != nil {
		return nil, err
	}
	item, err := billing.NewInvoiceItem(invoice.ID, NewTenancyRentItemDescription, req.Rent)
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(repos finance.TxRepos) error {
		if err := repos.Tenancies().Create(ctx, tenancy); err != nil {
			return err
		}
		if err := repos.Invoices().Create(ctx, invoice); err != nil {
			return err
		}
		return repos.InvoiceItems().Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return &TenancyRecord{
		Tenancy: tenancy,
		Invoice: &InvoiceRecord{Invoice: invoice, Items: []*billing.InvoiceItem{item}},
	}, nil
}

// GetInvoice returns an invoice together with its items and derived
// monetary state.
func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDetail, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListForInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	paid, err := s.payments.SumForInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	total := invoice.Total(items)
	return &InvoiceDetail{
		Invoice:   invoice,
		Items:     items,
		Total:     total,
		Paid:      paid,
		Remaining: total.Sub(paid),
		Settled:   invoice.IsSettled(paid, total, s.tolerance),
	}, nil
}

// Total returns the invoice total: the sum of its line items minus the
// discount.
func (s *InvoiceService) Total(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	detail, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return detail.Total, nil
}

// Remaining returns the invoice total minus the recorded payments.
func (s *InvoiceService) Remaining(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	detail, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return detail.Remaining, nil
}

// IsPaid reports whether the recorded payments cover the invoice total
// beyond the tolerance.
func (s *InvoiceService) IsPaid(ctx context.Context, invoiceID uuid.UUID) (bool, error) {
	detail, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return false, err
	}
	return detail.Settled, nil
}

// ListForTenant returns the tenant's invoices with their derived totals.
func (s *InvoiceService) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*InvoiceDetail, error) {
	invoices, err := s.invoices.ListForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	details := make([]*InvoiceDetail, 0, len(invoices))
	for _, invoice := range invoices {
		detail, err := s.GetInvoice(ctx, invoice.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// PaymentsForInvoice returns every payment recorded against the invoice,
// each paired with its ledger transaction.
func (s *InvoiceService) PaymentsForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*PaymentRecord, error) {
	if _, err := s.invoices.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	payments, err := s.payments.ListForInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	records := make([]*PaymentRecord, 0, len(payments))
	for _, payment := range payments {
		record := &PaymentRecord{Payment: payment}
		txs, err := s.transactions.FindByReference(ctx, ledger.TransactionTypeRentPayment, payment.ID)
		if err != nil {
			return nil, err
		}
		if len(txs) > 0 {
			record.Transaction = txs[0]
		}
		records = append(records, record)
	}
	return records, nil
}

// RefreshStatus recomputes the invoice status from its payments in its
// own retried unit of work.
func (s *InvoiceService) RefreshStatus(ctx context.Context, invoiceID uuid.UUID) error {
	return finance.ExecuteWithRetry(ctx, s.uow, func(repos finance.TxRepos) error {
		return RefreshInvoiceStatus(ctx, repos, invoiceID, s.tolerance)
	})
}

// RefreshInvoiceStatus recomputes and persists the status of one invoice
// inside the caller's unit of work. Payments within the tolerance of the
// total mark the invoice Paid, any other mismatch Outstanding; payments
// exceeding the total beyond the tolerance fail with ALREADY_PAID and
// roll the caller's unit back.
func RefreshInvoiceStatus(ctx context.Context, repos finance.TxRepos, invoiceID uuid.UUID, tolerance decimal.Decimal) error {
	invoice, err := repos.Invoices().FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	items, err := repos.InvoiceItems().ListForInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	paid, err := repos.RentPayments().SumForInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	if err := invoice.Reconcile(paid, invoice.Total(items), tolerance); err != nil {
		return err
	}
	return repos.Invoices().SaveWithLock(ctx, invoice)
}
