package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// openStatuses are the invoice states that count towards outstanding
// balances.
var openStatuses = []billing.InvoiceStatus{
	billing.InvoiceStatusPending,
	billing.InvoiceStatusOutstanding,
}

// OutstandingService answers read-only dashboard questions about unpaid
// rent. It never mutates anything.
type OutstandingService struct {
	invoices  billing.InvoiceRepository
	items     billing.InvoiceItemRepository
	payments  ledger.RentPaymentRepository
	tenancies billing.TenancyRepository
}

// NewOutstandingService creates a new OutstandingService.
func NewOutstandingService(
	invoices billing.InvoiceRepository,
	items billing.InvoiceItemRepository,
	payments ledger.RentPaymentRepository,
	tenancies billing.TenancyRepository,
) *OutstandingService {
	return &OutstandingService{
		invoices:  invoices,
		items:     items,
		payments:  payments,
		tenancies: tenancies,
	}
}

// TenantOutstanding reports whether a tenant has open invoices and their
// combined total.
type TenantOutstanding struct {
	Outstanding bool            `json:"outstanding"`
	Amount      decimal.Decimal `json:"amount"`
}

// TenantOutstanding sums the totals of the tenant's Pending and
// Outstanding invoices. The flag is set when any open invoice exists,
// even one with a zero total.
func (s *OutstandingService) TenantOutstanding(ctx context.Context, tenantID uuid.UUID) (*TenantOutstanding, error) {
	invoices, err := s.invoices.ListForTenantByStatus(ctx, tenantID, openStatuses)
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	for _, invoice := range invoices {
		total, err := s.invoiceTotal(ctx, invoice)
		if err != nil {
			return nil, err
		}
		amount = amount.Add(total)
	}

	return &TenantOutstanding{
		Outstanding: len(invoices) > 0,
		Amount:      amount,
	}, nil
}

// TenancyOutstanding sums the remaining amounts (total minus payments) of
// the tenancy's Pending and Outstanding invoices.
func (s *OutstandingService) TenancyOutstanding(ctx context.Context, tenancyID uuid.UUID) (decimal.Decimal, error) {
	return s.remainingForTenancies(ctx, []uuid.UUID{tenancyID})
}

// PropertyOutstanding sums the remaining amounts over the open invoices
// of every tenancy of the property.
func (s *OutstandingService) PropertyOutstanding(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error) {
	tenancies, err := s.tenancies.ListForProperty(ctx, propertyID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(tenancies) == 0 {
		return decimal.Zero, nil
	}
	ids := make([]uuid.UUID, 0, len(tenancies))
	for _, t := range tenancies {
		ids = append(ids, t.ID)
	}
	return s.remainingForTenancies(ctx, ids)
}

// TenantTotalPaidRent sums every payment recorded against the tenancy's
// invoices.
func (s *OutstandingService) TenantTotalPaidRent(ctx context.Context, tenancyID uuid.UUID) (decimal.Decimal, error) {
	invoiceIDs, err := s.invoiceIDsForTenancy(ctx, tenancyID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.payments.SumForInvoices(ctx, invoiceIDs)
}

// TenantLastPayment returns the most recent payment against any of the
// tenancy's invoices, or nil when none has been recorded yet.
func (s *OutstandingService) TenantLastPayment(ctx context.Context, tenancyID uuid.UUID) (*ledger.RentPayment, error) {
	invoiceIDs, err := s.invoiceIDsForTenancy(ctx, tenancyID)
	if err != nil {
		return nil, err
	}
	payment, err := s.payments.LatestForInvoices(ctx, invoiceIDs)
	if err != nil {
		if shared.IsCode(err, "NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

func (s *OutstandingService) invoiceIDsForTenancy(ctx context.Context, tenancyID uuid.UUID) ([]uuid.UUID, error) {
	invoices, err := s.invoices.ListForTenancy(ctx, tenancyID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(invoices))
	for _, invoice := range invoices {
		ids = append(ids, invoice.ID)
	}
	return ids, nil
}

func (s *OutstandingService) remainingForTenancies(ctx context.Context, tenancyIDs []uuid.UUID) (decimal.Decimal, error) {
	invoices, err := s.invoices.ListForTenanciesByStatus(ctx, tenancyIDs, openStatuses)
	if err != nil {
		return decimal.Zero, err
	}

	remaining := decimal.Zero
	for _, invoice := range invoices {
		total, err := s.invoiceTotal(ctx, invoice)
		if err != nil {
			return decimal.Zero, err
		}
		paid, err := s.payments.SumForInvoice(ctx, invoice.ID)
		if err != nil {
			return decimal.Zero, err
		}
		remaining = remaining.Add(total.Sub(paid))
	}
	return remaining, nil
}

func (s *OutstandingService) invoiceTotal(ctx context.Context, invoice *billing.Invoice) (decimal.Decimal, error) {
	items, err := s.items.ListForInvoice(ctx, invoice.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return invoice.Total(items), nil
}
