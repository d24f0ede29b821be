package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository persists invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// LatestForTenancy returns the most recently created invoice of the
	// tenancy, or NOT_FOUND if it has none.
	LatestForTenancy(ctx context.Context, tenancyID uuid.UUID) (*Invoice, error)
	ListForTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*Invoice, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*Invoice, error)
	ListForTenantByStatus(ctx context.Context, tenantID uuid.UUID, statuses []InvoiceStatus) ([]*Invoice, error)
	ListForTenanciesByStatus(ctx context.Context, tenancyIDs []uuid.UUID, statuses []InvoiceStatus) ([]*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists the invoice only if its stored version still
	// matches the loaded one, returning CONCURRENCY_CONFLICT otherwise.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}

// InvoiceItemRepository persists invoice line items.
type InvoiceItemRepository interface {
	Create(ctx context.Context, item *InvoiceItem) error
	CreateBatch(ctx context.Context, items []*InvoiceItem) error
	ListForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceItem, error)
	ListForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) ([]*InvoiceItem, error)
}

// TenancyRepository persists tenancies.
type TenancyRepository interface {
	Create(ctx context.Context, tenancy *Tenancy) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenancy, error)
	ListRenewable(ctx context.Context) ([]*Tenancy, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*Tenancy, error)
	ListForProperty(ctx context.Context, propertyID uuid.UUID) ([]*Tenancy, error)
	Save(ctx context.Context, tenancy *Tenancy) error
}
