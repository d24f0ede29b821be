package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create stores a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// LatestForTenancy returns the most recently created invoice of the tenancy
func (r *GormInvoiceRepository) LatestForTenancy(ctx context.Context, tenancyID uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenancy_id = ?", tenancyID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForTenancy returns the invoices of a tenancy, newest first
func (r *GormInvoiceRepository) ListForTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*billing.Invoice, error) {
	return r.listWhere(ctx, "tenancy_id = ?", tenancyID)
}

// ListForTenant returns the invoices of a tenant, newest first
func (r *GormInvoiceRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*billing.Invoice, error) {
	return r.listWhere(ctx, "tenant_id = ?", tenantID)
}

// ListForTenantByStatus returns the tenant invoices in any of the given statuses
func (r *GormInvoiceRepository) ListForTenantByStatus(ctx context.Context, tenantID uuid.UUID, statuses []billing.InvoiceStatus) ([]*billing.Invoice, error) {
	return r.listWhere(ctx, "tenant_id = ? AND status IN ?", tenantID, statuses)
}

// ListForTenanciesByStatus returns the invoices of a set of tenancies in
// any of the given statuses
func (r *GormInvoiceRepository) ListForTenanciesByStatus(ctx context.Context, tenancyIDs []uuid.UUID, statuses []billing.InvoiceStatus) ([]*billing.Invoice, error) {
	if len(tenancyIDs) == 0 {
		return nil, nil
	}
	return r.listWhere(ctx, "tenancy_id IN ? AND status IN ?", tenancyIDs, statuses)
}

// Save creates or updates an invoice without a version check
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves the invoice with optimistic locking. Concurrent
// payment recordings race on the invoice version; exactly one commits and
// the rest retry against the reconciled state.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)

	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Select("*").
		Updates(&model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormInvoiceRepository) listWhere(ctx context.Context, cond string, args ...any) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("created_at DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}
