package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceItemRepository implements billing.InvoiceItemRepository using GORM
type GormInvoiceItemRepository struct {
	db *gorm.DB
}

// NewGormInvoiceItemRepository creates a new GormInvoiceItemRepository
func NewGormInvoiceItemRepository(db *gorm.DB) *GormInvoiceItemRepository {
	return &GormInvoiceItemRepository{db: db}
}

// Create stores a new invoice item
func (r *GormInvoiceItemRepository) Create(ctx context.Context, item *billing.InvoiceItem) error {
	var model models.InvoiceItemModel
	model.FromDomain(item)
	return r.db.WithContext(ctx).Create(&model).Error
}

// CreateBatch stores a set of invoice items in one insert
func (r *GormInvoiceItemRepository) CreateBatch(ctx context.Context, items []*billing.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	itemModels := make([]models.InvoiceItemModel, len(items))
	for i, item := range items {
		itemModels[i].FromDomain(item)
	}
	return r.db.WithContext(ctx).Create(&itemModels).Error
}

// ListForInvoice returns the line items of an invoice
func (r *GormInvoiceItemRepository) ListForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.InvoiceItem, error) {
	return r.listWhere(ctx, "invoice_id = ?", invoiceID)
}

// ListForInvoices returns the line items across a set of invoices
func (r *GormInvoiceItemRepository) ListForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) ([]*billing.InvoiceItem, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	return r.listWhere(ctx, "invoice_id IN ?", invoiceIDs)
}

func (r *GormInvoiceItemRepository) listWhere(ctx context.Context, cond string, args ...any) ([]*billing.InvoiceItem, error) {
	var itemModels []models.InvoiceItemModel
	if err := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]*billing.InvoiceItem, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items, nil
}
