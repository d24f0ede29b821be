package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormRentPaymentRepository implements ledger.RentPaymentRepository using GORM
type GormRentPaymentRepository struct {
	db *gorm.DB
}

// NewGormRentPaymentRepository creates a new GormRentPaymentRepository
func NewGormRentPaymentRepository(db *gorm.DB) *GormRentPaymentRepository {
	return &GormRentPaymentRepository{db: db}
}

// Create appends a rent payment record
func (r *GormRentPaymentRepository) Create(ctx context.Context, payment *ledger.RentPayment) error {
	var model models.RentPaymentModel
	model.FromDomain(payment)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByID finds a rent payment by its ID
func (r *GormRentPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.RentPayment, error) {
	var model models.RentPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForInvoice returns the payments recorded against the invoice
func (r *GormRentPaymentRepository) ListForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*ledger.RentPayment, error) {
	var paymentModels []models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainRentPayments(paymentModels), nil
}

// ListForTenant returns all payments of a tenant, newest first
func (r *GormRentPaymentRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*ledger.RentPayment, error) {
	var paymentModels []models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("paid_at DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainRentPayments(paymentModels), nil
}

// SumForInvoice sums the payment amounts recorded against the invoice
func (r *GormRentPaymentRepository) SumForInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "invoice_id = ?", invoiceID)
}

// SumForInvoices sums the payment amounts across a set of invoices
func (r *GormRentPaymentRepository) SumForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) (decimal.Decimal, error) {
	if len(invoiceIDs) == 0 {
		return decimal.Zero, nil
	}
	return r.sumWhere(ctx, "invoice_id IN ?", invoiceIDs)
}

// SumForTenant sums all payment amounts of a tenant
func (r *GormRentPaymentRepository) SumForTenant(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "tenant_id = ?", tenantID)
}

// LatestForInvoices returns the most recent payment across a set of
// invoices, or NOT_FOUND when none of them has a payment
func (r *GormRentPaymentRepository) LatestForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) (*ledger.RentPayment, error) {
	if len(invoiceIDs) == 0 {
		return nil, shared.ErrNotFound
	}
	var model models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIDs).
		Order("paid_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormRentPaymentRepository) sumWhere(ctx context.Context, cond string, args ...any) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.RentPaymentModel{}).
		Where(cond, args...).
		Select("SUM(amount)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func toDomainRentPayments(paymentModels []models.RentPaymentModel) []*ledger.RentPayment {
	payments := make([]*ledger.RentPayment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToDomain()
	}
	return payments
}
