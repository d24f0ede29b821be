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

// GormTenancyRepository implements billing.TenancyRepository using GORM
type GormTenancyRepository struct {
	db *gorm.DB
}

// NewGormTenancyRepository creates a new GormTenancyRepository
func NewGormTenancyRepository(db *gorm.DB) *GormTenancyRepository {
	return &GormTenancyRepository{db: db}
}

// Create stores a new tenancy
func (r *GormTenancyRepository) Create(ctx context.Context, tenancy *billing.Tenancy) error {
	var model models.TenancyModel
	model.FromDomain(tenancy)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByID finds a tenancy by its ID
func (r *GormTenancyRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Tenancy, error) {
	var model models.TenancyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListRenewable returns the tenancies with renewal enabled
func (r *GormTenancyRepository) ListRenewable(ctx context.Context) ([]*billing.Tenancy, error) {
	return r.listWhere(ctx, "renewable = ?", true)
}

// ListForTenant returns the tenancies of a tenant
func (r *GormTenancyRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*billing.Tenancy, error) {
	return r.listWhere(ctx, "tenant_id = ?", tenantID)
}

// ListForProperty returns the tenancies on a property
func (r *GormTenancyRepository) ListForProperty(ctx context.Context, propertyID uuid.UUID) ([]*billing.Tenancy, error) {
	return r.listWhere(ctx, "property_id = ?", propertyID)
}

// Save creates or updates a tenancy
func (r *GormTenancyRepository) Save(ctx context.Context, tenancy *billing.Tenancy) error {
	var model models.TenancyModel
	model.FromDomain(tenancy)
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormTenancyRepository) listWhere(ctx context.Context, cond string, args ...any) ([]*billing.Tenancy, error) {
	var tenancyModels []models.TenancyModel
	if err := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("created_at ASC").
		Find(&tenancyModels).Error; err != nil {
		return nil, err
	}
	tenancies := make([]*billing.Tenancy, len(tenancyModels))
	for i := range tenancyModels {
		tenancies[i] = tenancyModels[i].ToDomain()
	}
	return tenancies, nil
}
