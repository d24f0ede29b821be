package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds a monetary account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.MonetaryAccount, error) {
	var model models.MonetaryAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner finds the monetary account owned by the given user
func (r *GormAccountRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*ledger.MonetaryAccount, error) {
	var model models.MonetaryAccountModel
	if err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all monetary accounts
func (r *GormAccountRepository) FindAll(ctx context.Context) ([]*ledger.MonetaryAccount, error) {
	var accountModels []models.MonetaryAccountModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]*ledger.MonetaryAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	return accounts, nil
}

// Save creates or updates a monetary account without a version check
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.MonetaryAccount) error {
	var model models.MonetaryAccountModel
	model.FromDomain(account)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves the account with optimistic locking. The write only
// lands if the stored version still matches the version the aggregate was
// loaded with; otherwise another writer got there first and the caller
// must retry with fresh state.
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *ledger.MonetaryAccount) error {
	var model models.MonetaryAccountModel
	model.FromDomain(account)

	result := r.db.WithContext(ctx).
		Model(&models.MonetaryAccountModel{}).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
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
