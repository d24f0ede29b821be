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

// GormExpenseRepository implements ledger.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Create appends an expense record
func (r *GormExpenseRepository) Create(ctx context.Context, expense *ledger.Expense) error {
	var model models.ExpenseModel
	model.FromDomain(expense)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForProperty returns the expenses attributed to a property, newest first
func (r *GormExpenseRepository) ListForProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*ledger.Expense, error) {
	return r.listWhere(ctx, limit, offset, "property_id = ?", propertyID)
}

// ListForAccount returns the expenses paid from an account, newest first
func (r *GormExpenseRepository) ListForAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Expense, error) {
	return r.listWhere(ctx, limit, offset, "paying_account_id = ?", accountID)
}

func (r *GormExpenseRepository) listWhere(ctx context.Context, limit, offset int, cond string, args ...any) ([]*ledger.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("spent_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]*ledger.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = expenseModels[i].ToDomain()
	}
	return expenses, nil
}
