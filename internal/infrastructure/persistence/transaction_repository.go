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

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *GormTransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	var model models.TransactionModel
	model.FromDomain(tx)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference returns the transactions of the given type that point
// at the given business record
func (r *GormTransactionRepository) FindByReference(ctx context.Context, t ledger.TransactionType, referenceID uuid.UUID) ([]*ledger.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("type = ? AND reference_id = ?", t, referenceID).
		Order("created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// ListForAccount returns transactions touching the account, newest first
func (r *GormTransactionRepository) ListForAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.db.WithContext(ctx).
		Where("source_account_id = ? OR destination_account_id = ?", accountID, accountID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// SumCredited sums the amounts credited to the account over its history
func (r *GormTransactionRepository) SumCredited(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	return r.sumAmount(ctx, "destination_account_id", accountID)
}

// SumDebited sums the amounts debited from the account over its history
func (r *GormTransactionRepository) SumDebited(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	return r.sumAmount(ctx, "source_account_id", accountID)
}

func (r *GormTransactionRepository) sumAmount(ctx context.Context, column string, accountID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where(column+" = ?", accountID).
		Select("SUM(amount)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func toDomainTransactions(txModels []models.TransactionModel) []*ledger.Transaction {
	txs := make([]*ledger.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = txModels[i].ToDomain()
	}
	return txs
}
