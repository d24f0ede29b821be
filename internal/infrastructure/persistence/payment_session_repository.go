package persistence

import (
	"context"
	"errors"

	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentSessionRepository implements ledger.PaymentSessionRepository using GORM
type GormPaymentSessionRepository struct {
	db *gorm.DB
}

// NewGormPaymentSessionRepository creates a new GormPaymentSessionRepository
func NewGormPaymentSessionRepository(db *gorm.DB) *GormPaymentSessionRepository {
	return &GormPaymentSessionRepository{db: db}
}

// Create stores a new checkout session
func (r *GormPaymentSessionRepository) Create(ctx context.Context, session *ledger.PaymentSession) error {
	var model models.PaymentSessionModel
	model.FromDomain(session)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindBySessionID finds a session by its gateway session ID
func (r *GormPaymentSessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*ledger.PaymentSession, error) {
	var model models.PaymentSessionModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveWithLock saves the session with optimistic locking. Two webhook
// deliveries racing to complete the same session serialize here: the
// loser gets CONCURRENCY_CONFLICT and on retry sees the session already
// completed.
func (r *GormPaymentSessionRepository) SaveWithLock(ctx context.Context, session *ledger.PaymentSession) error {
	var model models.PaymentSessionModel
	model.FromDomain(session)

	result := r.db.WithContext(ctx).
		Model(&models.PaymentSessionModel{}).
		Where("id = ? AND version = ?", session.ID, session.Version-1).
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
