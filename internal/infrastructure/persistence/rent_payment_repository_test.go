package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPayment(t *testing.T, repo *GormRentPaymentRepository, invoiceID *uuid.UUID, tenantID uuid.UUID, amount float64) *ledger.RentPayment {
	t.Helper()
	payment, err := ledger.NewRentPayment(invoiceID, tenantID, uuid.New(), uuid.New(),
		valueobject.NewMoneyAEDFromFloat(amount), ledger.PaymentMethodCash)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), payment))
	return payment
}

func TestGormRentPaymentRepository_SumForInvoice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRentPaymentRepository(db)
	ctx := context.Background()

	invoiceID := uuid.New()
	otherInvoice := uuid.New()
	tenantID := uuid.New()

	createPayment(t, repo, &invoiceID, tenantID, 400)
	createPayment(t, repo, &invoiceID, tenantID, 700)
	createPayment(t, repo, &otherInvoice, tenantID, 999)

	sum, err := repo.SumForInvoice(ctx, invoiceID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(1100)))

	sum, err = repo.SumForInvoice(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, sum.IsZero(), "no payments must sum to zero, not error")
}

func TestGormRentPaymentRepository_SumForInvoices(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRentPaymentRepository(db)
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	tenantID := uuid.New()
	createPayment(t, repo, &a, tenantID, 100)
	createPayment(t, repo, &b, tenantID, 200)

	sum, err := repo.SumForInvoices(ctx, []uuid.UUID{a, b})
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(300)))

	sum, err = repo.SumForInvoices(ctx, nil)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestGormRentPaymentRepository_LatestForInvoices(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRentPaymentRepository(db)
	ctx := context.Background()

	invoiceID := uuid.New()
	tenantID := uuid.New()
	createPayment(t, repo, &invoiceID, tenantID, 100)
	latest := createPayment(t, repo, &invoiceID, tenantID, 200)

	got, err := repo.LatestForInvoices(ctx, []uuid.UUID{invoiceID})
	require.NoError(t, err)
	assert.Equal(t, latest.ID, got.ID)

	_, err = repo.LatestForInvoices(ctx, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.LatestForInvoices(ctx, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormRentPaymentRepository_ListForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRentPaymentRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	invoiceID := uuid.New()
	createPayment(t, repo, &invoiceID, tenantID, 100)
	createPayment(t, repo, nil, tenantID, 50)
	createPayment(t, repo, nil, uuid.New(), 75)

	payments, err := repo.ListForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	sum, err := repo.SumForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(150)))
}
