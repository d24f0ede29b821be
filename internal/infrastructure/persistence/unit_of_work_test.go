package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUnitOfWork_Commit(t *testing.T) {
	db := setupTestDB(t)
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	account, err := ledger.NewMonetaryAccount("Committed", uuid.New())
	require.NoError(t, err)

	err = uow.Execute(ctx, func(repos finance.TxRepos) error {
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		tx, err := ledger.NewRentPaymentTransaction(uuid.New(), account.ID, valueobject.NewMoneyAEDFromFloat(10))
		if err != nil {
			return err
		}
		return repos.Transactions().Create(ctx, tx)
	})
	require.NoError(t, err)

	stored, err := NewGormAccountRepository(db).FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Committed", stored.Name)

	txs, err := NewGormTransactionRepository(db).ListForAccount(ctx, account.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestGormUnitOfWork_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	account, err := ledger.NewMonetaryAccount("Rolled Back", uuid.New())
	require.NoError(t, err)

	boom := shared.NewDomainError("INVALID_STATE", "forced failure")
	err = uow.Execute(ctx, func(repos finance.TxRepos) error {
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", shared.CodeOf(err))

	_, err = NewGormAccountRepository(db).FindByID(ctx, account.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "rolled back writes must not be visible")
}

func TestExecuteWithRetry_RetriesOnConflict(t *testing.T) {
	db := setupTestDB(t)
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	account, err := ledger.NewMonetaryAccount("Contended", uuid.New())
	require.NoError(t, err)
	require.NoError(t, NewGormAccountRepository(db).Save(ctx, account))

	// Simulate holding a stale copy on the first attempt: the extra
	// version bump makes the locked write miss its row exactly as if
	// another writer had won the race.
	attempts := 0

	err = finance.ExecuteWithRetry(ctx, uow, func(repos finance.TxRepos) error {
		attempts++
		loaded, err := repos.Accounts().FindByID(ctx, account.ID)
		if err != nil {
			return err
		}
		if err := loaded.Credit(valueobject.NewMoneyAEDFromFloat(100)); err != nil {
			return err
		}
		if attempts == 1 {
			loaded.IncrementVersion()
		}
		return repos.Accounts().SaveWithLock(ctx, loaded)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	stored, err := NewGormAccountRepository(db).FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(100)), "only the successful attempt may land")
}

func TestExecuteWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	attempts := 0
	err := finance.ExecuteWithRetry(ctx, uow, func(repos finance.TxRepos) error {
		attempts++
		return shared.ErrConcurrencyConflict
	})
	require.Error(t, err)
	assert.Equal(t, "CONCURRENCY_CONFLICT", shared.CodeOf(err))
	assert.Equal(t, 3, attempts)
}

func TestGormInvoiceRepository_LatestForTenancy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenancyID := uuid.New()
	tenantID := uuid.New()

	older, err := billing.NewInvoice(tenancyID, tenantID, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, nil, "", "")
	require.NoError(t, err)
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older))

	newer, err := billing.NewInvoice(tenancyID, tenantID, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), nil, nil, "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, newer))

	latest, err := repo.LatestForTenancy(ctx, tenancyID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	_, err = repo.LatestForTenancy(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_SaveWithLock_Conflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	invoice, err := billing.NewInvoice(uuid.New(), uuid.New(), time.Now(), nil, nil, "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, invoice))

	first, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)

	total := decimal.NewFromInt(1100)
	require.NoError(t, first.Reconcile(decimal.NewFromInt(1100), total, decimal.NewFromInt(1)))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.Reconcile(decimal.NewFromInt(500), total, decimal.NewFromInt(1)))
	err = repo.SaveWithLock(ctx, second)
	require.Error(t, err)
	assert.Equal(t, "CONCURRENCY_CONFLICT", shared.CodeOf(err))

	stored, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, stored.Status)
}
