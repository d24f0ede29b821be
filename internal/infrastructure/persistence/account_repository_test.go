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

func TestGormAccountRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	account, err := ledger.NewMonetaryAccount("Test Account", owner)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, account))

	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Name, found.Name)
	assert.True(t, found.Balance.IsZero())

	byOwner, err := repo.FindByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, account.ID, byOwner.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAccountRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	account, err := ledger.NewMonetaryAccount("Locked Account", uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, account))

	// Two readers load the same version.
	first, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)

	require.NoError(t, first.Credit(valueobject.NewMoneyAEDFromFloat(100)))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.Credit(valueobject.NewMoneyAEDFromFloat(50)))
	err = repo.SaveWithLock(ctx, second)
	require.Error(t, err)
	assert.Equal(t, "CONCURRENCY_CONFLICT", shared.CodeOf(err))

	// The stale write must not have landed.
	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, stored.Version)
}

func TestGormAccountRepository_SaveWithLock_PersistsClosedFlag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	account, err := ledger.NewMonetaryAccount("Closing", uuid.New())
	require.NoError(t, err)
	require.NoError(t, account.Credit(valueobject.NewMoneyAEDFromFloat(10)))
	require.NoError(t, repo.Save(ctx, account))

	require.NoError(t, account.Close())
	require.NoError(t, repo.SaveWithLock(ctx, account))

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Closed)
	assert.NotNil(t, stored.ClosedAt)
}
