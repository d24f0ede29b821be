package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransfer_MovesMoneyBetweenAccounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caretaker := uuid.New()
	account := env.createOwnedAccount(t, caretaker, 800)

	tx, err := env.transfers.RecordTransfer(ctx, TransferRequest{
		SourceAccountID:      account.ID,
		DestinationAccountID: env.routing.MainAccountID,
		Amount:               decimal.NewFromInt(300),
		Description:          "Weekly cash deposit",
	})
	require.NoError(t, err)

	assert.Equal(t, ledger.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, uuid.Nil, tx.ReferenceID)
	assert.True(t, env.accountBalance(t, account.ID).Equal(decimal.NewFromInt(500)))
	assert.True(t, env.accountBalance(t, env.routing.MainAccountID).Equal(decimal.NewFromInt(300)))

	stored, err := env.txs.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly cash deposit", stored.Description)
}

func TestRecordTransfer_InsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	account := env.createOwnedAccount(t, uuid.New(), 100)

	_, err := env.transfers.RecordTransfer(ctx, TransferRequest{
		SourceAccountID:      account.ID,
		DestinationAccountID: env.routing.MainAccountID,
		Amount:               decimal.NewFromInt(5000),
	})
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, "INSUFFICIENT_FUNDS"))

	assert.True(t, env.accountBalance(t, account.ID).Equal(decimal.NewFromInt(100)))
	assert.True(t, env.accountBalance(t, env.routing.MainAccountID).IsZero())
	txs, err := env.txs.ListForAccount(ctx, account.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRecordTransfer_RejectsSameAccount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.transfers.RecordTransfer(context.Background(), TransferRequest{
		SourceAccountID:      env.routing.MainAccountID,
		DestinationAccountID: env.routing.MainAccountID,
		Amount:               decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, "INVALID_INPUT"))
}

func TestRecordTransfer_RejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.transfers.RecordTransfer(context.Background(), TransferRequest{
		SourceAccountID:      env.routing.MainAccountID,
		DestinationAccountID: env.routing.GatewayAccountID,
		Amount:               decimal.Zero,
	})
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, "INVALID_AMOUNT"))
}
