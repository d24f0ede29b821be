package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTolerance = decimal.NewFromInt(1)

func TestNewMonetaryAccount(t *testing.T) {
	owner := uuid.New()
	account, err := NewMonetaryAccount("John's Account", owner)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, "John's Account", account.Name)
	require.NotNil(t, account.OwnerUserID)
	assert.Equal(t, owner, *account.OwnerUserID)
	assert.True(t, account.Balance.IsZero())
	assert.Equal(t, valueobject.AED, account.Currency)
	assert.False(t, account.IsHouseAccount())
	assert.Equal(t, 1, account.GetVersion())
}

func TestNewMonetaryAccount_Validation(t *testing.T) {
	_, err := NewMonetaryAccount("", uuid.New())
	assert.Error(t, err)

	_, err = NewMonetaryAccount("Account", uuid.Nil)
	assert.Error(t, err)
}

func TestNewHouseAccount(t *testing.T) {
	id := uuid.New()
	account := NewHouseAccount(id, "Main")

	assert.Equal(t, id, account.ID)
	assert.True(t, account.IsHouseAccount())
}

func TestMonetaryAccount_Credit(t *testing.T) {
	account, err := NewMonetaryAccount("Account", uuid.New())
	require.NoError(t, err)

	require.NoError(t, account.Credit(valueobject.NewMoneyAEDFromFloat(1500)))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 2, account.GetVersion())

	err = account.Credit(valueobject.ZeroAED())
	assert.Error(t, err)

	usd, err := valueobject.NewMoney(decimal.NewFromInt(10), valueobject.USD)
	require.NoError(t, err)
	err = account.Credit(usd)
	assert.Error(t, err)
}

func TestMonetaryAccount_Debit(t *testing.T) {
	account, err := NewMonetaryAccount("Account", uuid.New())
	require.NoError(t, err)
	require.NoError(t, account.Credit(valueobject.NewMoneyAEDFromFloat(100)))

	require.NoError(t, account.Debit(valueobject.NewMoneyAEDFromFloat(40), testTolerance))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(60)))
}

func TestMonetaryAccount_Debit_Tolerance(t *testing.T) {
	// Balance 100, tolerance 1: a debit of 101 is still allowed and the
	// balance goes slightly negative, while 101.01 is rejected.
	account, err := NewMonetaryAccount("Account", uuid.New())
	require.NoError(t, err)
	require.NoError(t, account.Credit(valueobject.NewMoneyAEDFromFloat(100)))

	require.NoError(t, account.Debit(valueobject.NewMoneyAEDFromFloat(101), testTolerance))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(-1)))

	other, err := NewMonetaryAccount("Other", uuid.New())
	require.NoError(t, err)
	require.NoError(t, other.Credit(valueobject.NewMoneyAEDFromFloat(100)))

	err = other.Debit(valueobject.NewMoneyAEDFromFloat(101.01), testTolerance)
	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_FUNDS", shared.CodeOf(err))
	assert.True(t, other.Balance.Equal(decimal.NewFromInt(100)), "rejected debit must not move the balance")
}

func TestMonetaryAccount_Close(t *testing.T) {
	account, err := NewMonetaryAccount("Account", uuid.New())
	require.NoError(t, err)
	require.NoError(t, account.Credit(valueobject.NewMoneyAEDFromFloat(50)))

	require.NoError(t, account.Close())
	assert.True(t, account.Closed)
	assert.NotNil(t, account.ClosedAt)

	assert.Error(t, account.Close())
	assert.Error(t, account.Credit(valueobject.NewMoneyAEDFromFloat(10)))
	assert.Error(t, account.Debit(valueobject.NewMoneyAEDFromFloat(10), testTolerance))
}
