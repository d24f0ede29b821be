package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MonetaryAccount is an aggregate root holding the cached balance of one
// account. The balance is a projection of ledger history: at every point
// in time it equals the sum of credited amounts minus the sum of debited
// amounts across all committed Transactions referencing the account.
// Accounts are never deleted; retired accounts are closed instead.
type MonetaryAccount struct {
	shared.BaseAggregateRoot
	Name        string
	OwnerUserID *uuid.UUID
	Balance     decimal.Decimal
	Currency    valueobject.Currency
	Closed      bool
	ClosedAt    *time.Time
}

// NewMonetaryAccount creates a user-owned monetary account with a zero balance.
func NewMonetaryAccount(name string, ownerUserID uuid.UUID) (*MonetaryAccount, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if ownerUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner user ID cannot be empty")
	}
	owner := ownerUserID
	return &MonetaryAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		OwnerUserID:       &owner,
		Balance:           decimal.Zero,
		Currency:          valueobject.DefaultCurrency,
	}, nil
}

// NewHouseAccount creates one of the fixed system accounts ("Main",
// "Gateway") under a well-known ID so that payment routing can reference
// it without a lookup by name.
func NewHouseAccount(id uuid.UUID, name string) *MonetaryAccount {
	a := &MonetaryAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Balance:           decimal.Zero,
		Currency:          valueobject.DefaultCurrency,
	}
	a.ID = id
	return a
}

// Credit adds amount to the account balance.
func (a *MonetaryAccount) Credit(amount valueobject.Money) error {
	if a.Closed {
		return shared.NewDomainError("ACCOUNT_CLOSED", "Cannot credit a closed account")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	if amount.Currency() != a.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Account is denominated in %s, got %s", a.Currency, amount.Currency()))
	}
	a.Balance = a.Balance.Add(amount.Amount())
	a.UpdatedAt = time.Now().UTC()
	a.IncrementVersion()
	return nil
}

// Debit subtracts amount from the account balance. The debit is rejected
// with INSUFFICIENT_FUNDS when the balance would fall below zero beyond
// the given tolerance.
func (a *MonetaryAccount) Debit(amount valueobject.Money, tolerance decimal.Decimal) error {
	if a.Closed {
		return shared.NewDomainError("ACCOUNT_CLOSED", "Cannot debit a closed account")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if amount.Currency() != a.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Account is denominated in %s, got %s", a.Currency, amount.Currency()))
	}
	if a.Balance.LessThan(amount.Amount().Sub(tolerance)) {
		return shared.NewDomainError("INSUFFICIENT_FUNDS",
			fmt.Sprintf("Insufficient balance in account %q: available %s, required %s",
				a.Name, a.Balance.StringFixed(2), amount.Amount().StringFixed(2)))
	}
	a.Balance = a.Balance.Sub(amount.Amount())
	a.UpdatedAt = time.Now().UTC()
	a.IncrementVersion()
	return nil
}

// Close marks the account as closed. Closed accounts keep their history
// and balance but reject further ledger movement.
func (a *MonetaryAccount) Close() error {
	if a.Closed {
		return shared.NewDomainError("INVALID_STATE", "Account is already closed")
	}
	now := time.Now().UTC()
	a.Closed = true
	a.ClosedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}

// BalanceMoney returns the balance as a Money value object.
func (a *MonetaryAccount) BalanceMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(a.Balance, a.Currency)
	return m
}

// IsHouseAccount reports whether the account belongs to the system rather
// than a user.
func (a *MonetaryAccount) IsHouseAccount() bool {
	return a.OwnerUserID == nil
}
