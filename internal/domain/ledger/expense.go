package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultExpenseCategory is assigned when the caller supplies no category.
const DefaultExpenseCategory = "No Category"

// Expense records money spent from an account, optionally attributed to a
// property. Like payments it is an immutable fact.
type Expense struct {
	shared.BaseEntity
	PropertyID      *uuid.UUID
	PayingAccountID uuid.UUID
	PaidBy          uuid.UUID
	Category        string
	Description     string
	Amount          decimal.Decimal
	Currency        valueobject.Currency
	SpentAt         time.Time
}

// NewExpense creates an expense record. PropertyID may be nil for general
// overhead not tied to a property.
func NewExpense(propertyID *uuid.UUID, payingAccountID, paidBy uuid.UUID, category, description string, amount valueobject.Money) (*Expense, error) {
	if payingAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Paying account ID cannot be empty")
	}
	if paidBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Paying user ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if category == "" {
		category = DefaultExpenseCategory
	}
	if propertyID != nil && *propertyID == uuid.Nil {
		propertyID = nil
	}
	return &Expense{
		BaseEntity:      shared.NewBaseEntity(),
		PropertyID:      propertyID,
		PayingAccountID: payingAccountID,
		PaidBy:          paidBy,
		Category:        category,
		Description:     description,
		Amount:          amount.Amount(),
		Currency:        amount.Currency(),
		SpentAt:         time.Now().UTC(),
	}, nil
}

// AmountMoney returns the expense amount as a Money value object.
func (e *Expense) AmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(e.Amount, e.Currency)
	return m
}
