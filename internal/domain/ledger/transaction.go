package ledger

import (
	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TransactionType discriminates the kinds of ledger movement. The type
// decides how ReferenceID is interpreted and which account sides must be
// present.
type TransactionType string

const (
	// TransactionTypeTransfer moves money between two accounts with no
	// business document attached.
	TransactionTypeTransfer TransactionType = "Transfer"
	// TransactionTypeRentPayment credits a receiver account; ReferenceID
	// points at the RentPayment record.
	TransactionTypeRentPayment TransactionType = "RentPayment"
	// TransactionTypeExpense debits a paying account; ReferenceID points
	// at the Expense record.
	TransactionTypeExpense TransactionType = "Expense"
	// TransactionTypeReturnedRent debits an account to reverse a rent
	// payment; ReferenceID points at the original RentPayment record.
	TransactionTypeReturnedRent TransactionType = "ReturnedRent"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeTransfer, TransactionTypeRentPayment,
		TransactionTypeExpense, TransactionTypeReturnedRent:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry. Once created it is never
// updated or deleted; corrections happen through compensating entries.
// At least one of SourceAccountID and DestinationAccountID is set: the
// source side is debited and the destination side is credited.
type Transaction struct {
	shared.BaseEntity
	Type                 TransactionType
	ReferenceID          uuid.UUID
	SourceAccountID      *uuid.UUID
	DestinationAccountID *uuid.UUID
	Amount               decimal.Decimal
	Currency             valueobject.Currency
	Description          string
}

func newTransaction(t TransactionType, referenceID uuid.UUID, source, destination *uuid.UUID, amount valueobject.Money, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if source == nil && destination == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction must reference at least one account")
	}
	if source != nil && destination != nil && *source == *destination {
		return nil, shared.NewDomainError("INVALID_INPUT", "Source and destination accounts must differ")
	}
	return &Transaction{
		BaseEntity:           shared.NewBaseEntity(),
		Type:                 t,
		ReferenceID:          referenceID,
		SourceAccountID:      source,
		DestinationAccountID: destination,
		Amount:               amount.Amount(),
		Currency:             amount.Currency(),
		Description:          description,
	}, nil
}

// NewTransfer creates a transfer entry moving amount from source to
// destination. Both account sides are required.
func NewTransfer(source, destination uuid.UUID, amount valueobject.Money, description string) (*Transaction, error) {
	if source == uuid.Nil || destination == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transfer requires both source and destination accounts")
	}
	return newTransaction(TransactionTypeTransfer, uuid.Nil, &source, &destination, amount, description)
}

// NewRentPaymentTransaction creates the ledger entry crediting the
// receiver account for a recorded rent payment.
func NewRentPaymentTransaction(rentPaymentID, destination uuid.UUID, amount valueobject.Money) (*Transaction, error) {
	if rentPaymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rent payment reference cannot be empty")
	}
	if destination == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rent payment requires a destination account")
	}
	return newTransaction(TransactionTypeRentPayment, rentPaymentID, nil, &destination, amount, "")
}

// NewExpenseTransaction creates the ledger entry debiting the paying
// account for a recorded expense.
func NewExpenseTransaction(expenseID, source uuid.UUID, amount valueobject.Money) (*Transaction, error) {
	if expenseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense reference cannot be empty")
	}
	if source == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense requires a source account")
	}
	return newTransaction(TransactionTypeExpense, expenseID, &source, nil, amount, "")
}

// NewReturnedRentTransaction creates the ledger entry debiting an account
// to reverse a previously recorded rent payment.
func NewReturnedRentTransaction(rentPaymentID, source uuid.UUID, amount valueobject.Money) (*Transaction, error) {
	if rentPaymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rent payment reference cannot be empty")
	}
	if source == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Returned rent requires a source account")
	}
	return newTransaction(TransactionTypeReturnedRent, rentPaymentID, &source, nil, amount, "")
}

// RentPaymentID returns the referenced rent payment when the transaction
// type carries one.
func (t *Transaction) RentPaymentID() (uuid.UUID, bool) {
	if t.Type == TransactionTypeRentPayment || t.Type == TransactionTypeReturnedRent {
		return t.ReferenceID, true
	}
	return uuid.Nil, false
}

// ExpenseID returns the referenced expense when the transaction type
// carries one.
func (t *Transaction) ExpenseID() (uuid.UUID, bool) {
	if t.Type == TransactionTypeExpense {
		return t.ReferenceID, true
	}
	return uuid.Nil, false
}

// AmountMoney returns the transaction amount as a Money value object.
func (t *Transaction) AmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(t.Amount, t.Currency)
	return m
}

// HasSource reports whether the transaction debits an account.
func (t *Transaction) HasSource() bool {
	return t.SourceAccountID != nil
}

// HasDestination reports whether the transaction credits an account.
func (t *Transaction) HasDestination() bool {
	return t.DestinationAccountID != nil
}
