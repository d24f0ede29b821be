package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository persists monetary accounts.
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MonetaryAccount, error)
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*MonetaryAccount, error)
	FindAll(ctx context.Context) ([]*MonetaryAccount, error)
	Save(ctx context.Context, account *MonetaryAccount) error
	// SaveWithLock persists the account only if its stored version still
	// matches the version the aggregate was loaded with, returning
	// CONCURRENCY_CONFLICT otherwise.
	SaveWithLock(ctx context.Context, account *MonetaryAccount) error
}

// TransactionRepository persists ledger entries. Entries are append-only;
// there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByReference(ctx context.Context, t TransactionType, referenceID uuid.UUID) ([]*Transaction, error)
	ListForAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
	// SumCredited and SumDebited support reconciling an account balance
	// against its full ledger history.
	SumCredited(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	SumDebited(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
}

// RentPaymentRepository persists rent payment records.
type RentPaymentRepository interface {
	Create(ctx context.Context, payment *RentPayment) error
	FindByID(ctx context.Context, id uuid.UUID) (*RentPayment, error)
	ListForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*RentPayment, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*RentPayment, error)
	SumForInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	SumForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) (decimal.Decimal, error)
	SumForTenant(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
	LatestForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) (*RentPayment, error)
}

// ExpenseRepository persists expense records.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	ListForProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*Expense, error)
	ListForAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Expense, error)
}

// PaymentSessionRepository persists gateway checkout sessions.
type PaymentSessionRepository interface {
	Create(ctx context.Context, session *PaymentSession) error
	FindBySessionID(ctx context.Context, sessionID string) (*PaymentSession, error)
	SaveWithLock(ctx context.Context, session *PaymentSession) error
}
