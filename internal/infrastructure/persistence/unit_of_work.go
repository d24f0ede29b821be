package persistence

import (
	"context"

	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormUnitOfWork implements finance.UnitOfWork on top of a GORM
// transaction. Every repository handed to the callback is bound to the
// same open transaction, so a ledger write, a payment record and an
// invoice status change commit or roll back as one unit.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos finance.TxRepos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepos(tx))
	})
}

// txRepos binds all repositories to one open transaction.
type txRepos struct {
	accounts        *GormAccountRepository
	transactions    *GormTransactionRepository
	rentPayments    *GormRentPaymentRepository
	expenses        *GormExpenseRepository
	paymentSessions *GormPaymentSessionRepository
	invoices        *GormInvoiceRepository
	invoiceItems    *GormInvoiceItemRepository
	tenancies       *GormTenancyRepository
}

func newTxRepos(tx *gorm.DB) *txRepos {
	return &txRepos{
		accounts:        NewGormAccountRepository(tx),
		transactions:    NewGormTransactionRepository(tx),
		rentPayments:    NewGormRentPaymentRepository(tx),
		expenses:        NewGormExpenseRepository(tx),
		paymentSessions: NewGormPaymentSessionRepository(tx),
		invoices:        NewGormInvoiceRepository(tx),
		invoiceItems:    NewGormInvoiceItemRepository(tx),
		tenancies:       NewGormTenancyRepository(tx),
	}
}

func (r *txRepos) Accounts() ledger.AccountRepository                { return r.accounts }
func (r *txRepos) Transactions() ledger.TransactionRepository        { return r.transactions }
func (r *txRepos) RentPayments() ledger.RentPaymentRepository        { return r.rentPayments }
func (r *txRepos) Expenses() ledger.ExpenseRepository                { return r.expenses }
func (r *txRepos) PaymentSessions() ledger.PaymentSessionRepository  { return r.paymentSessions }
func (r *txRepos) Invoices() billing.InvoiceRepository               { return r.invoices }
func (r *txRepos) InvoiceItems() billing.InvoiceItemRepository       { return r.invoiceItems }
func (r *txRepos) Tenancies() billing.TenancyRepository              { return r.tenancies }
