package finance

import (
	"context"

	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
)

// TxRepos exposes every repository bound to one open transaction. All
// reads and writes made through it commit or roll back together.
type TxRepos interface {
	Accounts() ledger.AccountRepository
	Transactions() ledger.TransactionRepository
	RentPayments() ledger.RentPaymentRepository
	Expenses() ledger.ExpenseRepository
	PaymentSessions() ledger.PaymentSessionRepository
	Invoices() billing.InvoiceRepository
	InvoiceItems() billing.InvoiceItemRepository
	Tenancies() billing.TenancyRepository
}

// UnitOfWork runs a function inside a database transaction. If fn returns
// an error the transaction rolls back and the error is returned
// unchanged; otherwise the transaction commits.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos TxRepos) error) error
}

// maxAttempts bounds optimistic-lock retries per operation.
const maxAttempts = 3

// ExecuteWithRetry runs fn in a unit of work, retrying the whole unit
// when it fails with CONCURRENCY_CONFLICT. Every attempt re-reads its
// aggregates inside a fresh transaction, so a retry observes the state
// the winning writer left behind. Any other error aborts immediately.
func ExecuteWithRetry(ctx context.Context, uow UnitOfWork, fn func(repos TxRepos) error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
		}
		err = uow.Execute(ctx, fn)
		if err == nil || !shared.IsCode(err, "CONCURRENCY_CONFLICT") {
			return err
		}
	}
	return err
}
