package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// LedgerService applies transactions to account balances. It is the only
// code path that moves money: every balance change in the system goes
// through Apply so that the cached balances stay a pure projection of the
// transaction history.
type LedgerService struct {
	tolerance decimal.Decimal
}

// NewLedgerService creates a ledger service with the given debit
// tolerance. The tolerance absorbs rounding drift between recorded
// payments and balances; debits may push a balance below zero by at most
// this amount.
func NewLedgerService(tolerance decimal.Decimal) *LedgerService {
	return &LedgerService{tolerance: tolerance}
}

// Tolerance returns the configured debit tolerance.
func (s *LedgerService) Tolerance() decimal.Decimal {
	return s.tolerance
}

// Apply debits the source account, credits the destination account and
// appends the transaction, all through the given transactional repos.
// The source side is checked first so an insufficient balance rejects
// the whole operation before anything is written. Balance writes use
// optimistic locking; a version conflict surfaces as
// CONCURRENCY_CONFLICT so the caller can retry the unit of work.
func (s *LedgerService) Apply(ctx context.Context, repos TxRepos, tx *ledger.Transaction) error {
	if tx.HasSource() {
		source, err := repos.Accounts().FindByID(ctx, *tx.SourceAccountID)
		if err != nil {
			return err
		}
		if err := source.Debit(tx.AmountMoney(), s.tolerance); err != nil {
			return err
		}
		if err := repos.Accounts().SaveWithLock(ctx, source); err != nil {
			return err
		}
	}

	if tx.HasDestination() {
		destination, err := repos.Accounts().FindByID(ctx, *tx.DestinationAccountID)
		if err != nil {
			return err
		}
		if err := destination.Credit(tx.AmountMoney()); err != nil {
			return err
		}
		if err := repos.Accounts().SaveWithLock(ctx, destination); err != nil {
			return err
		}
	}

	return repos.Transactions().Create(ctx, tx)
}

// DerivedBalance recomputes an account balance from its full transaction
// history. Reconciliation reports compare this against the cached balance
// on the account row.
func (s *LedgerService) DerivedBalance(ctx context.Context, repos TxRepos, accountID uuid.UUID) (decimal.Decimal, error) {
	credited, err := repos.Transactions().SumCredited(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	debited, err := repos.Transactions().SumDebited(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return credited.Sub(debited), nil
}
