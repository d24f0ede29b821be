package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseService records money spent from an employee's account.
type ExpenseService struct {
	uow    finance.UnitOfWork
	ledger *finance.LedgerService
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(uow finance.UnitOfWork, ledgerSvc *finance.LedgerService) *ExpenseService {
	return &ExpenseService{uow: uow, ledger: ledgerSvc}
}

// ExpenseRequest carries the fields for recording an expense. PropertyID
// may be nil for general overhead.
type ExpenseRequest struct {
	PaidBy      uuid.UUID
	PropertyID  *uuid.UUID
	Category    string
	Description string
	Amount      decimal.Decimal
}

// ExpenseRecord is the result of recording an expense.
type ExpenseRecord struct {
	Expense     *ledger.Expense     `json:"expense"`
	Transaction *ledger.Transaction `json:"transaction"`
}

// RecordExpense debits the paying user's account in one retried unit of
// work: the expense fact and the debiting ledger transaction commit
// together or not at all. An account short of the amount beyond the
// tolerance rejects with INSUFFICIENT_FUNDS.
func (s *ExpenseService) RecordExpense(ctx context.Context, req ExpenseRequest) (*ExpenseRecord, error) {
	if req.PaidBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Paying user ID cannot be empty")
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	amount := valueobject.NewMoneyAED(req.Amount)

	var record *ExpenseRecord
	err := finance.ExecuteWithRetry(ctx, s.uow, func(repos finance.TxRepos) error {
		record = nil

		account, err := repos.Accounts().FindByOwner(ctx, req.PaidBy)
		if err != nil {
			return err
		}

		expense, err := ledger.NewExpense(req.PropertyID, account.ID, req.PaidBy, req.Category, req.Description, amount)
		if err != nil {
			return err
		}
		if err := repos.Expenses().Create(ctx, expense); err != nil {
			return err
		}

		tx, err := ledger.NewExpenseTransaction(expense.ID, account.ID, amount)
		if err != nil {
			return err
		}
		if err := s.ledger.Apply(ctx, repos, tx); err != nil {
			return err
		}

		record = &ExpenseRecord{Expense: expense, Transaction: tx}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListForProperty returns the expenses attributed to a property, newest
// first.
func (s *ExpenseService) ListForProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*ledger.Expense, error) {
	var expenses []*ledger.Expense
	err := s.uow.Execute(ctx, func(repos finance.TxRepos) error {
		var err error
		expenses, err = repos.Expenses().ListForProperty(ctx, propertyID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}
