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

// TransferService moves money between two monetary accounts, typically a
// caretaker depositing collected cash into Main.
type TransferService struct {
	uow    finance.UnitOfWork
	ledger *finance.LedgerService
}

// NewTransferService creates a new TransferService.
func NewTransferService(uow finance.UnitOfWork, ledgerSvc *finance.LedgerService) *TransferService {
	return &TransferService{uow: uow, ledger: ledgerSvc}
}

// TransferRequest carries the fields for a transfer between accounts.
type TransferRequest struct {
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Description          string
}

// RecordTransfer debits the source and credits the destination in one
// retried unit of work. The source account short of the amount beyond the
// tolerance rejects with INSUFFICIENT_FUNDS and nothing is written.
func (s *TransferService) RecordTransfer(ctx context.Context, req TransferRequest) (*ledger.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transfer amount must be positive")
	}
	amount := valueobject.NewMoneyAED(req.Amount)

	tx, err := ledger.NewTransfer(req.SourceAccountID, req.DestinationAccountID, amount, req.Description)
	if err != nil {
		return nil, err
	}

	err = finance.ExecuteWithRetry(ctx, s.uow, func(repos finance.TxRepos) error {
		return s.ledger.Apply(ctx, repos, tx)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}
