package finance

import (
	"context"

	"github.com/google/uuid"
	billingapp "github.com/rentfolio/backend/internal/application/billing"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AccountRouting holds the fixed house account ids that non-cash payment
// methods credit.
type AccountRouting struct {
	MainAccountID    uuid.UUID
	GatewayAccountID uuid.UUID
}

// RentPaymentService records tenant rent payments: the payment fact, the
// ledger transaction crediting the receiver account, and the refreshed
// invoice status all commit or roll back together.
type RentPaymentService struct {
	uow     finance.UnitOfWork
	ledger  *finance.LedgerService
	routing AccountRouting
}

// NewRentPaymentService creates a new RentPaymentService.
func NewRentPaymentService(uow finance.UnitOfWork, ledgerSvc *finance.LedgerService, routing AccountRouting) *RentPaymentService {
	return &RentPaymentService{
		uow:     uow,
		ledger:  ledgerSvc,
		routing: routing,
	}
}

// RentPaymentRequest carries the fields for recording a rent payment.
// InvoiceID may be nil for payments held on account without an invoice.
type RentPaymentRequest struct {
	TenantID  uuid.UUID
	InvoiceID *uuid.UUID
	Amount    decimal.Decimal
	Method    ledger.PaymentMethod
}

// RentPaymentRecord is the result of recording a rent payment.
type RentPaymentRecord struct {
	Payment     *ledger.RentPayment `json:"payment"`
	Transaction *ledger.Transaction `json:"transaction"`
}

// RecordRentPayment records a payment collected by recordedBy. The whole
// operation runs in one retried unit of work:
//
//  1. the invoice, when given, must exist and must not already be settled
//  2. the receiver account is resolved from the payment method
//  3. the payment record and its crediting ledger transaction are written
//  4. the invoice status is recomputed from the new payment sum
//
// A concurrent payment against the same invoice or account surfaces as a
// version conflict; the retry re-reads state, so a racing full payment
// deterministically turns into ALREADY_PAID for the loser.
func (s *RentPaymentService) RecordRentPayment(ctx context.Context, recordedBy uuid.UUID, req RentPaymentRequest) (*RentPaymentRecord, error) {
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Recording user ID cannot be empty")
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !req.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(req.Method))
	}
	amount := valueobject.NewMoneyAED(req.Amount)

	var record *RentPaymentRecord
	err := finance.ExecuteWithRetry(ctx, s.uow, func(repos finance.TxRepos) error {
		record = nil

		if req.InvoiceID != nil {
			invoice, err := repos.Invoices().FindByID(ctx, *req.InvoiceID)
			if err != nil {
				return err
			}
			items, err := repos.InvoiceItems().ListForInvoice(ctx, invoice.ID)
			if err != nil {
				return err
			}
			paid, err := repos.RentPayments().SumForInvoice(ctx, invoice.ID)
			if err != nil {
				return err
			}
			if invoice.IsSettled(paid, invoice.Total(items), s.ledger.Tolerance()) {
				return shared.ErrAlreadyPaid
			}
		}

		receiverID, err := s.resolveReceiver(ctx, repos, req.Method, recordedBy)
		if err != nil {
			return err
		}

		payment, err := ledger.NewRentPayment(req.InvoiceID, req.TenantID, receiverID, recordedBy, amount, req.Method)
		if err != nil {
			return err
		}
		if err := repos.RentPayments().Create(ctx, payment); err != nil {
			return err
		}

		tx, err := ledger.NewRentPaymentTransaction(payment.ID, receiverID, amount)
		if err != nil {
			return err
		}
		if err := s.ledger.Apply(ctx, repos, tx); err != nil {
			return err
		}

		if req.InvoiceID != nil {
			if err := billingapp.RefreshInvoiceStatus(ctx, repos, *req.InvoiceID, s.ledger.Tolerance()); err != nil {
				return err
			}
		}

		record = &RentPaymentRecord{Payment: payment, Transaction: tx}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// resolveReceiver maps the payment method to the account that receives
// the credit: cash stays with the collecting employee's account, bank
// transfers land on Main, gateway settlements on Gateway.
func (s *RentPaymentService) resolveReceiver(ctx context.Context, repos finance.TxRepos, method ledger.PaymentMethod, recordedBy uuid.UUID) (uuid.UUID, error) {
	switch method {
	case ledger.PaymentMethodCash:
		account, err := repos.Accounts().FindByOwner(ctx, recordedBy)
		if err != nil {
			return uuid.Nil, err
		}
		return account.ID, nil
	case ledger.PaymentMethodBankTransferToMain:
		return s.routing.MainAccountID, nil
	case ledger.PaymentMethodGateway:
		return s.routing.GatewayAccountID, nil
	default:
		return uuid.Nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(method))
	}
}

// PaymentByID returns the rent payment with its ledger transaction, or
// NOT_FOUND.
func (s *RentPaymentService) PaymentByID(ctx context.Context, paymentID uuid.UUID) (*RentPaymentRecord, error) {
	var record *RentPaymentRecord
	err := s.uow.Execute(ctx, func(repos finance.TxRepos) error {
		payment, err := repos.RentPayments().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		record = &RentPaymentRecord{Payment: payment}
		txs, err := repos.Transactions().FindByReference(ctx, ledger.TransactionTypeRentPayment, payment.ID)
		if err != nil {
			return err
		}
		if len(txs) > 0 {
			record.Transaction = txs[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
