package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a rent payment arrived and therefore which
// account receives the credit.
type PaymentMethod string

const (
	// PaymentMethodCash credits the account of the employee who collected
	// the payment.
	PaymentMethodCash PaymentMethod = "Cash"
	// PaymentMethodBankTransferToMain credits the Main house account.
	PaymentMethodBankTransferToMain PaymentMethod = "BankTransferToMain"
	// PaymentMethodGateway credits the Gateway house account for payments
	// settled through the online checkout provider.
	PaymentMethodGateway PaymentMethod = "GatewayPayment"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransferToMain, PaymentMethodGateway:
		return true
	}
	return false
}

// RentPayment records a tenant payment against an invoice. It is an
// immutable fact; reversals are modelled as ReturnedRent transactions
// referencing the payment, never as edits.
type RentPayment struct {
	shared.BaseEntity
	InvoiceID         *uuid.UUID
	TenantID          uuid.UUID
	Amount            decimal.Decimal
	Currency          valueobject.Currency
	ReceiverAccountID uuid.UUID
	Method            PaymentMethod
	RecordedBy        uuid.UUID
	PaidAt            time.Time
}

// NewRentPayment creates a rent payment record. InvoiceID may be nil for
// payments collected outside any invoice (e.g. deposits held on account).
func NewRentPayment(invoiceID *uuid.UUID, tenantID, receiverAccountID, recordedBy uuid.UUID, amount valueobject.Money, method PaymentMethod) (*RentPayment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant ID cannot be empty")
	}
	if receiverAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Receiver account ID cannot be empty")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Recording user ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(method))
	}
	if invoiceID != nil && *invoiceID == uuid.Nil {
		invoiceID = nil
	}
	return &RentPayment{
		BaseEntity:        shared.NewBaseEntity(),
		InvoiceID:         invoiceID,
		TenantID:          tenantID,
		Amount:            amount.Amount(),
		Currency:          amount.Currency(),
		ReceiverAccountID: receiverAccountID,
		Method:            method,
		RecordedBy:        recordedBy,
		PaidAt:            time.Now().UTC(),
	}, nil
}

// AmountMoney returns the payment amount as a Money value object.
func (p *RentPayment) AmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.Amount, p.Currency)
	return m
}
