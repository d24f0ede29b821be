package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UUIDList stores a list of UUIDs as a JSON column.
type UUIDList []uuid.UUID

// Value implements driver.Valuer.
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *UUIDList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into UUIDList", value)
	}
	return json.Unmarshal(data, l)
}

// PaymentSession tracks one checkout session opened with the external
// payment gateway. The session covers one or more invoices of a tenant;
// when the gateway confirms completion, a rent payment is recorded per
// covered invoice. Completion must be idempotent because the gateway may
// deliver the same webhook more than once.
type PaymentSession struct {
	shared.BaseAggregateRoot
	SessionID   string
	TenantID    uuid.UUID
	InvoiceIDs  UUIDList
	Amount      decimal.Decimal
	Currency    valueobject.Currency
	Completed   bool
	CompletedAt *time.Time
	PaymentRef  string
}

// NewPaymentSession creates a pending checkout session.
func NewPaymentSession(sessionID string, tenantID uuid.UUID, invoiceIDs []uuid.UUID, amount valueobject.Money) (*PaymentSession, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Session ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant ID cannot be empty")
	}
	if len(invoiceIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Session must cover at least one invoice")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Session amount must be positive")
	}
	return &PaymentSession{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		TenantID:          tenantID,
		InvoiceIDs:        invoiceIDs,
		Amount:            amount.Amount(),
		Currency:          amount.Currency(),
	}, nil
}

// MarkCompleted records the gateway confirmation. A session completes at
// most once; a second confirmation is rejected so the caller can skip the
// duplicate webhook.
func (s *PaymentSession) MarkCompleted(paymentRef string) error {
	if s.Completed {
		return shared.NewDomainError("CONFLICT", "Payment session is already completed")
	}
	now := time.Now().UTC()
	s.Completed = true
	s.CompletedAt = &now
	s.PaymentRef = paymentRef
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// AmountMoney returns the session amount as a Money value object.
func (s *PaymentSession) AmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(s.Amount, s.Currency)
	return m
}
