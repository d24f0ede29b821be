package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MonetaryAccountModel is the persistence model for the MonetaryAccount aggregate root.
type MonetaryAccountModel struct {
	AggregateModel
	Name        string               `gorm:"type:varchar(200);not null"`
	OwnerUserID *uuid.UUID           `gorm:"type:uuid;index"`
	Balance     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null;default:'AED'"`
	Closed      bool                 `gorm:"not null;default:false"`
	ClosedAt    *time.Time
}

// TableName returns the table name for GORM
func (MonetaryAccountModel) TableName() string {
	return "monetary_accounts"
}

// ToDomain converts the persistence model to a domain MonetaryAccount.
func (m *MonetaryAccountModel) ToDomain() *ledger.MonetaryAccount {
	return &ledger.MonetaryAccount{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		OwnerUserID:       m.OwnerUserID,
		Balance:           m.Balance,
		Currency:          m.Currency,
		Closed:            m.Closed,
		ClosedAt:          m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain MonetaryAccount.
func (m *MonetaryAccountModel) FromDomain(a *ledger.MonetaryAccount) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.OwnerUserID = a.OwnerUserID
	m.Balance = a.Balance
	m.Currency = a.Currency
	m.Closed = a.Closed
	m.ClosedAt = a.ClosedAt
}

// TransactionModel is the persistence model for ledger transactions.
// Rows are append-only; the repository exposes no update or delete.
type TransactionModel struct {
	BaseModel
	Type                 ledger.TransactionType `gorm:"type:varchar(20);not null;index"`
	ReferenceID          uuid.UUID              `gorm:"type:uuid;index"`
	SourceAccountID      *uuid.UUID             `gorm:"type:uuid;index"`
	DestinationAccountID *uuid.UUID             `gorm:"type:uuid;index"`
	Amount               decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Currency             valueobject.Currency   `gorm:"type:varchar(3);not null;default:'AED'"`
	Description          string                 `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction.
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BaseEntity:           m.BaseModel.ToDomain(),
		Type:                 m.Type,
		ReferenceID:          m.ReferenceID,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Amount:               m.Amount,
		Currency:             m.Currency,
		Description:          m.Description,
	}
}

// FromDomain populates the persistence model from a domain Transaction.
func (m *TransactionModel) FromDomain(t *ledger.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Type = t.Type
	m.ReferenceID = t.ReferenceID
	m.SourceAccountID = t.SourceAccountID
	m.DestinationAccountID = t.DestinationAccountID
	m.Amount = t.Amount
	m.Currency = t.Currency
	m.Description = t.Description
}

// RentPaymentModel is the persistence model for rent payments.
type RentPaymentModel struct {
	BaseModel
	InvoiceID         *uuid.UUID           `gorm:"type:uuid;index"`
	TenantID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency          valueobject.Currency `gorm:"type:varchar(3);not null;default:'AED'"`
	ReceiverAccountID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Method            ledger.PaymentMethod `gorm:"type:varchar(30);not null"`
	RecordedBy        uuid.UUID            `gorm:"type:uuid;not null"`
	PaidAt            time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (RentPaymentModel) TableName() string {
	return "rent_payments"
}

// ToDomain converts the persistence model to a domain RentPayment.
func (m *RentPaymentModel) ToDomain() *ledger.RentPayment {
	return &ledger.RentPayment{
		BaseEntity:        m.BaseModel.ToDomain(),
		InvoiceID:         m.InvoiceID,
		TenantID:          m.TenantID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		ReceiverAccountID: m.ReceiverAccountID,
		Method:            m.Method,
		RecordedBy:        m.RecordedBy,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain RentPayment.
func (m *RentPaymentModel) FromDomain(p *ledger.RentPayment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.InvoiceID = p.InvoiceID
	m.TenantID = p.TenantID
	m.Amount = p.Amount
	m.Currency = p.Currency
	m.ReceiverAccountID = p.ReceiverAccountID
	m.Method = p.Method
	m.RecordedBy = p.RecordedBy
	m.PaidAt = p.PaidAt
}

// ExpenseModel is the persistence model for expenses.
type ExpenseModel struct {
	BaseModel
	PropertyID      *uuid.UUID           `gorm:"type:uuid;index"`
	PayingAccountID uuid.UUID            `gorm:"type:uuid;not null;index"`
	PaidBy          uuid.UUID            `gorm:"type:uuid;not null"`
	Category        string               `gorm:"type:varchar(100);not null"`
	Description     string               `gorm:"type:varchar(500)"`
	Amount          decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency        valueobject.Currency `gorm:"type:varchar(3);not null;default:'AED'"`
	SpentAt         time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense.
func (m *ExpenseModel) ToDomain() *ledger.Expense {
	return &ledger.Expense{
		BaseEntity:      m.BaseModel.ToDomain(),
		PropertyID:      m.PropertyID,
		PayingAccountID: m.PayingAccountID,
		PaidBy:          m.PaidBy,
		Category:        m.Category,
		Description:     m.Description,
		Amount:          m.Amount,
		Currency:        m.Currency,
		SpentAt:         m.SpentAt,
	}
}

// FromDomain populates the persistence model from a domain Expense.
func (m *ExpenseModel) FromDomain(e *ledger.Expense) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.PropertyID = e.PropertyID
	m.PayingAccountID = e.PayingAccountID
	m.PaidBy = e.PaidBy
	m.Category = e.Category
	m.Description = e.Description
	m.Amount = e.Amount
	m.Currency = e.Currency
	m.SpentAt = e.SpentAt
}

// PaymentSessionModel is the persistence model for gateway checkout sessions.
type PaymentSessionModel struct {
	AggregateModel
	SessionID   string               `gorm:"type:varchar(200);not null;uniqueIndex"`
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	InvoiceIDs  ledger.UUIDList      `gorm:"type:jsonb;default:'[]'"`
	Amount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null;default:'AED'"`
	Completed   bool                 `gorm:"not null;default:false;index"`
	CompletedAt *time.Time
	PaymentRef  string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (PaymentSessionModel) TableName() string {
	return "payment_sessions"
}

// ToDomain converts the persistence model to a domain PaymentSession.
func (m *PaymentSessionModel) ToDomain() *ledger.PaymentSession {
	return &ledger.PaymentSession{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SessionID:         m.SessionID,
		TenantID:          m.TenantID,
		InvoiceIDs:        m.InvoiceIDs,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Completed:         m.Completed,
		CompletedAt:       m.CompletedAt,
		PaymentRef:        m.PaymentRef,
	}
}

// FromDomain populates the persistence model from a domain PaymentSession.
func (m *PaymentSessionModel) FromDomain(s *ledger.PaymentSession) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SessionID = s.SessionID
	m.TenantID = s.TenantID
	m.InvoiceIDs = s.InvoiceIDs
	m.Amount = s.Amount
	m.Currency = s.Currency
	m.Completed = s.Completed
	m.CompletedAt = s.CompletedAt
	m.PaymentRef = s.PaymentRef
}
