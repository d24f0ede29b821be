package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	TenancyID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	TenantID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	PeriodStart time.Time             `gorm:"not null;index"`
	DueDate     *time.Time            `gorm:"index"`
	Discount    *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	Status      billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	Notes       string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		TenancyID:         m.TenancyID,
		TenantID:          m.TenantID,
		PeriodStart:       m.PeriodStart,
		DueDate:           m.DueDate,
		Discount:          m.Discount,
		Status:            m.Status,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.TenancyID = i.TenancyID
	m.TenantID = i.TenantID
	m.PeriodStart = i.PeriodStart
	m.DueDate = i.DueDate
	m.Discount = i.Discount
	m.Status = i.Status
	m.Notes = i.Notes
}

// InvoiceItemModel is the persistence model for invoice line items.
type InvoiceItemModel struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500)"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
func (m *InvoiceItemModel) ToDomain() *billing.InvoiceItem {
	return &billing.InvoiceItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Amount:      m.Amount,
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem.
func (m *InvoiceItemModel) FromDomain(i *billing.InvoiceItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.InvoiceID = i.InvoiceID
	m.Description = i.Description
	m.Amount = i.Amount
}

// TenancyModel is the persistence model for the Tenancy aggregate root.
type TenancyModel struct {
	AggregateModel
	TenantID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	PropertyID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	SubUnitID         *uuid.UUID `gorm:"type:uuid;index"`
	Start             time.Time  `gorm:"not null"`
	End               *time.Time
	Renewable         bool `gorm:"not null;default:false;index"`
	RenewalPeriodDays int  `gorm:"not null;default:0"`
	Active            bool `gorm:"not null;default:false;index"`
	EvacuationDate    *time.Time
}

// TableName returns the table name for GORM
func (TenancyModel) TableName() string {
	return "tenancies"
}

// ToDomain converts the persistence model to a domain Tenancy.
func (m *TenancyModel) ToDomain() *billing.Tenancy {
	return &billing.Tenancy{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		TenantID:          m.TenantID,
		PropertyID:        m.PropertyID,
		SubUnitID:         m.SubUnitID,
		Start:             m.Start,
		End:               m.End,
		Renewable:         m.Renewable,
		RenewalPeriodDays: m.RenewalPeriodDays,
		Active:            m.Active,
		EvacuationDate:    m.EvacuationDate,
	}
}

// FromDomain populates the persistence model from a domain Tenancy.
func (m *TenancyModel) FromDomain(t *billing.Tenancy) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TenantID = t.TenantID
	m.PropertyID = t.PropertyID
	m.SubUnitID = t.SubUnitID
	m.Start = t.Start
	m.End = t.End
	m.Renewable = t.Renewable
	m.RenewalPeriodDays = t.RenewalPeriodDays
	m.Active = t.Active
	m.EvacuationDate = t.EvacuationDate
}

// AllModels lists every persistence model for migration.
func AllModels() []any {
	return []any{
		&MonetaryAccountModel{},
		&TransactionModel{},
		&RentPaymentModel{},
		&ExpenseModel{},
		&PaymentSessionModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&TenancyModel{},
	}
}
