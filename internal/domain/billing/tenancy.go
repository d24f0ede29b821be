package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
)

// Tenancy is an aggregate root describing the occupancy of a property (or
// one of its sub units) by a tenant, together with the renewal contract
// that drives periodic invoicing.
type Tenancy struct {
	shared.BaseAggregateRoot
	TenantID          uuid.UUID
	PropertyID        uuid.UUID
	SubUnitID         *uuid.UUID
	Start             time.Time
	End               *time.Time
	Renewable         bool
	RenewalPeriodDays int
	Active            bool
	EvacuationDate    *time.Time
}

// NewTenancy creates an active tenancy. renewalPeriodDays is required
// when the tenancy is renewable and ignored otherwise.
func NewTenancy(tenantID, propertyID uuid.UUID, subUnitID *uuid.UUID, start time.Time, renewable bool, renewalPeriodDays int) (*Tenancy, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant ID cannot be empty")
	}
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Property ID cannot be empty")
	}
	if start.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenancy start cannot be empty")
	}
	if renewable && renewalPeriodDays <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Renewable tenancy requires a positive renewal period")
	}
	if !renewable {
		renewalPeriodDays = 0
	}
	if subUnitID != nil && *subUnitID == uuid.Nil {
		subUnitID = nil
	}
	return &Tenancy{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		PropertyID:        propertyID,
		SubUnitID:         subUnitID,
		Start:             start.UTC(),
		Renewable:         renewable,
		RenewalPeriodDays: renewalPeriodDays,
		Active:            true,
	}, nil
}

// Evacuate ends the tenancy: the tenancy becomes inactive and renewal
// stops generating invoices for it.
func (t *Tenancy) Evacuate(date time.Time) error {
	if !t.Active {
		return shared.NewDomainError("INVALID_STATE", "Tenancy is not active")
	}
	d := date.UTC()
	t.Active = false
	t.Renewable = false
	t.EvacuationDate = &d
	t.End = &d
	t.UpdatedAt = time.Now().UTC()
	t.IncrementVersion()
	return nil
}
