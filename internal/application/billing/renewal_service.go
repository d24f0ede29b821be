package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RenewalService generates the successor invoice for every renewable
// tenancy whose latest billing period has elapsed.
type RenewalService struct {
	uow       finance.UnitOfWork
	tenancies billing.TenancyRepository
	log       *zap.Logger

	// now is swapped out in tests to pin the renewal clock.
	now func() time.Time
}

// NewRenewalService creates a new RenewalService.
func NewRenewalService(uow finance.UnitOfWork, tenancies billing.TenancyRepository, log *zap.Logger) *RenewalService {
	return &RenewalService{
		uow:       uow,
		tenancies: tenancies,
		log:       log,
		now:       time.Now,
	}
}

// RenewalStats summarises one renewal pass.
type RenewalStats struct {
	Scanned int `json:"scanned"`
	Renewed int `json:"renewed"`
	Failed  int `json:"failed"`
}

// RenewDuePass scans every renewable tenancy and creates the next Pending
// invoice for each one whose period has elapsed. Every tenancy is handled
// in its own unit of work so one failure never blocks the rest of the
// pass; failures are logged and counted. The pass stops early when ctx is
// cancelled.
func (s *RenewalService) RenewDuePass(ctx context.Context) (RenewalStats, error) {
	var stats RenewalStats

	tenancies, err := s.tenancies.ListRenewable(ctx)
	if err != nil {
		return stats, err
	}
	stats.Scanned = len(tenancies)

	for _, tenancy := range tenancies {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var created *billing.Invoice
		err := s.uow.Execute(ctx, func(repos finance.TxRepos) error {
			var err error
			created, err = s.renewTenancy(ctx, repos, tenancy)
			return err
		})
		if err != nil {
			stats.Failed++
			s.log.Warn("Invoice renewal failed for tenancy",
				zap.String("tenancy_id", tenancy.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if created != nil {
			stats.Renewed++
		}
	}

	s.log.Info("Invoice renewal pass finished",
		zap.Int("scanned", stats.Scanned),
		zap.Int("renewed", stats.Renewed),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

// renewTenancy creates the successor invoice for one tenancy when its
// latest period has elapsed. The new invoice starts at the computed next
// period start, is Pending, carries the previous notes and clones the
// previous line items. The discount is deliberately not carried forward.
func (s *RenewalService) renewTenancy(ctx context.Context, repos finance.TxRepos, tenancy *billing.Tenancy) (*billing.Invoice, error) {
	if tenancy.RenewalPeriodDays <= 0 {
		return nil, nil
	}

	latest, err := repos.Invoices().LatestForTenancy(ctx, tenancy.ID)
	if err != nil {
		// A tenancy with no invoice yet has nothing to renew from.
		if shared.IsCode(err, "NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}

	if !billing.IsRenewalDue(s.now().UTC(), latest.PeriodStart, tenancy.RenewalPeriodDays) {
		return nil, nil
	}
	nextStart := billing.NextPeriodStart(latest.PeriodStart, tenancy.RenewalPeriodDays)

	next, err := billing.NewInvoice(tenancy.ID, tenancy.TenantID, nextStart, nil, nil, billing.InvoiceStatusPending, latest.Notes)
	if err != nil {
		return nil, err
	}
	if err := repos.Invoices().Create(ctx, next); err != nil {
		return nil, err
	}

	items, err := repos.InvoiceItems().ListForInvoice(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	clones := make([]*billing.InvoiceItem, 0, len(items))
	for _, item := range items {
		clone, err := item.CopyTo(next.ID)
		if err != nil {
			return nil, err
		}
		clones = append(clones, clone)
	}
	if err := repos.InvoiceItems().CreateBatch(ctx, clones); err != nil {
		return nil, err
	}

	s.log.Info("Renewed tenancy invoice",
		zap.String("tenancy_id", tenancy.ID.String()),
		zap.String("previous_invoice_id", latest.ID.String()),
		zap.String("invoice_id", next.ID.String()),
		zap.Time("period_start", nextStart),
	)
	return next, nil
}

// RenewTenancy runs one targeted renewal for a single tenancy, outside the
// scheduled pass. Returns the id of the created invoice, or uuid.Nil when
// the tenancy was not due.
func (s *RenewalService) RenewTenancy(ctx context.Context, tenancyID uuid.UUID) (uuid.UUID, bool, error) {
	tenancy, err := s.tenancies.FindByID(ctx, tenancyID)
	if err != nil {
		return uuid.Nil, false, err
	}
	if !tenancy.Renewable {
		return uuid.Nil, false, shared.NewDomainError("INVALID_STATE", "Tenancy is not renewable")
	}

	var created *billing.Invoice
	err = s.uow.Execute(ctx, func(repos finance.TxRepos) error {
		var err error
		created, err = s.renewTenancy(ctx, repos, tenancy)
		return err
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	if created == nil {
		return uuid.Nil, false, nil
	}
	return created.ID, true, nil
}
