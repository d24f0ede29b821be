package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// sessionIdempotencyTTL bounds how long a completed session id is held in
// the fast-path store. The database row remains the source of truth.
const sessionIdempotencyTTL = 24 * time.Hour

// GatewayWebhookService handles the checkout lifecycle against the
// external payment gateway: opening sessions for invoice sets and turning
// completion notifications into recorded rent payments.
type GatewayWebhookService struct {
	sessions      ledger.PaymentSessionRepository
	invoices      billing.InvoiceRepository
	items         billing.InvoiceItemRepository
	payments      *RentPaymentService
	idempotency   shared.IdempotencyStore
	gatewayUserID uuid.UUID
	log           *zap.Logger
}

// NewGatewayWebhookService creates a new GatewayWebhookService. The
// gateway user id is the synthetic user every webhook-driven payment is
// recorded under.
func NewGatewayWebhookService(
	sessions ledger.PaymentSessionRepository,
	invoices billing.InvoiceRepository,
	items billing.InvoiceItemRepository,
	payments *RentPaymentService,
	idempotency shared.IdempotencyStore,
	gatewayUserID uuid.UUID,
	log *zap.Logger,
) *GatewayWebhookService {
	return &GatewayWebhookService{
		sessions:      sessions,
		invoices:      invoices,
		items:         items,
		payments:      payments,
		idempotency:   idempotency,
		gatewayUserID: gatewayUserID,
		log:           log,
	}
}

// CreateSession opens a pending checkout session covering the given
// invoices. The session amount is the sum of the invoice totals; every
// invoice must exist and belong to the tenant.
func (s *GatewayWebhookService) CreateSession(ctx context.Context, sessionID string, tenantID uuid.UUID, invoiceIDs []uuid.UUID) (*ledger.PaymentSession, error) {
	amount := valueobject.ZeroAED()
	for _, invoiceID := range invoiceIDs {
		total, err := s.invoiceTotal(ctx, tenantID, invoiceID)
		if err != nil {
			return nil, err
		}
		amount, err = amount.Add(total)
		if err != nil {
			return nil, err
		}
	}

	session, err := ledger.NewPaymentSession(sessionID, tenantID, invoiceIDs, amount)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns the checkout session for a gateway session id.
func (s *GatewayWebhookService) GetSession(ctx context.Context, sessionID string) (*ledger.PaymentSession, error) {
	return s.sessions.FindBySessionID(ctx, sessionID)
}

// HandleCheckoutCompleted processes a completion notification from the
// gateway. The gateway may deliver the same notification more than once,
// so the session is claimed first: marking it completed behind the version
// check means exactly one delivery proceeds to record payments, every
// other delivery sees the completed flag (or loses the version race) and
// returns without side effects. Each covered invoice is then paid in full
// as the gateway user.
func (s *GatewayWebhookService) HandleCheckoutCompleted(ctx context.Context, sessionID, paymentRef string) error {
	if seen, err := s.idempotency.IsProcessed(ctx, sessionID); err != nil {
		// Store failures must not drop payments; fall through to the
		// database check.
		s.log.Warn("Idempotency store lookup failed", zap.String("session_id", sessionID), zap.Error(err))
	} else if seen {
		s.log.Info("Skipping duplicate checkout notification", zap.String("session_id", sessionID))
		return nil
	}

	session, err := s.sessions.FindBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Completed {
		s.markSeen(ctx, sessionID)
		s.log.Info("Checkout session already completed", zap.String("session_id", sessionID))
		return nil
	}

	if err := session.MarkCompleted(paymentRef); err != nil {
		return err
	}
	if err := s.sessions.SaveWithLock(ctx, session); err != nil {
		if shared.IsCode(err, "CONCURRENCY_CONFLICT") {
			s.log.Info("Lost checkout completion race, skipping", zap.String("session_id", sessionID))
			return nil
		}
		return err
	}
	s.markSeen(ctx, sessionID)

	var errs []error
	for _, invoiceID := range session.InvoiceIDs {
		if err := s.payInvoice(ctx, session.TenantID, invoiceID); err != nil {
			errs = append(errs, fmt.Errorf("invoice %s: %w", invoiceID, err))
			s.log.Error("Recording gateway payment failed",
				zap.String("session_id", sessionID),
				zap.String("invoice_id", invoiceID.String()),
				zap.Error(err),
			)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("checkout session %s: %d of %d payments failed: %w",
			sessionID, len(errs), len(session.InvoiceIDs), errs[0])
	}

	s.log.Info("Checkout session completed",
		zap.String("session_id", sessionID),
		zap.Int("invoices", len(session.InvoiceIDs)),
	)
	return nil
}

// payInvoice records one gateway payment covering the invoice's full
// total, attributed to the gateway user.
func (s *GatewayWebhookService) payInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	total, err := s.invoiceTotal(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	id := invoiceID
	_, err = s.payments.RecordRentPayment(ctx, s.gatewayUserID, RentPaymentRequest{
		TenantID:  tenantID,
		InvoiceID: &id,
		Amount:    total.Amount(),
		Method:    ledger.PaymentMethodGateway,
	})
	return err
}

func (s *GatewayWebhookService) invoiceTotal(ctx context.Context, tenantID, invoiceID uuid.UUID) (valueobject.Money, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return valueobject.Money{}, err
	}
	if invoice.TenantID != tenantID {
		return valueobject.Money{}, shared.NewDomainError("INVALID_INPUT", "Invoice does not belong to the tenant")
	}
	items, err := s.items.ListForInvoice(ctx, invoiceID)
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoneyAED(invoice.Total(items)), nil
}

func (s *GatewayWebhookService) markSeen(ctx context.Context, sessionID string) {
	if _, err := s.idempotency.MarkProcessed(ctx, sessionID, sessionIdempotencyTTL); err != nil {
		s.log.Warn("Idempotency store write failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
