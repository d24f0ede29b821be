package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rentfolio/backend/internal/application/billing"
	"go.uber.org/zap"
)

// RenewalRunner runs one invoice renewal pass. Implemented by the
// billing application's RenewalService.
type RenewalRunner interface {
	RenewDuePass(ctx context.Context) (billing.RenewalStats, error)
}

// InvoiceRenewalSchedulerConfig holds configuration for the renewal
// scheduler.
type InvoiceRenewalSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is how often a renewal pass runs
	Interval time.Duration

	// PassTimeout is the maximum time for one renewal pass
	PassTimeout time.Duration
}

// DefaultInvoiceRenewalSchedulerConfig returns default configuration.
func DefaultInvoiceRenewalSchedulerConfig() InvoiceRenewalSchedulerConfig {
	return InvoiceRenewalSchedulerConfig{
		Enabled:     true,
		Interval:    time.Minute,
		PassTimeout: 5 * time.Minute,
	}
}

// InvoiceRenewalScheduler periodically triggers invoice renewal passes.
// Each tick runs one pass; renewal itself is idempotent per period, so
// an occasional overlapping or missed tick is harmless.
type InvoiceRenewalScheduler struct {
	runner    RenewalRunner
	logger    *zap.Logger
	config    InvoiceRenewalSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewInvoiceRenewalScheduler creates a new invoice renewal scheduler.
func NewInvoiceRenewalScheduler(runner RenewalRunner, logger *zap.Logger, config InvoiceRenewalSchedulerConfig) *InvoiceRenewalScheduler {
	return &InvoiceRenewalScheduler{
		runner: runner,
		logger: logger,
		config: config,
	}
}

// Start launches the scheduling loop. Calling Start on a running
// scheduler is a no-op.
func (s *InvoiceRenewalScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Invoice renewal scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Invoice renewal scheduler started",
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight pass to
// finish or ctx to expire.
func (s *InvoiceRenewalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Invoice renewal scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Invoice renewal scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *InvoiceRenewalScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Run one pass at startup so overdue renewals do not wait a full
	// interval after a restart.
	s.runPass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *InvoiceRenewalScheduler) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	passCtx := ctx
	if s.config.PassTimeout > 0 {
		var cancel context.CancelFunc
		passCtx, cancel = context.WithTimeout(ctx, s.config.PassTimeout)
		defer cancel()
	}

	if _, err := s.runner.RenewDuePass(passCtx); err != nil {
		s.logger.Error("Invoice renewal pass failed", zap.Error(err))
	}
}
