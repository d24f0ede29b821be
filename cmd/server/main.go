package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	billingapp "github.com/rentfolio/backend/internal/application/billing"
	financeapp "github.com/rentfolio/backend/internal/application/finance"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/infrastructure/cache"
	"github.com/rentfolio/backend/internal/infrastructure/config"
	"github.com/rentfolio/backend/internal/infrastructure/logger"
	"github.com/rentfolio/backend/internal/infrastructure/persistence"
	"github.com/rentfolio/backend/internal/infrastructure/scheduler"
	"github.com/rentfolio/backend/internal/interfaces/http/handler"
	"github.com/rentfolio/backend/internal/interfaces/http/middleware"
	"github.com/rentfolio/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting rentfolio backend",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
	)

	mainAccountID, err := uuid.Parse(cfg.Finance.MainAccountID)
	if err != nil {
		return fmt.Errorf("finance.main_account_id: %w", err)
	}
	gatewayAccountID, err := uuid.Parse(cfg.Finance.GatewayAccountID)
	if err != nil {
		return fmt.Errorf("finance.gateway_account_id: %w", err)
	}
	gatewayUserID, err := uuid.Parse(cfg.Finance.GatewayUserID)
	if err != nil {
		return fmt.Errorf("finance.gateway_user_id: %w", err)
	}

	database, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close() }()
	database.DB.Logger = logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	if err := database.EnsureHouseAccounts(context.Background(), mainAccountID, gatewayAccountID); err != nil {
		return fmt.Errorf("bootstrap house accounts: %w", err)
	}
	log.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	db := database.DB
	uow := persistence.NewGormUnitOfWork(db)
	accounts := persistence.NewGormAccountRepository(db)
	transactions := persistence.NewGormTransactionRepository(db)
	rentPayments := persistence.NewGormRentPaymentRepository(db)
	invoices := persistence.NewGormInvoiceRepository(db)
	invoiceItems := persistence.NewGormInvoiceItemRepository(db)
	tenancies := persistence.NewGormTenancyRepository(db)
	sessions := persistence.NewGormPaymentSessionRepository(db)

	tolerance := decimal.NewFromFloat(cfg.Finance.Tolerance)
	routing := financeapp.AccountRouting{
		MainAccountID:    mainAccountID,
		GatewayAccountID: gatewayAccountID,
	}

	ledgerSvc := finance.NewLedgerService(tolerance)
	paymentSvc := financeapp.NewRentPaymentService(uow, ledgerSvc, routing)
	expenseSvc := financeapp.NewExpenseService(uow, ledgerSvc)
	transferSvc := financeapp.NewTransferService(uow, ledgerSvc)
	outstandingSvc := financeapp.NewOutstandingService(invoices, invoiceItems, rentPayments, tenancies)
	invoiceSvc := billingapp.NewInvoiceService(uow, invoices, invoiceItems, rentPayments, transactions, tolerance)
	renewalSvc := billingapp.NewRenewalService(uow, tenancies, log)

	idempotency := cache.NewIdempotencyStore(&cfg.Redis, log)
	defer func() { _ = idempotency.Close() }()
	webhookSvc := financeapp.NewGatewayWebhookService(sessions, invoices, invoiceItems, paymentSvc, idempotency, gatewayUserID, log)

	renewalScheduler := scheduler.NewInvoiceRenewalScheduler(renewalSvc, log, scheduler.InvoiceRenewalSchedulerConfig{
		Enabled:     cfg.Scheduler.Enabled,
		Interval:    cfg.Scheduler.RenewInterval,
		PassTimeout: 5 * time.Minute,
	})
	if err := renewalScheduler.Start(context.Background()); err != nil {
		return fmt.Errorf("start renewal scheduler: %w", err)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return fmt.Errorf("set trusted proxies: %w", err)
		}
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
	)

	engine.GET("/health", handler.NewSystemHandler(db, cfg.App.Name, version).Health)
	router.NewRouter(engine).
		Register(handler.NewFinanceHandler(paymentSvc, expenseSvc, transferSvc, accounts, transactions)).
		Register(handler.NewOutstandingHandler(outstandingSvc)).
		Register(handler.NewInvoiceHandler(invoiceSvc, renewalSvc)).
		Register(handler.NewWebhookHandler(webhookSvc)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := renewalScheduler.Stop(shutdownCtx); err != nil {
		log.Warn("Renewal scheduler did not stop cleanly", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
