package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/rentfolio/backend/internal/application/billing"
	financeapp "github.com/rentfolio/backend/internal/application/finance"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/rentfolio/backend/internal/infrastructure/cache"
	"github.com/rentfolio/backend/internal/infrastructure/persistence"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"github.com/rentfolio/backend/internal/interfaces/http/middleware"
	"github.com/rentfolio/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testTolerance = decimal.NewFromInt(1)

// testServer boots the full HTTP surface against a fresh SQLite database.
type testServer struct {
	engine   *gin.Engine
	db       *gorm.DB
	accounts *persistence.GormAccountRepository
	invoices *persistence.GormInvoiceRepository
	items    *persistence.GormInvoiceItemRepository
	tenants  *persistence.GormTenancyRepository

	routing       financeapp.AccountRouting
	gatewayUserID uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	srv := &testServer{
		db:       db,
		accounts: persistence.NewGormAccountRepository(db),
		invoices: persistence.NewGormInvoiceRepository(db),
		items:    persistence.NewGormInvoiceItemRepository(db),
		tenants:  persistence.NewGormTenancyRepository(db),
		routing: financeapp.AccountRouting{
			MainAccountID:    uuid.New(),
			GatewayAccountID: uuid.New(),
		},
		gatewayUserID: uuid.New(),
	}

	uow := persistence.NewGormUnitOfWork(db)
	rents := persistence.NewGormRentPaymentRepository(db)
	txs := persistence.NewGormTransactionRepository(db)
	sessions := persistence.NewGormPaymentSessionRepository(db)

	ledgerSvc := finance.NewLedgerService(testTolerance)
	paymentSvc := financeapp.NewRentPaymentService(uow, ledgerSvc, srv.routing)
	expenseSvc := financeapp.NewExpenseService(uow, ledgerSvc)
	transferSvc := financeapp.NewTransferService(uow, ledgerSvc)
	outstandingSvc := financeapp.NewOutstandingService(srv.invoices, srv.items, rents, srv.tenants)
	invoiceSvc := billingapp.NewInvoiceService(uow, srv.invoices, srv.items, rents, txs, testTolerance)
	renewalSvc := billingapp.NewRenewalService(uow, srv.tenants, zap.NewNop())

	store := cache.NewMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	webhookSvc := financeapp.NewGatewayWebhookService(sessions, srv.invoices, srv.items, paymentSvc, store, srv.gatewayUserID, zap.NewNop())

	for id, name := range map[uuid.UUID]string{
		srv.routing.MainAccountID:    "Main",
		srv.routing.GatewayAccountID: "Gateway",
	} {
		require.NoError(t, srv.accounts.Save(context.Background(), ledger.NewHouseAccount(id, name)))
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", NewSystemHandler(db, "rentfolio-backend", "test").Health)
	router.NewRouter(engine).
		Register(NewFinanceHandler(paymentSvc, expenseSvc, transferSvc, srv.accounts, txs)).
		Register(NewOutstandingHandler(outstandingSvc)).
		Register(NewInvoiceHandler(invoiceSvc, renewalSvc)).
		Register(NewWebhookHandler(webhookSvc)).
		Setup()

	srv.engine = engine
	return srv
}

// do performs a JSON request against the test server.
func (s *testServer) do(t *testing.T, method, path string, body any, userID *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body into a generic envelope map.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// createInvoice inserts an invoice with line items directly.
func (s *testServer) createInvoice(t *testing.T, tenantID uuid.UUID, itemAmounts []int64) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice(uuid.New(), tenantID, time.Now().UTC(), nil, nil, billing.InvoiceStatusPending, "")
	require.NoError(t, err)
	require.NoError(t, s.invoices.Create(context.Background(), invoice))
	for i, amount := range itemAmounts {
		item, err := billing.NewInvoiceItem(invoice.ID, fmt.Sprintf("Rent line %d", i+1), decimal.NewFromInt(amount))
		require.NoError(t, err)
		require.NoError(t, s.items.Create(context.Background(), item))
	}
	return invoice
}

// createOwnedAccount creates a funded account owned by a user.
func (s *testServer) createOwnedAccount(t *testing.T, owner uuid.UUID, balance int64) *ledger.MonetaryAccount {
	t.Helper()
	account, err := ledger.NewMonetaryAccount("Caretaker "+owner.String()[:8], owner)
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, account.Credit(valueobject.NewMoneyAED(decimal.NewFromInt(balance))))
	}
	require.NoError(t, s.accounts.Save(context.Background(), account))
	return account
}

func (s *testServer) accountBalance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	account, err := s.accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}
