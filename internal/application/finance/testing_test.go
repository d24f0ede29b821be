package finance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/domain/finance"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared/valueobject"
	"github.com/rentfolio/backend/internal/infrastructure/cache"
	"github.com/rentfolio/backend/internal/infrastructure/persistence"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the finance services against a fresh SQLite database,
// with the two house accounts bootstrapped.
type testEnv struct {
	db       *gorm.DB
	uow      *persistence.GormUnitOfWork
	accounts *persistence.GormAccountRepository
	invoices *persistence.GormInvoiceRepository
	items    *persistence.GormInvoiceItemRepository
	rents    *persistence.GormRentPaymentRepository
	txs      *persistence.GormTransactionRepository
	exps     *persistence.GormExpenseRepository
	sessions *persistence.GormPaymentSessionRepository
	tenants  *persistence.GormTenancyRepository

	routing       AccountRouting
	gatewayUserID uuid.UUID
	payments      *RentPaymentService
	expenses      *ExpenseService
	transfers     *TransferService
	outstanding   *OutstandingService
	webhook       *GatewayWebhookService
}

var testTolerance = decimal.NewFromInt(1)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

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

	env := &testEnv{
		db:       db,
		uow:      persistence.NewGormUnitOfWork(db),
		accounts: persistence.NewGormAccountRepository(db),
		invoices: persistence.NewGormInvoiceRepository(db),
		items:    persistence.NewGormInvoiceItemRepository(db),
		rents:    persistence.NewGormRentPaymentRepository(db),
		txs:      persistence.NewGormTransactionRepository(db),
		exps:     persistence.NewGormExpenseRepository(db),
		sessions: persistence.NewGormPaymentSessionRepository(db),
		tenants:  persistence.NewGormTenancyRepository(db),
		routing: AccountRouting{
			MainAccountID:    uuid.New(),
			GatewayAccountID: uuid.New(),
		},
	}

	env.gatewayUserID = uuid.New()
	ledgerSvc := finance.NewLedgerService(testTolerance)
	env.payments = NewRentPaymentService(env.uow, ledgerSvc, env.routing)
	env.expenses = NewExpenseService(env.uow, ledgerSvc)
	env.transfers = NewTransferService(env.uow, ledgerSvc)
	env.outstanding = NewOutstandingService(env.invoices, env.items, env.rents, env.tenants)

	store := cache.NewMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	env.webhook = NewGatewayWebhookService(env.sessions, env.invoices, env.items, env.payments, store, env.gatewayUserID, testLogger())

	env.createHouseAccount(t, env.routing.MainAccountID, "Main")
	env.createHouseAccount(t, env.routing.GatewayAccountID, "Gateway")
	return env
}

func (e *testEnv) createHouseAccount(t *testing.T, id uuid.UUID, name string) {
	t.Helper()
	account := ledger.NewHouseAccount(id, name)
	require.NoError(t, e.accounts.Save(context.Background(), account))
}

// createOwnedAccount creates an account owned by a user and funds it.
func (e *testEnv) createOwnedAccount(t *testing.T, owner uuid.UUID, balance int64) *ledger.MonetaryAccount {
	t.Helper()
	account, err := ledger.NewMonetaryAccount("Caretaker "+owner.String()[:8], owner)
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, account.Credit(valueobject.NewMoneyAED(decimal.NewFromInt(balance))))
	}
	require.NoError(t, e.accounts.Save(context.Background(), account))
	return account
}

// createInvoice creates an invoice with one line item per amount, plus an
// optional discount.
func (e *testEnv) createInvoice(t *testing.T, tenancyID, tenantID uuid.UUID, itemAmounts []int64, discount *int64) *billing.Invoice {
	t.Helper()
	var disc *decimal.Decimal
	if discount != nil {
		d := decimal.NewFromInt(*discount)
		disc = &d
	}
	invoice, err := billing.NewInvoice(tenancyID, tenantID, time.Now().UTC(), nil, disc, billing.InvoiceStatusPending, "")
	require.NoError(t, err)
	require.NoError(t, e.invoices.Create(context.Background(), invoice))
	for i, amount := range itemAmounts {
		item, err := billing.NewInvoiceItem(invoice.ID, fmt.Sprintf("Rent line %d", i+1), decimal.NewFromInt(amount))
		require.NoError(t, err)
		require.NoError(t, e.items.Create(context.Background(), item))
	}
	return invoice
}

func (e *testEnv) accountBalance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	account, err := e.accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func (e *testEnv) invoiceStatus(t *testing.T, id uuid.UUID) billing.InvoiceStatus {
	t.Helper()
	invoice, err := e.invoices.FindByID(context.Background(), id)
	require.NoError(t, err)
	return invoice.Status
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
