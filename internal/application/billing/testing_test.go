package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/billing"
	"github.com/rentfolio/backend/internal/infrastructure/persistence"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testTolerance = decimal.NewFromInt(1)

// testEnv wires the billing services against a fresh SQLite database.
type testEnv struct {
	db       *gorm.DB
	uow      *persistence.GormUnitOfWork
	invoices *persistence.GormInvoiceRepository
	items    *persistence.GormInvoiceItemRepository
	rents    *persistence.GormRentPaymentRepository
	txs      *persistence.GormTransactionRepository
	tenants  *persistence.GormTenancyRepository

	service *InvoiceService
	renewal *RenewalService
}

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
		invoices: persistence.NewGormInvoiceRepository(db),
		items:    persistence.NewGormInvoiceItemRepository(db),
		rents:    persistence.NewGormRentPaymentRepository(db),
		txs:      persistence.NewGormTransactionRepository(db),
		tenants:  persistence.NewGormTenancyRepository(db),
	}
	env.service = NewInvoiceService(env.uow, env.invoices, env.items, env.rents, env.txs, testTolerance)
	env.renewal = NewRenewalService(env.uow, env.tenants, zap.NewNop())
	return env
}

// createTenancy creates a renewable tenancy and its latest invoice with
// the given period start.
func (e *testEnv) createTenancyWithInvoice(t *testing.T, periodDays int, periodStart time.Time, itemAmounts []int64, notes string) (*billing.Tenancy, *billing.Invoice) {
	t.Helper()
	tenancy, err := billing.NewTenancy(uuid.New(), uuid.New(), nil, periodStart, true, periodDays)
	require.NoError(t, err)
	require.NoError(t, e.tenants.Create(context.Background(), tenancy))

	invoice, err := billing.NewInvoice(tenancy.ID, tenancy.TenantID, periodStart, nil, nil, billing.InvoiceStatusPending, notes)
	require.NoError(t, err)
	require.NoError(t, e.invoices.Create(context.Background(), invoice))
	for i, amount := range itemAmounts {
		item, err := billing.NewInvoiceItem(invoice.ID, fmt.Sprintf("Rent line %d", i+1), decimal.NewFromInt(amount))
		require.NoError(t, err)
		require.NoError(t, e.items.Create(context.Background(), item))
	}
	return tenancy, invoice
}
