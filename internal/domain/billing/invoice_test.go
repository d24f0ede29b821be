package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tolerance = decimal.NewFromInt(1)

func newTestInvoice(t *testing.T, discount *decimal.Decimal) *Invoice {
	t.Helper()
	invoice, err := NewInvoice(uuid.New(), uuid.New(), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		nil, discount, InvoiceStatusPending, "")
	require.NoError(t, err)
	return invoice
}

func itemsOf(t *testing.T, invoiceID uuid.UUID, amounts ...float64) []*InvoiceItem {
	t.Helper()
	items := make([]*InvoiceItem, 0, len(amounts))
	for _, a := range amounts {
		item, err := NewInvoiceItem(invoiceID, "Rent", decimal.NewFromFloat(a))
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func TestNewInvoice_Defaults(t *testing.T) {
	invoice := newTestInvoice(t, nil)
	assert.Equal(t, InvoiceStatusPending, invoice.Status)
	assert.Equal(t, time.UTC, invoice.PeriodStart.Location())

	_, err := NewInvoice(uuid.Nil, uuid.New(), time.Now(), nil, nil, "", "")
	assert.Error(t, err)

	neg := decimal.NewFromInt(-10)
	_, err = NewInvoice(uuid.New(), uuid.New(), time.Now(), nil, &neg, "", "")
	assert.Error(t, err)
}

func TestInvoice_Total(t *testing.T) {
	invoice := newTestInvoice(t, nil)
	items := itemsOf(t, invoice.ID, 1000, 100)

	assert.True(t, invoice.Total(items).Equal(decimal.NewFromInt(1100)))
}

func TestInvoice_Total_WithDiscount(t *testing.T) {
	discount := decimal.NewFromInt(200)
	invoice := newTestInvoice(t, &discount)
	items := itemsOf(t, invoice.ID, 1000, 100)

	assert.True(t, invoice.Total(items).Equal(decimal.NewFromInt(900)))
}

func TestInvoice_Total_DiscountExceedsItems(t *testing.T) {
	// The total is not clamped: an oversized discount yields a negative
	// total, which a zero payment sum then settles within the tolerance
	// semantics of IsSettled.
	discount := decimal.NewFromInt(150)
	invoice := newTestInvoice(t, &discount)
	items := itemsOf(t, invoice.ID, 100)

	total := invoice.Total(items)
	assert.True(t, total.Equal(decimal.NewFromInt(-50)))
	assert.True(t, invoice.IsSettled(decimal.Zero, total, tolerance))
}

func TestInvoice_IsSettled(t *testing.T) {
	invoice := newTestInvoice(t, nil)
	total := decimal.NewFromInt(1100)

	cases := []struct {
		name    string
		paid    float64
		settled bool
	}{
		{"unpaid", 0, false},
		{"partially paid", 500, false},
		{"exactly paid", 1100, false},
		{"overpaid within tolerance", 1101, false},
		{"overpaid beyond tolerance", 1101.01, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := invoice.IsSettled(decimal.NewFromFloat(tc.paid), total, tolerance)
			assert.Equal(t, tc.settled, got)
		})
	}
}

func TestInvoice_Reconcile(t *testing.T) {
	total := decimal.NewFromInt(1100)

	cases := []struct {
		name string
		paid float64
		want InvoiceStatus
	}{
		{"unpaid", 0, InvoiceStatusOutstanding},
		{"partially paid", 500, InvoiceStatusOutstanding},
		{"paid within tolerance below", 1099.50, InvoiceStatusPaid},
		{"exactly paid", 1100, InvoiceStatusPaid},
		{"paid within tolerance above", 1100.50, InvoiceStatusPaid},
		{"off by exactly the tolerance", 1099, InvoiceStatusOutstanding},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invoice := newTestInvoice(t, nil)
			require.NoError(t, invoice.Reconcile(decimal.NewFromFloat(tc.paid), total, tolerance))
			assert.Equal(t, tc.want, invoice.Status)
		})
	}
}

func TestInvoice_Reconcile_Overpaid(t *testing.T) {
	invoice := newTestInvoice(t, nil)
	before := invoice.Status

	err := invoice.Reconcile(decimal.NewFromInt(1200), decimal.NewFromInt(1100), tolerance)
	require.Error(t, err)
	assert.Equal(t, "ALREADY_PAID", shared.CodeOf(err))
	assert.Equal(t, before, invoice.Status, "a rejected reconcile must not change the status")
}

func TestInvoice_Issue(t *testing.T) {
	invoice, err := NewInvoice(uuid.New(), uuid.New(), time.Now(), nil, nil, InvoiceStatusDraft, "")
	require.NoError(t, err)

	require.NoError(t, invoice.Issue())
	assert.Equal(t, InvoiceStatusPending, invoice.Status)

	assert.Error(t, invoice.Issue())
}

func TestInvoiceItem_CopyTo(t *testing.T) {
	source, err := NewInvoiceItem(uuid.New(), "Rent", decimal.NewFromInt(1100))
	require.NoError(t, err)

	target := uuid.New()
	copied, err := source.CopyTo(target)
	require.NoError(t, err)

	assert.Equal(t, target, copied.InvoiceID)
	assert.Equal(t, source.Description, copied.Description)
	assert.True(t, source.Amount.Equal(copied.Amount))
	assert.NotEqual(t, source.ID, copied.ID)
}

func TestTenancy_Evacuate(t *testing.T) {
	tenancy, err := NewTenancy(uuid.New(), uuid.New(), nil, time.Now(), true, 30)
	require.NoError(t, err)
	assert.True(t, tenancy.Active)

	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tenancy.Evacuate(date))
	assert.False(t, tenancy.Active)
	assert.False(t, tenancy.Renewable)
	require.NotNil(t, tenancy.EvacuationDate)
	assert.Equal(t, date, *tenancy.EvacuationDate)

	assert.Error(t, tenancy.Evacuate(date))
}

func TestNewTenancy_Validation(t *testing.T) {
	_, err := NewTenancy(uuid.New(), uuid.New(), nil, time.Now(), true, 0)
	assert.Error(t, err)

	tenancy, err := NewTenancy(uuid.New(), uuid.New(), nil, time.Now(), false, 99)
	require.NoError(t, err)
	assert.Equal(t, 0, tenancy.RenewalPeriodDays)
}
