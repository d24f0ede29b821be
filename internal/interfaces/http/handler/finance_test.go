package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRentPayment_FullPaymentOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	tenantID := uuid.New()
	recordedBy := uuid.New()
	invoice := srv.createInvoice(t, tenantID, []int64{1000, 100})

	w := srv.do(t, http.MethodPost, "/api/v1/finance/rent-payments", map[string]any{
		"tenant_id":  tenantID,
		"invoice_id": invoice.ID,
		"amount":     "1100",
		"method":     "BankTransferToMain",
	}, &recordedBy)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.True(t, srv.accountBalance(t, srv.routing.MainAccountID).Equal(decimal.NewFromInt(1100)))

	// The invoice is now settled, a second full payment conflicts.
	w = srv.do(t, http.MethodPost, "/api/v1/finance/rent-payments", map[string]any{
		"tenant_id":  tenantID,
		"invoice_id": invoice.ID,
		"amount":     "1100",
		"method":     "BankTransferToMain",
	}, &recordedBy)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_PAID", errorCode(t, w))
}

func TestRecordRentPayment_RequiresUserHeader(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/finance/rent-payments", map[string]any{
		"tenant_id": uuid.New(),
		"amount":    "100",
		"method":    "Cash",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordRentPayment_UnknownInvoice(t *testing.T) {
	srv := newTestServer(t)
	recordedBy := uuid.New()

	w := srv.do(t, http.MethodPost, "/api/v1/finance/rent-payments", map[string]any{
		"tenant_id":  uuid.New(),
		"invoice_id": uuid.New(),
		"amount":     "100",
		"method":     "BankTransferToMain",
	}, &recordedBy)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestRecordRentPayment_InvalidMethod(t *testing.T) {
	srv := newTestServer(t)
	recordedBy := uuid.New()

	w := srv.do(t, http.MethodPost, "/api/v1/finance/rent-payments", map[string]any{
		"tenant_id": uuid.New(),
		"amount":    "100",
		"method":    "Cheque",
	}, &recordedBy)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PAYMENT_METHOD", errorCode(t, w))
}

func TestRecordExpense_InsufficientFundsReturns402(t *testing.T) {
	srv := newTestServer(t)
	payer := uuid.New()
	srv.createOwnedAccount(t, payer, 100)

	w := srv.do(t, http.MethodPost, "/api/v1/finance/expenses", map[string]any{
		"category":    "Maintenance",
		"description": "Roof repair",
		"amount":      "5000",
	}, &payer)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", errorCode(t, w))
}

func TestRecordExpense_OverHTTP(t *testing.T) {
	srv := newTestServer(t)
	payer := uuid.New()
	account := srv.createOwnedAccount(t, payer, 2000)

	w := srv.do(t, http.MethodPost, "/api/v1/finance/expenses", map[string]any{
		"category":    "Maintenance",
		"description": "Plumbing",
		"amount":      "500",
	}, &payer)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, srv.accountBalance(t, account.ID).Equal(decimal.NewFromInt(1500)))
}

func TestRecordTransfer_OverHTTP(t *testing.T) {
	srv := newTestServer(t)
	owner := uuid.New()
	source := srv.createOwnedAccount(t, owner, 800)

	w := srv.do(t, http.MethodPost, "/api/v1/finance/transfers", map[string]any{
		"source_account_id":      source.ID,
		"destination_account_id": srv.routing.MainAccountID,
		"amount":                 "300",
		"description":            "Cash deposit",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, srv.accountBalance(t, source.ID).Equal(decimal.NewFromInt(500)))
	assert.True(t, srv.accountBalance(t, srv.routing.MainAccountID).Equal(decimal.NewFromInt(300)))
}

func TestListAccounts(t *testing.T) {
	srv := newTestServer(t)
	srv.createOwnedAccount(t, uuid.New(), 50)

	w := srv.do(t, http.MethodGet, "/api/v1/finance/accounts", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	// Main, Gateway, and the owned account.
	accounts, ok := resp["data"].([]any)
	require.True(t, ok)
	assert.Len(t, accounts, 3)
}

func TestGetAccount_NotFound(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/finance/accounts/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/finance/accounts/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
