package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/rentfolio/backend/internal/application/finance"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// FinanceHandler handles money-movement API endpoints: rent payments,
// expenses, transfers, and account reads.
type FinanceHandler struct {
	BaseHandler
	payments     *financeapp.RentPaymentService
	expenses     *financeapp.ExpenseService
	transfers    *financeapp.TransferService
	accounts     ledger.AccountRepository
	transactions ledger.TransactionRepository
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(
	payments *financeapp.RentPaymentService,
	expenses *financeapp.ExpenseService,
	transfers *financeapp.TransferService,
	accounts ledger.AccountRepository,
	transactions ledger.TransactionRepository,
) *FinanceHandler {
	return &FinanceHandler{
		payments:     payments,
		expenses:     expenses,
		transfers:    transfers,
		accounts:     accounts,
		transactions: transactions,
	}
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/finance")
	{
		finance.POST("/rent-payments", h.RecordRentPayment)
		finance.GET("/rent-payments/:id", h.GetRentPayment)
		finance.POST("/expenses", h.RecordExpense)
		finance.POST("/transfers", h.RecordTransfer)
		finance.GET("/accounts", h.ListAccounts)
		finance.GET("/accounts/:id", h.GetAccount)
		finance.GET("/accounts/:id/transactions", h.ListAccountTransactions)
		finance.GET("/properties/:id/expenses", h.ListPropertyExpenses)
	}
}

// RecordRentPaymentRequest is the body for recording a rent payment
type RecordRentPaymentRequest struct {
	TenantID  uuid.UUID       `json:"tenant_id" binding:"required"`
	InvoiceID *uuid.UUID      `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required"`
}

// RecordRentPayment records a rent payment collected by the acting user
func (h *FinanceHandler) RecordRentPayment(c *gin.Context) {
	recordedBy, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid or missing X-User-ID header")
		return
	}

	var req RecordRentPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.payments.RecordRentPayment(c.Request.Context(), recordedBy, financeapp.RentPaymentRequest{
		TenantID:  req.TenantID,
		InvoiceID: req.InvoiceID,
		Amount:    req.Amount,
		Method:    ledger.PaymentMethod(req.Method),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// GetRentPayment returns a rent payment with its ledger transaction
func (h *FinanceHandler) GetRentPayment(c *gin.Context) {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	record, err := h.payments.PaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// RecordExpenseRequest is the body for recording an expense
type RecordExpenseRequest struct {
	PropertyID  *uuid.UUID      `json:"property_id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// RecordExpense records an expense paid from the acting user's account
func (h *FinanceHandler) RecordExpense(c *gin.Context) {
	paidBy, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid or missing X-User-ID header")
		return
	}

	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.expenses.RecordExpense(c.Request.Context(), financeapp.ExpenseRequest{
		PaidBy:      paidBy,
		PropertyID:  req.PropertyID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// RecordTransferRequest is the body for recording a transfer
type RecordTransferRequest struct {
	SourceAccountID      uuid.UUID       `json:"source_account_id" binding:"required"`
	DestinationAccountID uuid.UUID       `json:"destination_account_id" binding:"required"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description"`
}

// RecordTransfer moves money between two accounts
func (h *FinanceHandler) RecordTransfer(c *gin.Context) {
	var req RecordTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.transfers.RecordTransfer(c.Request.Context(), financeapp.TransferRequest{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
		Description:          req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tx)
}

// ListAccounts returns all monetary accounts
func (h *FinanceHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.FindAll(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, accounts)
}

// GetAccount returns a single monetary account
func (h *FinanceHandler) GetAccount(c *gin.Context) {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accounts.FindByID(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, account)
}

// ListAccountTransactions returns the ledger entries touching an account
func (h *FinanceHandler) ListAccountTransactions(c *gin.Context) {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}
	limit, offset := paginationParams(c)

	txs, err := h.transactions.ListForAccount(c.Request.Context(), accountID, limit, offset)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, txs)
}

// ListPropertyExpenses returns the expenses attributed to a property
func (h *FinanceHandler) ListPropertyExpenses(c *gin.Context) {
	propertyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}
	limit, offset := paginationParams(c)

	expenses, err := h.expenses.ListForProperty(c.Request.Context(), propertyID, limit, offset)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, expenses)
}

// paginationParams reads limit/offset query parameters with defaults
func paginationParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
