package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/rentfolio/backend/internal/application/billing"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice and tenancy API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices *billingapp.InvoiceService
	renewals *billingapp.RenewalService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *billingapp.InvoiceService, renewals *billingapp.RenewalService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, renewals: renewals}
}

// RegisterRoutes registers invoice and tenancy routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.GET("/:id/payments", h.ListInvoicePayments)
		invoices.POST("/:id/refresh-status", h.RefreshInvoiceStatus)
	}
	tenancies := rg.Group("/tenancies")
	{
		tenancies.POST("", h.CreateTenancy)
		tenancies.POST("/:id/renew", h.RenewTenancy)
	}
}

// InvoiceItemRequest is one requested invoice line
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateInvoiceRequest is the body for creating an invoice
type CreateInvoiceRequest struct {
	TenancyID uuid.UUID            `json:"tenancy_id" binding:"required"`
	TenantID  uuid.UUID            `json:"tenant_id" binding:"required"`
	DueDate   *time.Time           `json:"due_date"`
	Discount  *decimal.Decimal     `json:"discount"`
	Notes     string               `json:"notes"`
	Items     []InvoiceItemRequest `json:"items" binding:"required,min=1"`
}

// CreateInvoice creates a pending invoice with its line items
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items := make([]billingapp.InvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, billingapp.InvoiceItemInput{
			Description: item.Description,
			Amount:      item.Amount,
		})
	}

	record, err := h.invoices.CreateInvoice(c.Request.Context(), billingapp.CreateInvoiceRequest{
		TenancyID: req.TenancyID,
		TenantID:  req.TenantID,
		DueDate:   req.DueDate,
		Discount:  req.Discount,
		Notes:     req.Notes,
		Items:     items,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// ListInvoices lists a tenant's invoices with derived totals
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	tenantIDStr := c.Query("tenant_id")
	if tenantIDStr == "" {
		h.BadRequest(c, "tenant_id query parameter is required")
		return
	}
	tenantID, err := uuid.Parse(tenantIDStr)
	if err != nil {
		h.BadRequest(c, "Invalid tenant_id format")
		return
	}

	details, err := h.invoices.ListForTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, details)
}

// GetInvoice returns an invoice with its items and derived monetary state
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	detail, err := h.invoices.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, detail)
}

// ListInvoicePayments returns the payments recorded against an invoice
// joined with their ledger transactions
func (h *InvoiceHandler) ListInvoicePayments(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	records, err := h.invoices.PaymentsForInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, records)
}

// RefreshInvoiceStatus recomputes an invoice's status from its payments
func (h *InvoiceHandler) RefreshInvoiceStatus(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoices.RefreshStatus(c.Request.Context(), invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	detail, err := h.invoices.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, detail)
}

// CreateTenancyRequest is the body for creating a tenancy with its first
// rent invoice
type CreateTenancyRequest struct {
	TenantID          uuid.UUID        `json:"tenant_id" binding:"required"`
	PropertyID        uuid.UUID        `json:"property_id" binding:"required"`
	SubUnitID         *uuid.UUID       `json:"sub_unit_id"`
	Start             time.Time        `json:"start" binding:"required"`
	Renewable         bool             `json:"renewable"`
	RenewalPeriodDays int              `json:"renewal_period_days"`
	Rent              decimal.Decimal  `json:"rent"`
	DueDate           *time.Time       `json:"due_date"`
	Discount          *decimal.Decimal `json:"discount"`
	Notes             string           `json:"notes"`
}

// CreateTenancy creates a tenancy together with its first invoice
func (h *InvoiceHandler) CreateTenancy(c *gin.Context) {
	var req CreateTenancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.invoices.CreateTenancyWithFirstInvoice(c.Request.Context(), billingapp.CreateTenancyRequest{
		TenantID:          req.TenantID,
		PropertyID:        req.PropertyID,
		SubUnitID:         req.SubUnitID,
		Start:             req.Start,
		Renewable:         req.Renewable,
		RenewalPeriodDays: req.RenewalPeriodDays,
		Rent:              req.Rent,
		DueDate:           req.DueDate,
		Discount:          req.Discount,
		Notes:             req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// RenewTenancy runs a targeted renewal for one tenancy
func (h *InvoiceHandler) RenewTenancy(c *gin.Context) {
	tenancyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenancy ID format")
		return
	}

	invoiceID, renewed, err := h.renewals.RenewTenancy(c.Request.Context(), tenancyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp := gin.H{"tenancy_id": tenancyID, "renewed": renewed}
	if renewed {
		resp["invoice_id"] = invoiceID
	}
	h.Success(c, resp)
}
