package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/rentfolio/backend/internal/application/finance"
)

// OutstandingHandler exposes read-only outstanding balance and payment
// history endpoints used by dashboards.
type OutstandingHandler struct {
	BaseHandler
	outstanding *financeapp.OutstandingService
}

// NewOutstandingHandler creates a new OutstandingHandler
func NewOutstandingHandler(outstanding *financeapp.OutstandingService) *OutstandingHandler {
	return &OutstandingHandler{outstanding: outstanding}
}

// RegisterRoutes registers outstanding balance routes
func (h *OutstandingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/finance")
	{
		finance.GET("/tenants/:id/outstanding", h.TenantOutstanding)
		finance.GET("/tenancies/:id/outstanding", h.TenancyOutstanding)
		finance.GET("/tenancies/:id/paid-rent", h.TenancyPaidRent)
		finance.GET("/properties/:id/outstanding", h.PropertyOutstanding)
	}
}

// TenantOutstanding reports whether a tenant has open invoices and the
// summed total of those invoices
func (h *OutstandingHandler) TenantOutstanding(c *gin.Context) {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	result, err := h.outstanding.TenantOutstanding(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// TenancyOutstanding reports the remaining amount across a tenancy's
// open invoices
func (h *OutstandingHandler) TenancyOutstanding(c *gin.Context) {
	tenancyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenancy ID format")
		return
	}

	amount, err := h.outstanding.TenancyOutstanding(c.Request.Context(), tenancyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"tenancy_id": tenancyID, "outstanding": amount})
}

// PropertyOutstanding reports the remaining amount across the open
// invoices of every tenancy of a property
func (h *OutstandingHandler) PropertyOutstanding(c *gin.Context) {
	propertyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	amount, err := h.outstanding.PropertyOutstanding(c.Request.Context(), propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"property_id": propertyID, "outstanding": amount})
}

// TenancyPaidRent reports the total rent collected for a tenancy and its
// most recent payment
func (h *OutstandingHandler) TenancyPaidRent(c *gin.Context) {
	tenancyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenancy ID format")
		return
	}

	ctx := c.Request.Context()
	total, err := h.outstanding.TenantTotalPaidRent(ctx, tenancyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	last, err := h.outstanding.TenantLastPayment(ctx, tenancyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"tenancy_id":   tenancyID,
		"total_paid":   total,
		"last_payment": last,
	})
}
