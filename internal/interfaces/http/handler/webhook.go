package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/rentfolio/backend/internal/application/finance"
)

// WebhookHandler handles payment gateway callbacks and the session
// bookkeeping around them.
type WebhookHandler struct {
	BaseHandler
	webhooks *financeapp.GatewayWebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *financeapp.GatewayWebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/webhooks/gateway")
	{
		webhooks.POST("", h.CheckoutCompleted)
		webhooks.POST("/sessions", h.CreateSession)
		webhooks.GET("/sessions/:id", h.GetSession)
	}
}

// CheckoutCompletedRequest is the gateway's checkout-completed payload
type CheckoutCompletedRequest struct {
	SessionID        string `json:"session_id" binding:"required"`
	PaymentReference string `json:"payment_reference"`
}

// CheckoutCompleted processes a checkout-completed notification. The
// gateway retries deliveries, so the operation is idempotent per session.
func (h *WebhookHandler) CheckoutCompleted(c *gin.Context) {
	var req CheckoutCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.webhooks.HandleCheckoutCompleted(c.Request.Context(), req.SessionID, req.PaymentReference); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"session_id": req.SessionID, "processed": true})
}

// CreateSessionRequest is the body for registering a pending checkout
// session
type CreateSessionRequest struct {
	SessionID  string      `json:"session_id" binding:"required"`
	TenantID   uuid.UUID   `json:"tenant_id" binding:"required"`
	InvoiceIDs []uuid.UUID `json:"invoice_ids" binding:"required,min=1"`
}

// CreateSession registers a pending checkout session for a set of a
// tenant's invoices
func (h *WebhookHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.webhooks.CreateSession(c.Request.Context(), req.SessionID, req.TenantID, req.InvoiceIDs)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, session)
}

// GetSession returns a checkout session by its gateway session id
func (h *WebhookHandler) GetSession(c *gin.Context) {
	session, err := h.webhooks.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, session)
}
