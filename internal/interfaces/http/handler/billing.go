package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applsvc "github.com/openbooks/ledger/internal/application/billing"
	"github.com/openbooks/ledger/internal/domain/billing"
)

// BillingHandler exposes invoices and bills over HTTP
type BillingHandler struct {
	BaseHandler
	service *applsvc.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(service *applsvc.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

// CreateInvoice handles POST /invoices
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req applsvc.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	inv, err := h.service.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, inv)
}

// GetInvoice handles GET /invoices/:id
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	inv, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// ListInvoices handles GET /invoices
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	base, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := billing.InvoiceFilter{Filter: base}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid client_id value")
			return
		}
		filter.ClientID = &clientID
	}
	if raw := c.Query("status"); raw != "" {
		status := billing.DocumentStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("overdue"); raw != "" {
		overdue, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid overdue value")
			return
		}
		filter.Overdue = &overdue
	}

	page, err := h.service.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddInvoiceLine handles POST /invoices/:id/lines
func (h *BillingHandler) AddInvoiceLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var line billing.LineInput
	if err := c.ShouldBindJSON(&line); err != nil {
		h.BindError(c, err)
		return
	}
	inv, err := h.service.AddInvoiceLine(c.Request.Context(), id, line)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// RemoveInvoiceLine handles DELETE /invoices/:id/lines/:lineId
func (h *BillingHandler) RemoveInvoiceLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	lineID, ok := parseUUIDParam(c, "lineId")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}
	inv, err := h.service.RemoveInvoiceLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// ApplyInvoicePayment handles POST /invoices/:id/payments
func (h *BillingHandler) ApplyInvoicePayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req applsvc.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	inv, err := h.service.ApplyInvoicePayment(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// DeleteInvoicePayment handles DELETE /invoices/:id/payments/:paymentId
func (h *BillingHandler) DeleteInvoicePayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	paymentID, ok := parseUUIDParam(c, "paymentId")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}
	inv, err := h.service.DeleteInvoicePayment(c.Request.Context(), id, paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// MarkInvoiceSent handles POST /invoices/:id/send
func (h *BillingHandler) MarkInvoiceSent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	inv, err := h.service.MarkInvoiceSent(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// MarkInvoiceViewed handles POST /invoices/:id/view
func (h *BillingHandler) MarkInvoiceViewed(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	inv, err := h.service.MarkInvoiceViewed(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// CancelInvoice handles POST /invoices/:id/cancel
func (h *BillingHandler) CancelInvoice(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	inv, err := h.service.CancelInvoice(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// CreateBill handles POST /bills
func (h *BillingHandler) CreateBill(c *gin.Context) {
	var req applsvc.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	b, err := h.service.CreateBill(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, b)
}

// GetBill handles GET /bills/:id
func (h *BillingHandler) GetBill(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}
	b, err := h.service.GetBill(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, b)
}

// ListBills handles GET /bills
func (h *BillingHandler) ListBills(c *gin.Context) {
	base, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := billing.BillFilter{Filter: base}
	if raw := c.Query("vendor_id"); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid vendor_id value")
			return
		}
		filter.VendorID = &vendorID
	}
	if raw := c.Query("status"); raw != "" {
		status := billing.DocumentStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("overdue"); raw != "" {
		overdue, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid overdue value")
			return
		}
		filter.Overdue = &overdue
	}

	page, err := h.service.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddBillLine handles POST /bills/:id/lines
func (h *BillingHandler) AddBillLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}
	var line billing.LineInput
	if err := c.ShouldBindJSON(&line); err != nil {
		h.BindError(c, err)
		return
	}
	b, err := h.service.AddBillLine(c.Request.Context(), id, line)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, b)
}

// RemoveBillLine handles DELETE /bills/:id/lines/:lineId
func (h *BillingHandler) RemoveBillLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}
	lineID, ok := parseUUIDParam(c, "lineId")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}
	b, err := h.service.RemoveBillLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, b)
}

// ApplyBillPayment handles POST /bills/:id/payments
func (h *BillingHandler) ApplyBillPayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}
	var req applsvc.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	b, err := h.service.ApplyBillPayment(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, b)
}

// DeleteBillPayment handles DELETE /bills/:id/payments/:paymentId
func (h *BillingHandler) DeleteBillPayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}
	paymentID, ok := parseUUIDParam(c, "paymentId")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}
	b, err := h.service.DeleteBillPayment(c.Request.Context(), id, paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, b)
}

// MarkBillOpen handles POST /bills/:id/open
func (h *BillingHandler) MarkBillOpen(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}
	b, err := h.service.MarkBillOpen(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, b)
}

// CancelBill handles POST /bills/:id/cancel
func (h *BillingHandler) CancelBill(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	b, err := h.service.CancelBill(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, b)
}

// RefreshOverdue handles POST /billing/refresh-overdue
func (h *BillingHandler) RefreshOverdue(c *gin.Context) {
	changed, err := h.service.RefreshOverdueStatuses(c.Request.Context(), time.Now())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"changed": changed})
}
