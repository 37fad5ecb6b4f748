package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applsvc "github.com/openbooks/ledger/internal/application/voucher"
	"github.com/openbooks/ledger/internal/domain/voucher"
)

// VoucherHandler exposes the voucher workflow over HTTP
type VoucherHandler struct {
	BaseHandler
	service *applsvc.VoucherService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(service *applsvc.VoucherService) *VoucherHandler {
	return &VoucherHandler{service: service}
}

// Create handles POST /vouchers
func (h *VoucherHandler) Create(c *gin.Context) {
	var req applsvc.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	v, err := h.service.CreateVoucher(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, v)
}

// Get handles GET /vouchers/:id
func (h *VoucherHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}
	v, err := h.service.GetVoucher(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, v)
}

// List handles GET /vouchers
func (h *VoucherHandler) List(c *gin.Context) {
	base, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := voucher.Filter{Filter: base}
	if raw := c.Query("type"); raw != "" {
		t := voucher.Type(raw)
		filter.Type = &t
	}
	if raw := c.Query("status"); raw != "" {
		status := voucher.Status(raw)
		filter.Status = &status
	}
	if raw := c.Query("party_kind"); raw != "" {
		kind := voucher.PartyKind(raw)
		filter.PartyKind = &kind
	}
	if raw := c.Query("party_id"); raw != "" {
		partyID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid party_id value")
			return
		}
		filter.PartyID = &partyID
	}
	if raw := c.Query("from_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "from_date must be RFC3339")
			return
		}
		filter.FromDate = &t
	}
	if raw := c.Query("to_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "to_date must be RFC3339")
			return
		}
		filter.ToDate = &t
	}

	page, err := h.service.ListVouchers(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Approve handles POST /vouchers/:id/approve
func (h *VoucherHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}
	v, err := h.service.ApproveVoucher(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, v)
}

// Post handles POST /vouchers/:id/post
func (h *VoucherHandler) Post(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}
	v, err := h.service.PostVoucher(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, v)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /vouchers/:id/cancel
func (h *VoucherHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	v, err := h.service.CancelVoucher(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, v)
}

// MigrateType handles POST /vouchers/:id/migrate-type
func (h *VoucherHandler) MigrateType(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}
	var req applsvc.MigrateVoucherTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	v, err := h.service.MigrateVoucherType(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, v)
}
