package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applsvc "github.com/openbooks/ledger/internal/application/ledger"
	"github.com/openbooks/ledger/internal/domain/ledger"
)

// TransactionHandler exposes single ledger transactions over HTTP
type TransactionHandler struct {
	BaseHandler
	service *applsvc.PostingService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *applsvc.PostingService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req applsvc.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tx, err := h.service.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, tx)
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	tx, err := h.service.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, tx)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	base, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := ledger.TransactionFilter{Filter: base}
	if raw := c.Query("account_id"); raw != "" {
		accountID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid account_id value")
			return
		}
		filter.AccountID = &accountID
	}
	if raw := c.Query("status"); raw != "" {
		status := ledger.TransactionStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("group_id"); raw != "" {
		groupID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid group_id value")
			return
		}
		filter.GroupID = &groupID
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

	page, err := h.service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Post handles POST /transactions/:id/post
func (h *TransactionHandler) Post(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	tx, err := h.service.PostTransaction(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, tx)
}

// Reverse handles POST /transactions/:id/reverse
func (h *TransactionHandler) Reverse(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	reversal, err := h.service.ReverseTransaction(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, reversal)
}

// Delete handles DELETE /transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	if err := h.service.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
