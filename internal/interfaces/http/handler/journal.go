package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	applsvc "github.com/openbooks/ledger/internal/application/ledger"
	"github.com/openbooks/ledger/internal/domain/ledger"
)

// JournalHandler exposes multi-line journal entries over HTTP
type JournalHandler struct {
	BaseHandler
	service *applsvc.JournalService
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(service *applsvc.JournalService) *JournalHandler {
	return &JournalHandler{service: service}
}

// Create handles POST /journal-entries
func (h *JournalHandler) Create(c *gin.Context) {
	var req applsvc.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	group, err := h.service.CreateJournalEntry(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, group)
}

// Get handles GET /journal-entries/:id
func (h *JournalHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry ID")
		return
	}
	group, err := h.service.GetGroup(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, group)
}

// List handles GET /journal-entries
func (h *JournalHandler) List(c *gin.Context) {
	base, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := ledger.GroupFilter{Filter: base}
	if raw := c.Query("status"); raw != "" {
		status := ledger.GroupStatus(raw)
		filter.Status = &status
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

	page, err := h.service.ListGroups(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Post handles POST /journal-entries/:id/post
func (h *JournalHandler) Post(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry ID")
		return
	}
	group, err := h.service.PostGroup(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, group)
}

// Reverse handles POST /journal-entries/:id/reverse
func (h *JournalHandler) Reverse(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry ID")
		return
	}
	group, err := h.service.ReverseGroup(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, group)
}

// Delete handles DELETE /journal-entries/:id
func (h *JournalHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry ID")
		return
	}
	if err := h.service.DeleteGroup(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
