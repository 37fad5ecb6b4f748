package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applsvc "github.com/openbooks/ledger/internal/application/ledger"
	"github.com/openbooks/ledger/internal/domain/ledger"
)

// AccountHandler exposes the chart of accounts over HTTP
type AccountHandler struct {
	BaseHandler
	service *applsvc.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service *applsvc.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req applsvc.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	account, err := h.service.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, account)
}

// Get handles GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}
	account, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, account)
}

// GetByCode handles GET /accounts/code/:code
func (h *AccountHandler) GetByCode(c *gin.Context) {
	account, err := h.service.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, account)
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	base, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := ledger.AccountFilter{Filter: base}
	if group := c.Query("group"); group != "" {
		g := ledger.AccountGroup(group)
		filter.Group = &g
	}
	if active := c.Query("is_active"); active != "" {
		isActive, err := strconv.ParseBool(active)
		if err != nil {
			h.BadRequest(c, "Invalid is_active value")
			return
		}
		filter.IsActive = &isActive
	}
	if parent := c.Query("parent_id"); parent != "" {
		parentID, err := uuid.Parse(parent)
		if err != nil {
			h.BadRequest(c, "Invalid parent_id value")
			return
		}
		filter.ParentID = &parentID
	}

	page, err := h.service.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetBalance handles GET /accounts/:id/balance with an optional as_of query
func (h *AccountHandler) GetBalance(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}
	var asOf *time.Time
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "as_of must be RFC3339")
			return
		}
		asOf = &t
	}
	balance, err := h.service.GetBalance(c.Request.Context(), id, asOf)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, balance)
}

type changeParentRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// ChangeParent handles PUT /accounts/:id/parent
func (h *AccountHandler) ChangeParent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}
	var req changeParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	account, err := h.service.ChangeParent(c.Request.Context(), id, req.ParentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, account)
}

// Deactivate handles POST /accounts/:id/deactivate
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}
	account, err := h.service.DeactivateAccount(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, account)
}

// Activate handles POST /accounts/:id/activate
func (h *AccountHandler) Activate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}
	account, err := h.service.ActivateAccount(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, account)
}
