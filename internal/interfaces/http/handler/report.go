package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	applsvc "github.com/openbooks/ledger/internal/application/report"
)

// ReportHandler exposes aging and trial balance reports over HTTP
type ReportHandler struct {
	BaseHandler
	service *applsvc.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *applsvc.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Aging handles GET /reports/aging with kind and optional as_of queries
func (h *ReportHandler) Aging(c *gin.Context) {
	kind := applsvc.AgingKind(c.DefaultQuery("kind", string(applsvc.AgingReceivables)))
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "as_of must be RFC3339")
			return
		}
		asOf = t
	}
	rep, err := h.service.AgingReport(c.Request.Context(), kind, asOf)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, rep)
}

// TrialBalance handles GET /reports/trial-balance
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	tb, err := h.service.TrialBalance(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, tb)
}
