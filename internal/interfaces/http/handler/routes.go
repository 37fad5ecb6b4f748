package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the account registry endpoints
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.Create)
		accounts.GET("", h.List)
		accounts.GET("/code/:code", h.GetByCode)
		accounts.GET("/:id", h.Get)
		accounts.GET("/:id/balance", h.GetBalance)
		accounts.PUT("/:id/parent", h.ChangeParent)
		accounts.POST("/:id/deactivate", h.Deactivate)
		accounts.POST("/:id/activate", h.Activate)
	}
}

// RegisterRoutes mounts the single-transaction posting endpoints
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.Create)
		transactions.GET("", h.List)
		transactions.GET("/:id", h.Get)
		transactions.POST("/:id/post", h.Post)
		transactions.POST("/:id/reverse", h.Reverse)
		transactions.DELETE("/:id", h.Delete)
	}
}

// RegisterRoutes mounts the journal entry endpoints
func (h *JournalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.Create)
		entries.GET("", h.List)
		entries.GET("/:id", h.Get)
		entries.POST("/:id/post", h.Post)
		entries.POST("/:id/reverse", h.Reverse)
		entries.DELETE("/:id", h.Delete)
	}
}

// RegisterRoutes mounts the voucher workflow endpoints
func (h *VoucherHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.Create)
		vouchers.GET("", h.List)
		vouchers.GET("/:id", h.Get)
		vouchers.POST("/:id/approve", h.Approve)
		vouchers.POST("/:id/post", h.Post)
		vouchers.POST("/:id/cancel", h.Cancel)
		vouchers.POST("/:id/migrate-type", h.MigrateType)
	}
}

// RegisterRoutes mounts the invoice and bill endpoints
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.POST("/:id/lines", h.AddInvoiceLine)
		invoices.DELETE("/:id/lines/:lineId", h.RemoveInvoiceLine)
		invoices.POST("/:id/payments", h.ApplyInvoicePayment)
		invoices.DELETE("/:id/payments/:paymentId", h.DeleteInvoicePayment)
		invoices.POST("/:id/send", h.MarkInvoiceSent)
		invoices.POST("/:id/view", h.MarkInvoiceViewed)
		invoices.POST("/:id/cancel", h.CancelInvoice)
	}

	bills := rg.Group("/bills")
	{
		bills.POST("", h.CreateBill)
		bills.GET("", h.ListBills)
		bills.GET("/:id", h.GetBill)
		bills.POST("/:id/lines", h.AddBillLine)
		bills.DELETE("/:id/lines/:lineId", h.RemoveBillLine)
		bills.POST("/:id/payments", h.ApplyBillPayment)
		bills.DELETE("/:id/payments/:paymentId", h.DeleteBillPayment)
		bills.POST("/:id/open", h.MarkBillOpen)
		bills.POST("/:id/cancel", h.CancelBill)
	}

	rg.POST("/billing/refresh-overdue", h.RefreshOverdue)
}

// RegisterRoutes mounts the report endpoints
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/aging", h.Aging)
		reports.GET("/trial-balance", h.TrialBalance)
	}
}
