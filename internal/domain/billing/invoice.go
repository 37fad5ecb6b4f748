package billing

import (
	"strings"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput carries caller-supplied line item values
type LineInput struct {
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// Invoice represents a client-facing billing document aggregate root. It
// exclusively owns its line items and payments; every monetary field and
// the lifecycle status are derived from them, never set directly.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string            `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	ClientID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"client_id"`
	ClientName    string            `gorm:"type:varchar(200);not null" json:"client_name"`
	IssueDate     time.Time         `gorm:"not null" json:"issue_date"`
	DueDate       time.Time         `gorm:"not null;index" json:"due_date"`
	LineItems     []InvoiceLineItem `gorm:"foreignKey:DocumentID;references:ID" json:"line_items"`
	Payments      []InvoicePayment  `gorm:"foreignKey:DocumentID;references:ID" json:"payments"`

	// Derived, recomputed from line items and payments on every mutation
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_paid"`
	AmountDue      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_due"`
	Status         DocumentStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`

	Sent         bool       `gorm:"not null;default:false" json:"sent"`
	Viewed       bool       `gorm:"not null;default:false" json:"viewed"`
	Cancelled    bool       `gorm:"not null;default:false" json:"cancelled"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	ViewedAt     *time.Time `json:"viewed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new DRAFT invoice with the given line items
func NewInvoice(invoiceNumber string, clientID uuid.UUID, clientName string, issueDate, dueDate time.Time, lines []LineInput) (*Invoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client is required")
	}
	if strings.TrimSpace(clientName) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client name cannot be empty")
	}
	if issueDate.IsZero() || dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Issue and due dates are required")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DATE", "Due date cannot precede the issue date")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		ClientID:          clientID,
		ClientName:        clientName,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Status:            StatusDraft,
	}
	for _, line := range lines {
		item, err := newLineItem(inv.ID, line.Description, line.Quantity, line.UnitPrice, line.TaxRate, line.DiscountPercent)
		if err != nil {
			return nil, err
		}
		inv.LineItems = append(inv.LineItems, InvoiceLineItem{LineItem: *item})
	}
	inv.recalculate(time.Now())
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// AddLineItem appends a line while the invoice has no payments and is not
// cancelled
func (inv *Invoice) AddLineItem(line LineInput) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}
	item, err := newLineItem(inv.ID, line.Description, line.Quantity, line.UnitPrice, line.TaxRate, line.DiscountPercent)
	if err != nil {
		return err
	}
	inv.LineItems = append(inv.LineItems, InvoiceLineItem{LineItem: *item})
	inv.recalculate(time.Now())
	return nil
}

// RemoveLineItem removes a line while the invoice has no payments and is
// not cancelled
func (inv *Invoice) RemoveLineItem(lineID uuid.UUID) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}
	for i := range inv.LineItems {
		if inv.LineItems[i].ID == lineID {
			inv.LineItems = append(inv.LineItems[:i], inv.LineItems[i+1:]...)
			inv.recalculate(time.Now())
			return nil
		}
	}
	return shared.ErrNotFound
}

func (inv *Invoice) ensureEditable() error {
	if inv.Cancelled {
		return shared.NewStateError("INVALID_STATE", "Cancelled invoices cannot be edited")
	}
	if len(inv.Payments) > 0 {
		return shared.NewStateError("INVALID_STATE", "Invoices with payments cannot change line items")
	}
	return nil
}

// ApplyPayment appends an immutable payment record, recomputes the paid and
// due amounts and re-derives the status. Overpayment is allowed by default;
// a deployment that opts into the rejection policy passes
// allowOverpayment=false and gets OVERPAYMENT_NOT_ALLOWED instead of a
// silently clamped amount.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, reference string, allowOverpayment bool) (*InvoicePayment, error) {
	if inv.Cancelled {
		return nil, shared.NewStateError("INVALID_STATE", "Cannot apply a payment to a cancelled invoice")
	}
	if !allowOverpayment && inv.AmountPaid.Add(amount).GreaterThan(inv.TotalAmount) {
		return nil, shared.NewDomainError("OVERPAYMENT_NOT_ALLOWED",
			"Payment would exceed the invoice total")
	}
	p, err := newPayment(inv.ID, amount, paymentDate, method, reference)
	if err != nil {
		return nil, err
	}
	payment := InvoicePayment{Payment: *p}
	inv.Payments = append(inv.Payments, payment)
	inv.recalculate(time.Now())
	inv.AddDomainEvent(NewPaymentAppliedEvent(&inv.BaseAggregateRoot, DocumentKindInvoice, inv.InvoiceNumber, &payment.Payment, inv.AmountDue, inv.Status))
	return &payment, nil
}

// DeletePayment removes a payment record. Payments are never edited;
// corrections are deletions or new payments.
func (inv *Invoice) DeletePayment(paymentID uuid.UUID) error {
	if inv.Cancelled {
		return shared.NewStateError("INVALID_STATE", "Cannot delete a payment from a cancelled invoice")
	}
	for i := range inv.Payments {
		if inv.Payments[i].ID == paymentID {
			inv.Payments = append(inv.Payments[:i], inv.Payments[i+1:]...)
			inv.recalculate(time.Now())
			return nil
		}
	}
	return shared.ErrNotFound
}

// MarkSent records that the invoice went out to the client
func (inv *Invoice) MarkSent() error {
	if inv.Cancelled {
		return shared.NewStateError("INVALID_STATE", "Cancelled invoices cannot be sent")
	}
	if inv.Sent {
		return nil
	}
	now := time.Now()
	inv.Sent = true
	inv.SentAt = &now
	inv.recalculate(now)
	inv.AddDomainEvent(NewInvoiceSentEvent(inv))
	return nil
}

// MarkViewed records that the client opened the invoice
func (inv *Invoice) MarkViewed() error {
	if inv.Cancelled {
		return shared.NewStateError("INVALID_STATE", "Cancelled invoices cannot be viewed")
	}
	now := time.Now()
	inv.Viewed = true
	inv.ViewedAt = &now
	inv.recalculate(now)
	return nil
}

// Cancel flags the invoice cancelled from any non-terminal status. Applied
// payments are retained for audit and are not reversed here; ledger
// corrections are separate voucher or transaction reversals.
func (inv *Invoice) Cancel(reason string) error {
	if inv.Status.IsTerminal() {
		return shared.NewStateError("INVALID_STATE",
			"Invoice is already "+inv.Status.String())
	}
	now := time.Now()
	inv.Cancelled = true
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.recalculate(now)
	inv.AddDomainEvent(NewDocumentCancelledEvent(&inv.BaseAggregateRoot, DocumentKindInvoice, inv.InvoiceNumber, reason))
	return nil
}

// RefreshStatus re-derives the status as of now. Used by the periodic and
// on-read overdue checks; returns true when the status changed.
func (inv *Invoice) RefreshStatus(now time.Time) bool {
	before := inv.Status
	inv.recalculate(now)
	return inv.Status != before
}

// recalculate recomputes every derived field from the line items and
// payments, then re-derives the status
func (inv *Invoice) recalculate(now time.Time) {
	subtotal, tax, discount := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range inv.LineItems {
		subtotal = subtotal.Add(inv.LineItems[i].GrossAmount())
		discount = discount.Add(inv.LineItems[i].DiscountAmount())
		tax = tax.Add(inv.LineItems[i].TaxAmount())
	}
	paid := decimal.Zero
	for i := range inv.Payments {
		paid = paid.Add(inv.Payments[i].Amount)
	}
	inv.Subtotal = subtotal
	inv.DiscountAmount = discount
	inv.TaxAmount = tax
	inv.TotalAmount = subtotal.Sub(discount).Add(tax)
	inv.AmountPaid = paid
	inv.AmountDue = inv.TotalAmount.Sub(paid)
	inv.Status = DeriveStatus(StatusInput{
		Kind:        DocumentKindInvoice,
		TotalAmount: inv.TotalAmount,
		AmountPaid:  inv.AmountPaid,
		DueDate:     inv.DueDate,
		Now:         now,
		Sent:        inv.Sent,
		Viewed:      inv.Viewed,
		Cancelled:   inv.Cancelled,
	})
}
