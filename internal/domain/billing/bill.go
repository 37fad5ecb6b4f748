package billing

import (
	"strings"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill represents a vendor-facing billing document aggregate root. It
// mirrors Invoice without the sent/viewed client states: an opened bill sits
// in PENDING until paid. Line items carry no discount.
type Bill struct {
	shared.BaseAggregateRoot
	BillNumber string         `gorm:"type:varchar(50);not null;uniqueIndex" json:"bill_number"`
	VendorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"vendor_id"`
	VendorName string         `gorm:"type:varchar(200);not null" json:"vendor_name"`
	IssueDate  time.Time      `gorm:"not null" json:"issue_date"`
	DueDate    time.Time      `gorm:"not null;index" json:"due_date"`
	LineItems  []BillLineItem `gorm:"foreignKey:DocumentID;references:ID" json:"line_items"`
	Payments   []BillPayment  `gorm:"foreignKey:DocumentID;references:ID" json:"payments"`

	// Derived, recomputed from line items and payments on every mutation
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_paid"`
	AmountDue   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_due"`
	Status      DocumentStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`

	Opened       bool       `gorm:"not null;default:false" json:"opened"`
	Cancelled    bool       `gorm:"not null;default:false" json:"cancelled"`
	OpenedAt     *time.Time `json:"opened_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
}

// TableName returns the table name for GORM
func (Bill) TableName() string {
	return "bills"
}

// NewBill creates a new DRAFT bill with the given line items. Any
// DiscountPercent in the inputs is rejected; bills carry no discounts.
func NewBill(billNumber string, vendorID uuid.UUID, vendorName string, issueDate, dueDate time.Time, lines []LineInput) (*Bill, error) {
	billNumber = strings.TrimSpace(billNumber)
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bill number cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Vendor is required")
	}
	if strings.TrimSpace(vendorName) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Vendor name cannot be empty")
	}
	if issueDate.IsZero() || dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Issue and due dates are required")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DATE", "Due date cannot precede the issue date")
	}

	b := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNumber:        billNumber,
		VendorID:          vendorID,
		VendorName:        vendorName,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Status:            StatusDraft,
	}
	for _, line := range lines {
		if !line.DiscountPercent.IsZero() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Bill line items do not take discounts")
		}
		item, err := newLineItem(b.ID, line.Description, line.Quantity, line.UnitPrice, line.TaxRate, decimal.Zero)
		if err != nil {
			return nil, err
		}
		b.LineItems = append(b.LineItems, BillLineItem{LineItem: *item})
	}
	b.recalculate(time.Now())
	b.AddDomainEvent(NewBillCreatedEvent(b))
	return b, nil
}

// AddLineItem appends a line while the bill has no payments and is not
// cancelled
func (b *Bill) AddLineItem(line LineInput) error {
	if err := b.ensureEditable(); err != nil {
		return err
	}
	if !line.DiscountPercent.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Bill line items do not take discounts")
	}
	item, err := newLineItem(b.ID, line.Description, line.Quantity, line.UnitPrice, line.TaxRate, decimal.Zero)
	if err != nil {
		return err
	}
	b.LineItems = append(b.LineItems, BillLineItem{LineItem: *item})
	b.recalculate(time.Now())
	return nil
}

// RemoveLineItem removes a line while the bill has no payments and is not
// cancelled
func (b *Bill) RemoveLineItem(lineID uuid.UUID) error {
	if err := b.ensureEditable(); err != nil {
		return err
	}
	for i := range b.LineItems {
		if b.LineItems[i].ID == lineID {
			b.LineItems = append(b.LineItems[:i], b.LineItems[i+1:]...)
			b.recalculate(time.Now())
			return nil
		}
	}
	return shared.ErrNotFound
}

func (b *Bill) ensureEditable() error {
	if b.Cancelled {
		return shared.NewStateError("INVALID_STATE", "Cancelled bills cannot be edited")
	}
	if len(b.Payments) > 0 {
		return shared.NewStateError("INVALID_STATE", "Bills with payments cannot change line items")
	}
	return nil
}

// ApplyPayment appends an immutable payment record, recomputes the paid and
// due amounts and re-derives the status. Overpayment policy matches Invoice.
func (b *Bill) ApplyPayment(amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, reference string, allowOverpayment bool) (*BillPayment, error) {
	if b.Cancelled {
		return nil, shared.NewStateError("INVALID_STATE", "Cannot apply a payment to a cancelled bill")
	}
	if !allowOverpayment && b.AmountPaid.Add(amount).GreaterThan(b.TotalAmount) {
		return nil, shared.NewDomainError("OVERPAYMENT_NOT_ALLOWED",
			"Payment would exceed the bill total")
	}
	p, err := newPayment(b.ID, amount, paymentDate, method, reference)
	if err != nil {
		return nil, err
	}
	payment := BillPayment{Payment: *p}
	b.Payments = append(b.Payments, payment)
	b.recalculate(time.Now())
	b.AddDomainEvent(NewPaymentAppliedEvent(&b.BaseAggregateRoot, DocumentKindBill, b.BillNumber, &payment.Payment, b.AmountDue, b.Status))
	return &payment, nil
}

// DeletePayment removes a payment record
func (b *Bill) DeletePayment(paymentID uuid.UUID) error {
	if b.Cancelled {
		return shared.NewStateError("INVALID_STATE", "Cannot delete a payment from a cancelled bill")
	}
	for i := range b.Payments {
		if b.Payments[i].ID == paymentID {
			b.Payments = append(b.Payments[:i], b.Payments[i+1:]...)
			b.recalculate(time.Now())
			return nil
		}
	}
	return shared.ErrNotFound
}

// MarkOpen moves the bill out of DRAFT into PENDING (awaiting payment)
func (b *Bill) MarkOpen() error {
	if b.Cancelled {
		return shared.NewStateError("INVALID_STATE", "Cancelled bills cannot be opened")
	}
	if b.Opened {
		return nil
	}
	now := time.Now()
	b.Opened = true
	b.OpenedAt = &now
	b.recalculate(now)
	return nil
}

// Cancel flags the bill cancelled from any non-terminal status; payments
// are retained for audit
func (b *Bill) Cancel(reason string) error {
	if b.Status.IsTerminal() {
		return shared.NewStateError("INVALID_STATE", "Bill is already "+b.Status.String())
	}
	now := time.Now()
	b.Cancelled = true
	b.CancelledAt = &now
	b.CancelReason = reason
	b.recalculate(now)
	b.AddDomainEvent(NewDocumentCancelledEvent(&b.BaseAggregateRoot, DocumentKindBill, b.BillNumber, reason))
	return nil
}

// RefreshStatus re-derives the status as of now; returns true when it changed
func (b *Bill) RefreshStatus(now time.Time) bool {
	before := b.Status
	b.recalculate(now)
	return b.Status != before
}

// recalculate recomputes every derived field from the line items and
// payments, then re-derives the status
func (b *Bill) recalculate(now time.Time) {
	subtotal, tax := decimal.Zero, decimal.Zero
	for i := range b.LineItems {
		subtotal = subtotal.Add(b.LineItems[i].GrossAmount())
		tax = tax.Add(b.LineItems[i].TaxAmount())
	}
	paid := decimal.Zero
	for i := range b.Payments {
		paid = paid.Add(b.Payments[i].Amount)
	}
	b.Subtotal = subtotal
	b.TaxAmount = tax
	b.TotalAmount = subtotal.Add(tax)
	b.AmountPaid = paid
	b.AmountDue = b.TotalAmount.Sub(paid)
	b.Status = DeriveStatus(StatusInput{
		Kind:        DocumentKindBill,
		TotalAmount: b.TotalAmount,
		AmountPaid:  b.AmountPaid,
		DueDate:     b.DueDate,
		Now:         now,
		Sent:        b.Opened,
		Cancelled:   b.Cancelled,
	})
}
