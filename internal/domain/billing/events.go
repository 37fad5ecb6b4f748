package billing

import (
	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      uuid.UUID       `json:"client_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID,
		TotalAmount:     inv.TotalAmount,
	}
}

// BillCreatedEvent is raised when a new bill is created
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID      uuid.UUID       `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *BillCreatedEvent) EventType() string {
	return "BillCreated"
}

// NewBillCreatedEvent creates a new BillCreatedEvent
func NewBillCreatedEvent(b *Bill) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillCreated", "Bill", b.ID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		VendorID:        b.VendorID,
		TotalAmount:     b.TotalAmount,
	}
}

// PaymentAppliedEvent is raised when a payment is applied to an invoice or bill
type PaymentAppliedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentKind   DocumentKind    `json:"document_kind"`
	DocumentNumber string          `json:"document_number"`
	PaymentID      uuid.UUID       `json:"payment_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         PaymentMethod   `json:"method"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	Status         DocumentStatus  `json:"status"`
}

// EventType returns the event type name
func (e *PaymentAppliedEvent) EventType() string {
	return "PaymentApplied"
}

// NewPaymentAppliedEvent creates a new PaymentAppliedEvent
func NewPaymentAppliedEvent(root *shared.BaseAggregateRoot, kind DocumentKind, number string, p *Payment, amountDue decimal.Decimal, status DocumentStatus) *PaymentAppliedEvent {
	return &PaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentApplied", string(kind), root.ID),
		DocumentID:      root.ID,
		DocumentKind:    kind,
		DocumentNumber:  number,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		Method:          p.Method,
		AmountDue:       amountDue,
		Status:          status,
	}
}

// InvoiceSentEvent is raised when an invoice is marked sent; the
// notification layer delivers it after the commit
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	ClientID      uuid.UUID `json:"client_id"`
}

// EventType returns the event type name
func (e *InvoiceSentEvent) EventType() string {
	return "InvoiceSent"
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceSent", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID,
	}
}

// DocumentCancelledEvent is raised when an invoice or bill is cancelled
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID    `json:"document_id"`
	DocumentKind   DocumentKind `json:"document_kind"`
	DocumentNumber string       `json:"document_number"`
	Reason         string       `json:"reason,omitempty"`
}

// EventType returns the event type name
func (e *DocumentCancelledEvent) EventType() string {
	return "DocumentCancelled"
}

// NewDocumentCancelledEvent creates a new DocumentCancelledEvent
func NewDocumentCancelledEvent(root *shared.BaseAggregateRoot, kind DocumentKind, number, reason string) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentCancelled", string(kind), root.ID),
		DocumentID:      root.ID,
		DocumentKind:    kind,
		DocumentNumber:  number,
		Reason:          reason,
	}
}
