package billing

import (
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck,
		PaymentMethodCard, PaymentMethodMobileMoney, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is a payment applied to an invoice or bill. Payments are
// immutable once created: corrections are new payments or deletions,
// never edits.
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	Method      PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Reference   string          `gorm:"type:varchar(100)" json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// newPayment validates and creates an immutable payment record
func newPayment(documentID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, reference string) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Payment date is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment method is not valid")
	}
	return &Payment{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Method:      method,
		Reference:   reference,
		CreatedAt:   time.Now(),
	}, nil
}

// InvoicePayment is a payment row belonging to an invoice
type InvoicePayment struct {
	Payment `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (InvoicePayment) TableName() string {
	return "invoice_payments"
}

// BillPayment is a payment row belonging to a bill
type BillPayment struct {
	Payment `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (BillPayment) TableName() string {
	return "bill_payments"
}
