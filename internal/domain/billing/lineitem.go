package billing

import (
	"strings"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one line of an invoice or bill. DiscountPercent is only
// meaningful on invoices; bills always carry zero.
type LineItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	Description     string          `gorm:"type:varchar(500);not null" json:"description"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"tax_rate"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"discount_percent"`
	CreatedAt       time.Time       `json:"created_at"`
}

// newLineItem validates and creates a line item
func newLineItem(documentID uuid.UUID, description string, quantity, unitPrice, taxRate, discountPercent decimal.Decimal) (*LineItem, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tax rate must be between 0 and 100")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount percent must be between 0 and 100")
	}
	return &LineItem{
		ID:              uuid.New(),
		DocumentID:      documentID,
		Description:     description,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		TaxRate:         taxRate,
		DiscountPercent: discountPercent,
		CreatedAt:       time.Now(),
	}, nil
}

// GrossAmount returns quantity * unit price before discount and tax
func (l *LineItem) GrossAmount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// DiscountAmount returns the discount applied to the gross amount
func (l *LineItem) DiscountAmount() decimal.Decimal {
	return l.GrossAmount().Mul(l.DiscountPercent).Div(hundred)
}

// TaxAmount returns the tax computed on the discounted amount
func (l *LineItem) TaxAmount() decimal.Decimal {
	return l.GrossAmount().Sub(l.DiscountAmount()).Mul(l.TaxRate).Div(hundred)
}

// InvoiceLineItem is a line item row belonging to an invoice
type InvoiceLineItem struct {
	LineItem `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// BillLineItem is a line item row belonging to a bill
type BillLineItem struct {
	LineItem `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (BillLineItem) TableName() string {
	return "bill_line_items"
}
