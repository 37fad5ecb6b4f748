package report

import (
	"time"

	"github.com/openbooks/ledger/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgingBucket is a time-since-due classification for outstanding balances
type AgingBucket string

const (
	BucketCurrent    AgingBucket = "CURRENT"
	Bucket30Days     AgingBucket = "30_DAYS"
	Bucket60Days     AgingBucket = "60_DAYS"
	Bucket90Days     AgingBucket = "90_DAYS"
	Bucket90DaysPlus AgingBucket = "90_PLUS_DAYS"
)

// Buckets lists every bucket in reporting order
func Buckets() []AgingBucket {
	return []AgingBucket{BucketCurrent, Bucket30Days, Bucket60Days, Bucket90Days, Bucket90DaysPlus}
}

// BucketFor assigns days-past-due to exactly one bucket
func BucketFor(daysPastDue int) AgingBucket {
	switch {
	case daysPastDue <= 0:
		return BucketCurrent
	case daysPastDue <= 30:
		return Bucket30Days
	case daysPastDue <= 60:
		return Bucket60Days
	case daysPastDue <= 90:
		return Bucket90Days
	default:
		return Bucket90DaysPlus
	}
}

// AgedDocument is the slice of an invoice or bill the aging calculation
// needs. The report is a read-only projection; it never mutates the
// documents it is built from.
type AgedDocument struct {
	DocumentID       uuid.UUID            `json:"document_id"`
	Kind             billing.DocumentKind `json:"kind"`
	DocumentNumber   string               `json:"document_number"`
	CounterpartyName string               `json:"counterparty_name"`
	DueDate          time.Time            `json:"due_date"`
	AmountDue        decimal.Decimal      `json:"amount_due"`
}

// AgingLine is one outstanding document placed in its bucket
type AgingLine struct {
	AgedDocument
	DaysPastDue int         `json:"days_past_due"`
	Bucket      AgingBucket `json:"bucket"`
}

// AgingReport buckets outstanding balances as of a reporting date. Buckets
// are mutually exclusive and collectively cover every outstanding balance:
// the bucket totals always sum to TotalOutstanding.
type AgingReport struct {
	AsOf             time.Time                       `json:"as_of"`
	Lines            []AgingLine                     `json:"lines"`
	BucketTotals     map[AgingBucket]decimal.Decimal `json:"bucket_totals"`
	TotalOutstanding decimal.Decimal                 `json:"total_outstanding"`
}

// AgedInvoice projects an invoice for aging
func AgedInvoice(inv *billing.Invoice) AgedDocument {
	return AgedDocument{
		DocumentID:       inv.ID,
		Kind:             billing.DocumentKindInvoice,
		DocumentNumber:   inv.InvoiceNumber,
		CounterpartyName: inv.ClientName,
		DueDate:          inv.DueDate,
		AmountDue:        inv.AmountDue,
	}
}

// AgedBill projects a bill for aging
func AgedBill(b *billing.Bill) AgedDocument {
	return AgedDocument{
		DocumentID:       b.ID,
		Kind:             billing.DocumentKindBill,
		DocumentNumber:   b.BillNumber,
		CounterpartyName: b.VendorName,
		DueDate:          b.DueDate,
		AmountDue:        b.AmountDue,
	}
}

// daysPastDue counts whole calendar days from the due date to asOf,
// ignoring the time-of-day component
func daysPastDue(dueDate, asOf time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	at := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(at.Sub(due).Hours() / 24)
}

// BuildAgingReport buckets every document with a positive amount due as of
// the reporting date. Documents that are fully paid or carry a credit
// balance (amount due <= 0) never appear in aging.
func BuildAgingReport(documents []AgedDocument, asOf time.Time) *AgingReport {
	r := &AgingReport{
		AsOf:             asOf,
		Lines:            make([]AgingLine, 0, len(documents)),
		BucketTotals:     make(map[AgingBucket]decimal.Decimal, 5),
		TotalOutstanding: decimal.Zero,
	}
	for _, bucket := range Buckets() {
		r.BucketTotals[bucket] = decimal.Zero
	}

	for _, doc := range documents {
		if !doc.AmountDue.IsPositive() {
			continue
		}
		days := daysPastDue(doc.DueDate, asOf)
		bucket := BucketFor(days)
		r.Lines = append(r.Lines, AgingLine{
			AgedDocument: doc,
			DaysPastDue:  days,
			Bucket:       bucket,
		})
		r.BucketTotals[bucket] = r.BucketTotals[bucket].Add(doc.AmountDue)
		r.TotalOutstanding = r.TotalOutstanding.Add(doc.AmountDue)
	}
	return r
}
