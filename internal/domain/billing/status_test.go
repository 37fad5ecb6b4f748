package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	before := due.AddDate(0, 0, -5)
	after := due.AddDate(0, 0, 5)
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name string
		in   StatusInput
		want DocumentStatus
	}{
		{
			name: "cancelled wins over everything",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, AmountPaid: hundred, DueDate: due, Now: after, Cancelled: true},
			want: StatusCancelled,
		},
		{
			name: "fully paid",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, AmountPaid: hundred, DueDate: due, Now: before},
			want: StatusPaid,
		},
		{
			name: "overpaid still paid",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, AmountPaid: decimal.NewFromInt(150), DueDate: due, Now: after},
			want: StatusPaid,
		},
		{
			name: "zero total is never paid",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: decimal.Zero, AmountPaid: decimal.Zero, DueDate: due, Now: before},
			want: StatusDraft,
		},
		{
			name: "partial before due date",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, AmountPaid: decimal.NewFromInt(40), DueDate: due, Now: before},
			want: StatusPartial,
		},
		{
			name: "partial past due date is overdue",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, AmountPaid: decimal.NewFromInt(40), DueDate: due, Now: after},
			want: StatusOverdue,
		},
		{
			name: "unpaid past due date is overdue",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, DueDate: due, Now: after, Sent: true},
			want: StatusOverdue,
		},
		{
			name: "invoice sent",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, DueDate: due, Now: before, Sent: true},
			want: StatusSent,
		},
		{
			name: "invoice viewed wins over sent",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, DueDate: due, Now: before, Sent: true, Viewed: true},
			want: StatusViewed,
		},
		{
			name: "invoice draft",
			in:   StatusInput{Kind: DocumentKindInvoice, TotalAmount: hundred, DueDate: due, Now: before},
			want: StatusDraft,
		},
		{
			name: "bill opened is pending",
			in:   StatusInput{Kind: DocumentKindBill, TotalAmount: hundred, DueDate: due, Now: before, Sent: true},
			want: StatusPending,
		},
		{
			name: "bill draft",
			in:   StatusInput{Kind: DocumentKindBill, TotalAmount: hundred, DueDate: due, Now: before},
			want: StatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.in))
		})
	}
}

func TestDeriveStatusIsPure(t *testing.T) {
	in := StatusInput{
		Kind:        DocumentKindInvoice,
		TotalAmount: decimal.NewFromInt(100),
		AmountPaid:  decimal.NewFromInt(40),
		DueDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Now:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	first := DeriveStatus(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DeriveStatus(in))
	}
}

func TestDocumentStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusPaid.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusOverdue.IsTerminal())
	assert.False(t, StatusPartial.IsTerminal())
	assert.False(t, StatusDraft.IsTerminal())
}
