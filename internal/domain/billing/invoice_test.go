package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger/internal/domain/shared"
)

func testInvoice(t *testing.T, lines ...LineInput) *Invoice {
	t.Helper()
	if len(lines) == 0 {
		lines = []LineInput{{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(10),
			UnitPrice:   decimal.NewFromInt(100),
		}}
	}
	issue := time.Now()
	inv, err := NewInvoice("INV-001", uuid.New(), "Acme Ltd", issue, issue.AddDate(0, 0, 30), lines)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("derived totals", func(t *testing.T) {
		inv := testInvoice(t, LineInput{
			Description:     "Consulting",
			Quantity:        decimal.NewFromInt(10),
			UnitPrice:       decimal.NewFromInt(100),
			TaxRate:         decimal.NewFromInt(18),
			DiscountPercent: decimal.NewFromInt(10),
		})
		// gross 1000, discount 100, tax 18% of 900 = 162, total 1062
		assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, inv.DiscountAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, inv.TaxAmount.Equal(decimal.NewFromInt(162)))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1062)))
		assert.True(t, inv.AmountDue.Equal(inv.TotalAmount))
		assert.Equal(t, StatusDraft, inv.Status)
	})

	t.Run("due date before issue date rejected", func(t *testing.T) {
		issue := time.Now()
		_, err := NewInvoice("INV-002", uuid.New(), "Acme Ltd", issue, issue.AddDate(0, 0, -1), nil)
		assert.Error(t, err)
	})

	t.Run("invalid line rejected", func(t *testing.T) {
		issue := time.Now()
		_, err := NewInvoice("INV-003", uuid.New(), "Acme Ltd", issue, issue, []LineInput{{
			Description: "Bad",
			Quantity:    decimal.Zero,
			UnitPrice:   decimal.NewFromInt(5),
		}})
		assert.Error(t, err)
	})
}

func TestInvoiceLineItems(t *testing.T) {
	t.Run("add and remove recompute totals", func(t *testing.T) {
		inv := testInvoice(t)
		require.NoError(t, inv.AddLineItem(LineInput{
			Description: "Travel",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(250),
		}))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1250)))

		require.NoError(t, inv.RemoveLineItem(inv.LineItems[1].ID))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("locked once a payment exists", func(t *testing.T) {
		inv := testInvoice(t)
		_, err := inv.ApplyPayment(decimal.NewFromInt(100), time.Now(), PaymentMethodCash, "", true)
		require.NoError(t, err)

		err = inv.AddLineItem(LineInput{Description: "Late", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrorKindState, domainErr.Kind)
	})

	t.Run("removing unknown line", func(t *testing.T) {
		inv := testInvoice(t)
		assert.ErrorIs(t, inv.RemoveLineItem(uuid.New()), shared.ErrNotFound)
	})
}

func TestInvoicePayments(t *testing.T) {
	t.Run("partial then full", func(t *testing.T) {
		inv := testInvoice(t) // total 1000
		_, err := inv.ApplyPayment(decimal.NewFromInt(400), time.Now(), PaymentMethodBankTransfer, "wire-1", true)
		require.NoError(t, err)
		assert.Equal(t, StatusPartial, inv.Status)
		assert.True(t, inv.AmountDue.Equal(decimal.NewFromInt(600)))

		_, err = inv.ApplyPayment(decimal.NewFromInt(600), time.Now(), PaymentMethodBankTransfer, "wire-2", true)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, inv.Status)
		assert.True(t, inv.AmountDue.IsZero())
	})

	t.Run("overpayment allowed by default", func(t *testing.T) {
		inv := testInvoice(t)
		_, err := inv.ApplyPayment(decimal.NewFromInt(1200), time.Now(), PaymentMethodCash, "", true)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, inv.Status)
		assert.True(t, inv.AmountDue.Equal(decimal.NewFromInt(-200)), "credit balance is kept visible")
	})

	t.Run("overpayment rejected when opted out", func(t *testing.T) {
		inv := testInvoice(t)
		_, err := inv.ApplyPayment(decimal.NewFromInt(1200), time.Now(), PaymentMethodCash, "", false)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OVERPAYMENT_NOT_ALLOWED", domainErr.Code)
		assert.Empty(t, inv.Payments)
	})

	t.Run("negative payment rejected", func(t *testing.T) {
		inv := testInvoice(t)
		_, err := inv.ApplyPayment(decimal.NewFromInt(-10), time.Now(), PaymentMethodCash, "", true)
		assert.Error(t, err)
	})

	t.Run("delete payment reopens the document", func(t *testing.T) {
		inv := testInvoice(t)
		p, err := inv.ApplyPayment(decimal.NewFromInt(1000), time.Now(), PaymentMethodCard, "", true)
		require.NoError(t, err)
		require.Equal(t, StatusPaid, inv.Status)

		require.NoError(t, inv.DeletePayment(p.ID))
		assert.True(t, inv.AmountPaid.IsZero())
		assert.NotEqual(t, StatusPaid, inv.Status)
	})
}

func TestInvoiceLifecycle(t *testing.T) {
	t.Run("sent and viewed", func(t *testing.T) {
		inv := testInvoice(t)
		require.NoError(t, inv.MarkSent())
		assert.Equal(t, StatusSent, inv.Status)
		assert.NotNil(t, inv.SentAt)

		require.NoError(t, inv.MarkViewed())
		assert.Equal(t, StatusViewed, inv.Status)

		// idempotent
		require.NoError(t, inv.MarkSent())
	})

	t.Run("cancel keeps payments", func(t *testing.T) {
		inv := testInvoice(t)
		_, err := inv.ApplyPayment(decimal.NewFromInt(300), time.Now(), PaymentMethodCash, "", true)
		require.NoError(t, err)

		require.NoError(t, inv.Cancel("client disputed"))
		assert.Equal(t, StatusCancelled, inv.Status)
		assert.Len(t, inv.Payments, 1)

		_, err = inv.ApplyPayment(decimal.NewFromInt(10), time.Now(), PaymentMethodCash, "", true)
		assert.Error(t, err)
		assert.Error(t, inv.MarkSent())
	})

	t.Run("paid invoice cannot be cancelled", func(t *testing.T) {
		inv := testInvoice(t)
		_, err := inv.ApplyPayment(decimal.NewFromInt(1000), time.Now(), PaymentMethodCash, "", true)
		require.NoError(t, err)
		assert.Error(t, inv.Cancel("too late"))
	})
}

func TestInvoiceRefreshStatus(t *testing.T) {
	inv := testInvoice(t)
	require.NoError(t, inv.MarkSent())
	require.Equal(t, StatusSent, inv.Status)

	changed := inv.RefreshStatus(inv.DueDate.AddDate(0, 0, 1))
	assert.True(t, changed)
	assert.Equal(t, StatusOverdue, inv.Status)

	changed = inv.RefreshStatus(inv.DueDate.AddDate(0, 0, 2))
	assert.False(t, changed, "already overdue, nothing to change")
}
