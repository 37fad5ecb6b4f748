package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBill(t *testing.T) *Bill {
	t.Helper()
	issue := time.Now()
	b, err := NewBill("BILL-001", uuid.New(), "Paper Supplies Co", issue, issue.AddDate(0, 0, 14), []LineInput{{
		Description: "A4 paper",
		Quantity:    decimal.NewFromInt(20),
		UnitPrice:   decimal.NewFromInt(25),
	}})
	require.NoError(t, err)
	return b
}

func TestNewBill(t *testing.T) {
	t.Run("derived totals", func(t *testing.T) {
		b := testBill(t)
		assert.True(t, b.Subtotal.Equal(decimal.NewFromInt(500)))
		assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, b.AmountDue.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, StatusDraft, b.Status)
	})

	t.Run("discounts rejected", func(t *testing.T) {
		issue := time.Now()
		_, err := NewBill("BILL-002", uuid.New(), "Paper Supplies Co", issue, issue, []LineInput{{
			Description:     "A4 paper",
			Quantity:        decimal.NewFromInt(1),
			UnitPrice:       decimal.NewFromInt(25),
			DiscountPercent: decimal.NewFromInt(5),
		}})
		assert.Error(t, err)

		b := testBill(t)
		err = b.AddLineItem(LineInput{
			Description:     "Toner",
			Quantity:        decimal.NewFromInt(1),
			UnitPrice:       decimal.NewFromInt(80),
			DiscountPercent: decimal.NewFromInt(10),
		})
		assert.Error(t, err)
	})

	t.Run("tax still applies", func(t *testing.T) {
		issue := time.Now()
		b, err := NewBill("BILL-003", uuid.New(), "Paper Supplies Co", issue, issue.AddDate(0, 0, 7), []LineInput{{
			Description: "Ink",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(50),
			TaxRate:     decimal.NewFromInt(18),
		}})
		require.NoError(t, err)
		assert.True(t, b.TaxAmount.Equal(decimal.NewFromInt(18)))
		assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(118)))
	})
}

func TestBillLifecycle(t *testing.T) {
	t.Run("open moves draft to pending", func(t *testing.T) {
		b := testBill(t)
		require.NoError(t, b.MarkOpen())
		assert.Equal(t, StatusPending, b.Status)
		assert.NotNil(t, b.OpenedAt)

		// idempotent
		require.NoError(t, b.MarkOpen())
	})

	t.Run("payments drive partial and paid", func(t *testing.T) {
		b := testBill(t) // total 500
		require.NoError(t, b.MarkOpen())

		_, err := b.ApplyPayment(decimal.NewFromInt(200), time.Now(), PaymentMethodMobileMoney, "mm-77", true)
		require.NoError(t, err)
		assert.Equal(t, StatusPartial, b.Status)

		_, err = b.ApplyPayment(decimal.NewFromInt(300), time.Now(), PaymentMethodMobileMoney, "mm-78", true)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, b.Status)
		assert.True(t, b.AmountDue.IsZero())
	})

	t.Run("overdue on refresh", func(t *testing.T) {
		b := testBill(t)
		require.NoError(t, b.MarkOpen())
		changed := b.RefreshStatus(b.DueDate.AddDate(0, 0, 3))
		assert.True(t, changed)
		assert.Equal(t, StatusOverdue, b.Status)
	})

	t.Run("cancel blocks further mutation", func(t *testing.T) {
		b := testBill(t)
		require.NoError(t, b.Cancel("ordered in error"))
		assert.Equal(t, StatusCancelled, b.Status)
		assert.Error(t, b.MarkOpen())
		_, err := b.ApplyPayment(decimal.NewFromInt(10), time.Now(), PaymentMethodCash, "", true)
		assert.Error(t, err)
	})

	t.Run("paid bill cannot be cancelled", func(t *testing.T) {
		b := testBill(t)
		_, err := b.ApplyPayment(decimal.NewFromInt(500), time.Now(), PaymentMethodCash, "", true)
		require.NoError(t, err)
		assert.Error(t, b.Cancel("too late"))
	})
}
