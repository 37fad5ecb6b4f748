package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger/internal/domain/billing"
)

func agedDoc(dueDate time.Time, due int64) AgedDocument {
	return AgedDocument{
		DocumentID:     uuid.New(),
		Kind:           billing.DocumentKindInvoice,
		DocumentNumber: "INV-X",
		DueDate:        dueDate,
		AmountDue:      decimal.NewFromInt(due),
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		days int
		want AgingBucket
	}{
		{-10, BucketCurrent},
		{0, BucketCurrent},
		{1, Bucket30Days},
		{30, Bucket30Days},
		{31, Bucket60Days},
		{60, Bucket60Days},
		{61, Bucket90Days},
		{90, Bucket90Days},
		{91, Bucket90DaysPlus},
		{400, Bucket90DaysPlus},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketFor(tt.days), "days=%d", tt.days)
	}
}

func TestBuildAgingReport(t *testing.T) {
	asOf := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

	t.Run("buckets partition the outstanding total", func(t *testing.T) {
		docs := []AgedDocument{
			agedDoc(asOf.AddDate(0, 0, 10), 100),  // not yet due
			agedDoc(asOf.AddDate(0, 0, -15), 200), // 15 days past due
			agedDoc(asOf.AddDate(0, 0, -45), 300), // 45 days
			agedDoc(asOf.AddDate(0, 0, -75), 400), // 75 days
			agedDoc(asOf.AddDate(0, 0, -120), 50), // 120 days
		}
		r := BuildAgingReport(docs, asOf)

		require.Len(t, r.Lines, 5)
		assert.True(t, r.BucketTotals[BucketCurrent].Equal(decimal.NewFromInt(100)))
		assert.True(t, r.BucketTotals[Bucket30Days].Equal(decimal.NewFromInt(200)))
		assert.True(t, r.BucketTotals[Bucket60Days].Equal(decimal.NewFromInt(300)))
		assert.True(t, r.BucketTotals[Bucket90Days].Equal(decimal.NewFromInt(400)))
		assert.True(t, r.BucketTotals[Bucket90DaysPlus].Equal(decimal.NewFromInt(50)))

		sum := decimal.Zero
		for _, bucket := range Buckets() {
			sum = sum.Add(r.BucketTotals[bucket])
		}
		assert.True(t, sum.Equal(r.TotalOutstanding), "bucket totals partition the outstanding amount")
		assert.True(t, r.TotalOutstanding.Equal(decimal.NewFromInt(1050)))
	})

	t.Run("settled and credit-balance documents excluded", func(t *testing.T) {
		docs := []AgedDocument{
			agedDoc(asOf.AddDate(0, 0, -15), 0),
			agedDoc(asOf.AddDate(0, 0, -15), -75),
			agedDoc(asOf.AddDate(0, 0, -15), 25),
		}
		r := BuildAgingReport(docs, asOf)
		require.Len(t, r.Lines, 1)
		assert.True(t, r.TotalOutstanding.Equal(decimal.NewFromInt(25)))
	})

	t.Run("due today is current", func(t *testing.T) {
		r := BuildAgingReport([]AgedDocument{agedDoc(asOf, 10)}, asOf)
		require.Len(t, r.Lines, 1)
		assert.Equal(t, BucketCurrent, r.Lines[0].Bucket)
		assert.Equal(t, 0, r.Lines[0].DaysPastDue)
	})

	t.Run("time of day ignored", func(t *testing.T) {
		due := time.Date(2026, 6, 29, 23, 30, 0, 0, time.UTC)
		early := time.Date(2026, 6, 30, 0, 5, 0, 0, time.UTC)
		r := BuildAgingReport([]AgedDocument{agedDoc(due, 10)}, early)
		require.Len(t, r.Lines, 1)
		assert.Equal(t, 1, r.Lines[0].DaysPastDue)
	})

	t.Run("empty report", func(t *testing.T) {
		r := BuildAgingReport(nil, asOf)
		assert.Empty(t, r.Lines)
		assert.True(t, r.TotalOutstanding.IsZero())
		for _, bucket := range Buckets() {
			assert.True(t, r.BucketTotals[bucket].IsZero())
		}
	})
}
