package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger/internal/domain/shared"
)

func balancedLines(debitID, creditID uuid.UUID, amount int64) []JournalLine {
	return []JournalLine{
		{AccountID: debitID, Direction: DirectionDebit, Amount: decimal.NewFromInt(amount)},
		{AccountID: creditID, Direction: DirectionCredit, Amount: decimal.NewFromInt(amount)},
	}
}

func TestNewJournalEntry(t *testing.T) {
	debitID, creditID := uuid.New(), uuid.New()

	t.Run("balanced entry", func(t *testing.T) {
		group, err := NewJournalEntry("Month-end accrual", time.Now(), balancedLines(debitID, creditID, 300))
		require.NoError(t, err)
		assert.Equal(t, GroupStatusPending, group.Status)
		assert.True(t, group.Balanced)
		assert.True(t, group.TotalDebit.Equal(group.TotalCredit))
		require.Len(t, group.Transactions, 2)
		for _, member := range group.Transactions {
			assert.Equal(t, EntryKindSingle, member.EntryKind)
			require.NotNil(t, member.GroupID)
			assert.Equal(t, group.ID, *member.GroupID)
			assert.Equal(t, TransactionStatusPending, member.Status)
		}
	})

	t.Run("multi-line split", func(t *testing.T) {
		thirdID := uuid.New()
		lines := []JournalLine{
			{AccountID: debitID, Direction: DirectionDebit, Amount: decimal.NewFromInt(700), Description: "Gross salary"},
			{AccountID: creditID, Direction: DirectionCredit, Amount: decimal.NewFromInt(550)},
			{AccountID: thirdID, Direction: DirectionCredit, Amount: decimal.NewFromInt(150)},
		}
		group, err := NewJournalEntry("Payroll", time.Now(), lines)
		require.NoError(t, err)
		assert.Equal(t, "Gross salary", group.Transactions[0].Description)
		assert.Equal(t, "Payroll", group.Transactions[1].Description, "lines without a description inherit the group's")
	})

	t.Run("unbalanced entry rejected", func(t *testing.T) {
		lines := []JournalLine{
			{AccountID: debitID, Direction: DirectionDebit, Amount: decimal.NewFromInt(300)},
			{AccountID: creditID, Direction: DirectionCredit, Amount: decimal.NewFromInt(200)},
		}
		_, err := NewJournalEntry("Broken", time.Now(), lines)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNBALANCED_ENTRY", domainErr.Code)
	})

	t.Run("single line rejected", func(t *testing.T) {
		lines := []JournalLine{
			{AccountID: debitID, Direction: DirectionDebit, Amount: decimal.NewFromInt(300)},
		}
		_, err := NewJournalEntry("Lonely", time.Now(), lines)
		assert.Error(t, err)
	})

	t.Run("negative line rejected", func(t *testing.T) {
		lines := []JournalLine{
			{AccountID: debitID, Direction: DirectionDebit, Amount: decimal.NewFromInt(-5)},
			{AccountID: creditID, Direction: DirectionCredit, Amount: decimal.NewFromInt(-5)},
		}
		_, err := NewJournalEntry("Negative", time.Now(), lines)
		assert.Error(t, err)
	})
}

func TestTransactionGroupLifecycle(t *testing.T) {
	debitID, creditID := uuid.New(), uuid.New()

	t.Run("pending group can be deleted", func(t *testing.T) {
		group, err := NewJournalEntry("Draft", time.Now(), balancedLines(debitID, creditID, 50))
		require.NoError(t, err)
		assert.True(t, group.CanDelete())
	})

	t.Run("posted group cannot be deleted", func(t *testing.T) {
		group, err := NewJournalEntry("Posted", time.Now(), balancedLines(debitID, creditID, 50))
		require.NoError(t, err)
		require.NoError(t, group.MarkPosted())
		assert.Equal(t, GroupStatusPosted, group.Status)
		assert.False(t, group.CanDelete())
	})

	t.Run("only posted groups can be reversed", func(t *testing.T) {
		group, err := NewJournalEntry("Reverse me", time.Now(), balancedLines(debitID, creditID, 50))
		require.NoError(t, err)
		require.Error(t, group.MarkReversed())
		require.NoError(t, group.MarkPosted())
		require.NoError(t, group.MarkReversed())
		assert.Equal(t, GroupStatusReversed, group.Status)
	})

	t.Run("double post rejected", func(t *testing.T) {
		group, err := NewJournalEntry("Once only", time.Now(), balancedLines(debitID, creditID, 50))
		require.NoError(t, err)
		require.NoError(t, group.MarkPosted())
		assert.Error(t, group.MarkPosted())
	})
}

func TestCheckBalanced(t *testing.T) {
	debitID, creditID := uuid.New(), uuid.New()
	group, err := NewJournalEntry("Integrity", time.Now(), balancedLines(debitID, creditID, 120))
	require.NoError(t, err)
	assert.True(t, group.CheckBalanced())

	group.Transactions[0].Amount = decimal.NewFromInt(999)
	assert.False(t, group.CheckBalanced())
}
