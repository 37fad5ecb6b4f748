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

func accountsByID(accounts ...*Account) map[uuid.UUID]*Account {
	m := make(map[uuid.UUID]*Account, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}
	return m
}

func TestNewDoubleEntryTransaction(t *testing.T) {
	debitID, creditID := uuid.New(), uuid.New()

	t.Run("valid transaction", func(t *testing.T) {
		tx, err := NewDoubleEntryTransaction(time.Now(), "Rent payment", decimal.NewFromInt(500), debitID, creditID)
		require.NoError(t, err)
		assert.Equal(t, TransactionStatusPending, tx.Status)
		assert.Equal(t, EntryKindDouble, tx.EntryKind)
		require.Len(t, tx.Legs(), 2)
		assert.Equal(t, DirectionDebit, tx.Legs()[0].Direction)
		assert.Equal(t, DirectionCredit, tx.Legs()[1].Direction)
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		_, err := NewDoubleEntryTransaction(time.Now(), "Nothing", decimal.Zero, debitID, creditID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := NewDoubleEntryTransaction(time.Now(), "Refund", decimal.NewFromInt(-10), debitID, creditID)
		assert.Error(t, err)
	})

	t.Run("same account rejected", func(t *testing.T) {
		_, err := NewDoubleEntryTransaction(time.Now(), "Loop", decimal.NewFromInt(10), debitID, debitID)
		assert.Error(t, err)
	})
}

func TestNewSingleEntryTransaction(t *testing.T) {
	accountID := uuid.New()

	tx, err := NewSingleEntryTransaction(time.Now(), "Opening balance", decimal.NewFromInt(1000), accountID, DirectionDebit)
	require.NoError(t, err)
	assert.Equal(t, EntryKindSingle, tx.EntryKind)
	require.Len(t, tx.Legs(), 1)
	assert.Equal(t, accountID, tx.Legs()[0].AccountID)

	_, err = NewSingleEntryTransaction(time.Now(), "Bad", decimal.NewFromInt(10), accountID, Direction("SIDEWAYS"))
	assert.Error(t, err)
}

func TestPostingEngine_Post(t *testing.T) {
	engine := NewPostingEngine()

	t.Run("payment moves both balances", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		rent := mustAccount(t, "5000", "Rent Expense", AccountGroupExpense)

		tx, err := NewDoubleEntryTransaction(time.Now(), "Office rent", decimal.NewFromInt(500), rent.ID, cash.ID)
		require.NoError(t, err)

		require.NoError(t, engine.Post(tx, accountsByID(cash, rent)))
		assert.Equal(t, TransactionStatusPosted, tx.Status)
		assert.NotNil(t, tx.PostedAt)
		assert.True(t, cash.Balance.Equal(decimal.NewFromInt(-500)), "credit on a debit-normal account decreases it")
		assert.True(t, rent.Balance.Equal(decimal.NewFromInt(500)))
	})

	t.Run("double posting rejected", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		rent := mustAccount(t, "5000", "Rent Expense", AccountGroupExpense)
		accounts := accountsByID(cash, rent)

		tx, err := NewDoubleEntryTransaction(time.Now(), "Office rent", decimal.NewFromInt(500), rent.ID, cash.ID)
		require.NoError(t, err)
		require.NoError(t, engine.Post(tx, accounts))

		err = engine.Post(tx, accounts)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_POSTED", domainErr.Code)
		assert.True(t, cash.Balance.Equal(decimal.NewFromInt(-500)), "failed post must not touch balances")
	})

	t.Run("inactive account rejected", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		rent := mustAccount(t, "5000", "Rent Expense", AccountGroupExpense)
		require.NoError(t, rent.Deactivate())

		tx, err := NewDoubleEntryTransaction(time.Now(), "Office rent", decimal.NewFromInt(500), rent.ID, cash.ID)
		require.NoError(t, err)

		err = engine.Post(tx, accountsByID(cash, rent))
		require.Error(t, err)
		assert.Equal(t, TransactionStatusPending, tx.Status)
		assert.True(t, cash.Balance.IsZero())
	})

	t.Run("missing account rejected", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		tx, err := NewDoubleEntryTransaction(time.Now(), "Orphan", decimal.NewFromInt(10), uuid.New(), cash.ID)
		require.NoError(t, err)

		violations := engine.Validate(tx, accountsByID(cash))
		require.Len(t, violations, 1)
		assert.Equal(t, "ACCOUNT_NOT_FOUND", violations[0].Code)
	})
}

func TestPostingEngine_Reverse(t *testing.T) {
	engine := NewPostingEngine()

	t.Run("reversal restores balances and keeps history", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		rent := mustAccount(t, "5000", "Rent Expense", AccountGroupExpense)
		accounts := accountsByID(cash, rent)

		tx, err := NewDoubleEntryTransaction(time.Now(), "Office rent", decimal.NewFromInt(500), rent.ID, cash.ID)
		require.NoError(t, err)
		require.NoError(t, engine.Post(tx, accounts))

		reversal, err := engine.Reverse(tx, accounts)
		require.NoError(t, err)

		assert.True(t, cash.Balance.IsZero())
		assert.True(t, rent.Balance.IsZero())

		assert.Equal(t, TransactionStatusReversed, tx.Status)
		require.NotNil(t, tx.ReversedByID)
		assert.Equal(t, reversal.ID, *tx.ReversedByID)

		assert.Equal(t, TransactionStatusPosted, reversal.Status)
		require.NotNil(t, reversal.ReversalOfID)
		assert.Equal(t, tx.ID, *reversal.ReversalOfID)
		assert.Equal(t, *tx.DebitAccountID, *reversal.CreditAccountID, "legs are swapped")
		assert.Equal(t, *tx.CreditAccountID, *reversal.DebitAccountID)
		assert.Contains(t, reversal.Description, "Reversal of:")
	})

	t.Run("single entry reversal flips direction", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		accounts := accountsByID(cash)

		tx, err := NewSingleEntryTransaction(time.Now(), "Deposit", decimal.NewFromInt(200), cash.ID, DirectionDebit)
		require.NoError(t, err)
		require.NoError(t, engine.Post(tx, accounts))
		require.True(t, cash.Balance.Equal(decimal.NewFromInt(200)))

		reversal, err := engine.Reverse(tx, accounts)
		require.NoError(t, err)
		assert.True(t, cash.Balance.IsZero())
		require.NotNil(t, reversal.Direction)
		assert.Equal(t, DirectionCredit, *reversal.Direction)
	})

	t.Run("pending transaction cannot be reversed", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		rent := mustAccount(t, "5000", "Rent Expense", AccountGroupExpense)

		tx, err := NewDoubleEntryTransaction(time.Now(), "Office rent", decimal.NewFromInt(500), rent.ID, cash.ID)
		require.NoError(t, err)

		_, err = engine.Reverse(tx, accountsByID(cash, rent))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_POSTED", domainErr.Code)
	})

	t.Run("reversed transaction cannot be reversed twice", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		rent := mustAccount(t, "5000", "Rent Expense", AccountGroupExpense)
		accounts := accountsByID(cash, rent)

		tx, err := NewDoubleEntryTransaction(time.Now(), "Office rent", decimal.NewFromInt(500), rent.ID, cash.ID)
		require.NoError(t, err)
		require.NoError(t, engine.Post(tx, accounts))
		_, err = engine.Reverse(tx, accounts)
		require.NoError(t, err)

		_, err = engine.Reverse(tx, accounts)
		assert.Error(t, err)
	})
}
