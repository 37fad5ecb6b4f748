package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger/internal/domain/ledger"
)

func balancedChart(t *testing.T) []ledger.Account {
	t.Helper()
	cash, err := ledger.NewAccount("1000", "Cash", ledger.AccountGroupAsset, nil)
	require.NoError(t, err)
	sales, err := ledger.NewAccount("4000", "Sales", ledger.AccountGroupIncome, nil)
	require.NoError(t, err)
	rent, err := ledger.NewAccount("5000", "Rent Expense", ledger.AccountGroupExpense, nil)
	require.NoError(t, err)

	// Sale of 800 into cash, then 300 rent paid from cash
	cash.Balance = decimal.NewFromInt(500)
	sales.Balance = decimal.NewFromInt(800)
	rent.Balance = decimal.NewFromInt(300)
	return []ledger.Account{*cash, *sales, *rent}
}

func TestBuildTrialBalance(t *testing.T) {
	asOf := time.Now()

	t.Run("balanced books", func(t *testing.T) {
		tb := BuildTrialBalance(balancedChart(t), asOf)

		require.Len(t, tb.Rows, 3)
		assert.True(t, tb.TotalDebit.Equal(decimal.NewFromInt(800)))
		assert.True(t, tb.TotalCredit.Equal(decimal.NewFromInt(800)))
		assert.True(t, tb.IsBalanced())
		assert.Equal(t, TrialBalanceBalanced, tb.Status)
	})

	t.Run("normal-side presentation", func(t *testing.T) {
		tb := BuildTrialBalance(balancedChart(t), asOf)

		byCode := make(map[string]TrialBalanceRow)
		for _, row := range tb.Rows {
			byCode[row.Code] = row
		}

		assert.True(t, byCode["1000"].Debit.Equal(decimal.NewFromInt(500)))
		assert.True(t, byCode["1000"].Credit.IsZero())
		assert.True(t, byCode["4000"].Credit.Equal(decimal.NewFromInt(800)))
		assert.True(t, byCode["4000"].Debit.IsZero())
		assert.True(t, byCode["5000"].Debit.Equal(decimal.NewFromInt(300)))
	})

	t.Run("negative balance flips the column", func(t *testing.T) {
		overdrawn, err := ledger.NewAccount("1100", "Bank", ledger.AccountGroupAsset, nil)
		require.NoError(t, err)
		overdrawn.Balance = decimal.NewFromInt(-250)

		tb := BuildTrialBalance([]ledger.Account{*overdrawn}, asOf)
		require.Len(t, tb.Rows, 1)
		assert.True(t, tb.Rows[0].Debit.IsZero())
		assert.True(t, tb.Rows[0].Credit.Equal(decimal.NewFromInt(250)))
	})

	t.Run("zero balance accounts included", func(t *testing.T) {
		empty, err := ledger.NewAccount("2000", "Loans", ledger.AccountGroupLiability, nil)
		require.NoError(t, err)

		tb := BuildTrialBalance([]ledger.Account{*empty}, asOf)
		require.Len(t, tb.Rows, 1)
		assert.True(t, tb.Rows[0].Debit.IsZero())
		assert.True(t, tb.Rows[0].Credit.IsZero())
		assert.True(t, tb.IsBalanced())
	})

	t.Run("unbalanced books detected", func(t *testing.T) {
		accounts := balancedChart(t)
		accounts[0].Balance = decimal.NewFromInt(9999)
		tb := BuildTrialBalance(accounts, asOf)
		assert.False(t, tb.IsBalanced())
		assert.Equal(t, TrialBalanceUnbalanced, tb.Status)
	})
}
