package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger/internal/domain/shared"
)

func mustAccount(t *testing.T, code, name string, group AccountGroup) *Account {
	t.Helper()
	account, err := NewAccount(code, name, group, nil)
	require.NoError(t, err)
	return account
}

func TestNewAccount(t *testing.T) {
	t.Run("valid account", func(t *testing.T) {
		account, err := NewAccount("1000", "Cash", AccountGroupAsset, nil)
		require.NoError(t, err)
		assert.Equal(t, "1000", account.Code)
		assert.Equal(t, "Cash", account.Name)
		assert.Equal(t, AccountGroupAsset, account.Group)
		assert.True(t, account.IsActive)
		assert.True(t, account.Balance.IsZero())
		assert.NotEqual(t, uuid.Nil, account.ID)
		assert.Len(t, account.GetDomainEvents(), 1)
	})

	t.Run("with parent", func(t *testing.T) {
		parentID := uuid.New()
		account, err := NewAccount("1001", "Petty Cash", AccountGroupAsset, &parentID)
		require.NoError(t, err)
		require.NotNil(t, account.ParentID)
		assert.Equal(t, parentID, *account.ParentID)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := NewAccount("", "Cash", AccountGroupAsset, nil)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewAccount("1000", "", AccountGroupAsset, nil)
		assert.Error(t, err)
	})

	t.Run("invalid group", func(t *testing.T) {
		_, err := NewAccount("1000", "Cash", AccountGroup("WEIRD"), nil)
		assert.Error(t, err)
	})
}

func TestNormalBalance(t *testing.T) {
	tests := []struct {
		group AccountGroup
		want  Direction
	}{
		{AccountGroupAsset, DirectionDebit},
		{AccountGroupExpense, DirectionDebit},
		{AccountGroupLiability, DirectionCredit},
		{AccountGroupEquity, DirectionCredit},
		{AccountGroupIncome, DirectionCredit},
	}
	for _, tt := range tests {
		t.Run(tt.group.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.group.NormalBalance())
		})
	}
}

func TestAccountApply(t *testing.T) {
	t.Run("debit-normal account", func(t *testing.T) {
		cash := mustAccount(t, "1000", "Cash", AccountGroupAsset)
		cash.apply(DirectionDebit, decimal.NewFromInt(500))
		assert.True(t, cash.Balance.Equal(decimal.NewFromInt(500)))

		cash.apply(DirectionCredit, decimal.NewFromInt(800))
		assert.True(t, cash.Balance.Equal(decimal.NewFromInt(-300)), "balance may go negative")
	})

	t.Run("credit-normal account", func(t *testing.T) {
		revenue := mustAccount(t, "4000", "Sales", AccountGroupIncome)
		revenue.apply(DirectionCredit, decimal.NewFromInt(250))
		assert.True(t, revenue.Balance.Equal(decimal.NewFromInt(250)))

		revenue.apply(DirectionDebit, decimal.NewFromInt(100))
		assert.True(t, revenue.Balance.Equal(decimal.NewFromInt(150)))
	})
}

func TestAccountActivation(t *testing.T) {
	account := mustAccount(t, "5000", "Rent", AccountGroupExpense)

	require.NoError(t, account.Deactivate())
	assert.False(t, account.IsActive)

	err := account.Deactivate()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrorKindState, domainErr.Kind)

	require.NoError(t, account.Activate())
	assert.True(t, account.IsActive)
}
