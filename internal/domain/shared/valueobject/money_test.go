package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("invalid currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), Currency("XXX"))
		assert.Error(t, err)
	})

	t.Run("from string", func(t *testing.T) {
		m, err := NewMoneyFromString("42.75", EUR)
		require.NoError(t, err)
		assert.Equal(t, "42.75 EUR", m.String())
	})

	t.Run("from invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyUSD(decimal.NewFromInt(100))
	b := NewMoneyUSD(decimal.NewFromInt(30))

	t.Run("add same currency", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(130)))
	})

	t.Run("add currency mismatch", func(t *testing.T) {
		eur := Zero(EUR)
		_, err := a.Add(eur)
		assert.Error(t, err)
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(70)))
	})

	t.Run("negate and abs", func(t *testing.T) {
		neg := a.Negate()
		assert.True(t, neg.IsNegative())
		assert.True(t, neg.Abs().Equals(a))
	})

	t.Run("percentage", func(t *testing.T) {
		pct := a.CalculatePercentage(decimal.NewFromInt(15))
		assert.True(t, pct.Amount().Equal(decimal.NewFromInt(15)))
	})
}

func TestMoneyRounding(t *testing.T) {
	t.Run("USD rounds to two decimals", func(t *testing.T) {
		m := NewMoneyUSD(decimal.RequireFromString("10.014"))
		rounded := m.RoundToCurrency()
		assert.Equal(t, "10.01 USD", rounded.String())
	})

	t.Run("zero decimal currency", func(t *testing.T) {
		m, err := NewMoneyFromString("1500.60", UGX)
		require.NoError(t, err)
		rounded := m.RoundToCurrency()
		assert.True(t, rounded.Amount().Equal(decimal.NewFromInt(1501)))
	})
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyUSD(decimal.NewFromInt(10))
	b := NewMoneyUSD(decimal.NewFromInt(20))

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	_, err = a.LessThan(Zero(EUR))
	assert.Error(t, err)
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(99.99))
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(m))
}
