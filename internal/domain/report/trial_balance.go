package report

import (
	"time"

	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrialBalanceStatus represents the result of a trial balance check
type TrialBalanceStatus string

const (
	TrialBalanceBalanced   TrialBalanceStatus = "BALANCED"
	TrialBalanceUnbalanced TrialBalanceStatus = "UNBALANCED"
)

func (s TrialBalanceStatus) String() string {
	return string(s)
}

// TrialBalanceRow is one account's balance presented on its normal side.
// A debit-normal account with a positive balance shows in the Debit
// column; a negative balance flips it to the Credit column, and
// symmetrically for credit-normal accounts.
type TrialBalanceRow struct {
	AccountID uuid.UUID           `json:"account_id"`
	Code      string              `json:"code"`
	Name      string              `json:"name"`
	Group     ledger.AccountGroup `json:"group"`
	Debit     decimal.Decimal     `json:"debit"`
	Credit    decimal.Decimal     `json:"credit"`
}

// TrialBalance lists every active account with its balance split into
// debit and credit columns. When every posting went through the posting
// engine the two column totals are equal.
type TrialBalance struct {
	AsOf        time.Time          `json:"as_of"`
	Rows        []TrialBalanceRow  `json:"rows"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Status      TrialBalanceStatus `json:"status"`
}

// IsBalanced reports whether the debit and credit columns agree
func (tb *TrialBalance) IsBalanced() bool {
	return tb.Status == TrialBalanceBalanced
}

// columnsFor splits a signed balance into its debit/credit presentation
func columnsFor(group ledger.AccountGroup, balance decimal.Decimal) (debit, credit decimal.Decimal) {
	onNormalSide := !balance.IsNegative()
	normal := group.NormalBalance()
	magnitude := balance.Abs()
	if (normal == ledger.DirectionDebit) == onNormalSide {
		return magnitude, decimal.Zero
	}
	return decimal.Zero, magnitude
}

// BuildTrialBalance projects the current account balances into a trial
// balance as of the given time. Zero-balance accounts are included so the
// statement covers the full chart of accounts.
func BuildTrialBalance(accounts []ledger.Account, asOf time.Time) *TrialBalance {
	tb := &TrialBalance{
		AsOf:        asOf,
		Rows:        make([]TrialBalanceRow, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for i := range accounts {
		acc := &accounts[i]
		debit, credit := columnsFor(acc.Group, acc.Balance)
		tb.Rows = append(tb.Rows, TrialBalanceRow{
			AccountID: acc.ID,
			Code:      acc.Code,
			Name:      acc.Name,
			Group:     acc.Group,
			Debit:     debit,
			Credit:    credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(debit)
		tb.TotalCredit = tb.TotalCredit.Add(credit)
	}
	if tb.TotalDebit.Equal(tb.TotalCredit) {
		tb.Status = TrialBalanceBalanced
	} else {
		tb.Status = TrialBalanceUnbalanced
	}
	return tb
}
