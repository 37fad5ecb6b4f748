package voucher

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/shared"
)

func testAccount(t *testing.T, code, name string, group ledger.AccountGroup) *ledger.Account {
	t.Helper()
	account, err := ledger.NewAccount(code, name, group, nil)
	require.NoError(t, err)
	return account
}

func paymentVoucher(t *testing.T) (*Voucher, *ledger.Account, *ledger.Account) {
	t.Helper()
	cash := testAccount(t, "1000", "Cash", ledger.AccountGroupAsset)
	rent := testAccount(t, "5000", "Rent Expense", ledger.AccountGroupExpense)
	vendorID := uuid.New()
	v, err := NewVoucher("PV-001", TypePayment, PartyVendor, &vendorID,
		decimal.NewFromInt(500), time.Now(), "Office rent", rent, cash)
	require.NoError(t, err)
	return v, rent, cash
}

func TestNewVoucher(t *testing.T) {
	t.Run("payment voucher pairs a double-entry transaction", func(t *testing.T) {
		v, rent, cash := paymentVoucher(t)
		assert.Equal(t, StatusPending, v.Status)
		require.NotNil(t, v.Transaction)
		assert.Equal(t, v.ID, v.Transaction.ID, "voucher and paired transaction share identity")
		assert.Equal(t, ledger.TransactionStatusPending, v.Transaction.Status)
		assert.Equal(t, rent.ID, *v.Transaction.DebitAccountID)
		assert.Equal(t, cash.ID, *v.Transaction.CreditAccountID)
	})

	t.Run("deposit voucher pairs a single-entry debit", func(t *testing.T) {
		cash := testAccount(t, "1000", "Cash", ledger.AccountGroupAsset)
		v, err := NewVoucher("DV-001", TypeDeposit, PartyNone, nil,
			decimal.NewFromInt(1000), time.Now(), "Opening float", cash, nil)
		require.NoError(t, err)
		require.NotNil(t, v.Transaction)
		assert.Equal(t, ledger.EntryKindSingle, v.Transaction.EntryKind)
		assert.Equal(t, cash.ID, *v.Transaction.AccountID)
		assert.Equal(t, ledger.DirectionDebit, *v.Transaction.Direction)
	})

	t.Run("empty description falls back to type and number", func(t *testing.T) {
		cash := testAccount(t, "1000", "Cash", ledger.AccountGroupAsset)
		v, err := NewVoucher("DV-002", TypeDeposit, PartyNone, nil,
			decimal.NewFromInt(50), time.Now(), "", cash, nil)
		require.NoError(t, err)
		assert.Contains(t, v.Transaction.Description, "DV-002")
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		cash := testAccount(t, "1000", "Cash", ledger.AccountGroupAsset)
		_, err := NewVoucher("DV-003", TypeDeposit, PartyNone, nil,
			decimal.Zero, time.Now(), "", cash, nil)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})
}

func TestVoucherAccountShapes(t *testing.T) {
	cash := testAccount(t, "1000", "Cash", ledger.AccountGroupAsset)
	bank := testAccount(t, "1100", "Bank", ledger.AccountGroupAsset)
	rent := testAccount(t, "5000", "Rent Expense", ledger.AccountGroupExpense)
	sales := testAccount(t, "4000", "Sales", ledger.AccountGroupIncome)
	vendorID := uuid.New()
	clientID := uuid.New()

	t.Run("payment needs expense debit and cash credit", func(t *testing.T) {
		_, err := NewVoucher("PV-010", TypePayment, PartyVendor, &vendorID,
			decimal.NewFromInt(100), time.Now(), "", sales, cash)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACCOUNT_SHAPE", domainErr.Code)
	})

	t.Run("receipt needs cash debit and income credit", func(t *testing.T) {
		v, err := NewVoucher("RV-001", TypeReceipt, PartyClient, &clientID,
			decimal.NewFromInt(100), time.Now(), "Invoice settlement", cash, sales)
		require.NoError(t, err)
		assert.Equal(t, TypeReceipt, v.Type)

		_, err = NewVoucher("RV-002", TypeReceipt, PartyClient, &clientID,
			decimal.NewFromInt(100), time.Now(), "", rent, sales)
		assert.Error(t, err)
	})

	t.Run("contra needs two asset accounts", func(t *testing.T) {
		_, err := NewVoucher("CV-001", TypeContra, PartyNone, nil,
			decimal.NewFromInt(100), time.Now(), "Cash to bank", bank, cash)
		require.NoError(t, err)

		_, err = NewVoucher("CV-002", TypeContra, PartyNone, nil,
			decimal.NewFromInt(100), time.Now(), "", bank, rent)
		assert.Error(t, err)
	})

	t.Run("journal accepts any two distinct accounts", func(t *testing.T) {
		_, err := NewVoucher("JV-001", TypeJournal, PartyNone, nil,
			decimal.NewFromInt(100), time.Now(), "Adjustment", sales, rent)
		require.NoError(t, err)

		_, err = NewVoucher("JV-002", TypeJournal, PartyNone, nil,
			decimal.NewFromInt(100), time.Now(), "", rent, rent)
		assert.Error(t, err)
	})

	t.Run("deposit rejects a credit account", func(t *testing.T) {
		_, err := NewVoucher("DV-010", TypeDeposit, PartyNone, nil,
			decimal.NewFromInt(100), time.Now(), "", cash, bank)
		assert.Error(t, err)
	})
}

func TestVoucherParty(t *testing.T) {
	cash := testAccount(t, "1000", "Cash", ledger.AccountGroupAsset)
	rent := testAccount(t, "5000", "Rent Expense", ledger.AccountGroupExpense)
	sales := testAccount(t, "4000", "Sales", ledger.AccountGroupIncome)
	partyID := uuid.New()

	t.Run("payment rejects a client party", func(t *testing.T) {
		_, err := NewVoucher("PV-020", TypePayment, PartyClient, &partyID,
			decimal.NewFromInt(100), time.Now(), "", rent, cash)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARTY", domainErr.Code)
	})

	t.Run("receipt rejects a vendor party", func(t *testing.T) {
		_, err := NewVoucher("RV-020", TypeReceipt, PartyVendor, &partyID,
			decimal.NewFromInt(100), time.Now(), "", cash, sales)
		assert.Error(t, err)
	})

	t.Run("contra rejects any party", func(t *testing.T) {
		bank := testAccount(t, "1100", "Bank", ledger.AccountGroupAsset)
		_, err := NewVoucher("CV-020", TypeContra, PartyOther, &partyID,
			decimal.NewFromInt(100), time.Now(), "", bank, cash)
		assert.Error(t, err)
	})
}

func TestVoucherLifecycle(t *testing.T) {
	t.Run("pending approve post", func(t *testing.T) {
		v, _, _ := paymentVoucher(t)
		require.NoError(t, v.Approve())
		assert.Equal(t, StatusApproved, v.Status)
		assert.NotNil(t, v.ApprovedAt)

		require.NoError(t, v.MarkPosted())
		assert.Equal(t, StatusPosted, v.Status)
		assert.NotNil(t, v.PostedAt)
	})

	t.Run("pending voucher cannot be posted", func(t *testing.T) {
		v, _, _ := paymentVoucher(t)
		err := v.MarkPosted()
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("cancel from pending and approved only", func(t *testing.T) {
		v, _, _ := paymentVoucher(t)
		require.NoError(t, v.Cancel("duplicate entry"))
		assert.Equal(t, StatusCancelled, v.Status)
		assert.Equal(t, "duplicate entry", v.CancelReason)

		v2, _, _ := paymentVoucher(t)
		require.NoError(t, v2.Approve())
		require.NoError(t, v2.Cancel("wrong vendor"))

		v3, _, _ := paymentVoucher(t)
		require.NoError(t, v3.Approve())
		require.NoError(t, v3.MarkPosted())
		assert.Error(t, v3.Cancel("too late"))
	})

	t.Run("double approve rejected", func(t *testing.T) {
		v, _, _ := paymentVoucher(t)
		require.NoError(t, v.Approve())
		assert.Error(t, v.Approve())
	})
}

func TestVoucherMigrateType(t *testing.T) {
	// RECEIPT with an OTHER party; OTHER is also accepted by PAYMENT, so a
	// type migration between the two passes the party check.
	receiptVoucher := func(t *testing.T) (*Voucher, *ledger.Account, *ledger.Account) {
		t.Helper()
		cash := testAccount(t, "1000", "Cash", ledger.AccountGroupAsset)
		sales := testAccount(t, "4000", "Sales", ledger.AccountGroupIncome)
		partyID := uuid.New()
		v, err := NewVoucher("RV-100", TypeReceipt, PartyOther, &partyID,
			decimal.NewFromInt(250), time.Now(), "Sundry income", cash, sales)
		require.NoError(t, err)
		return v, cash, sales
	}

	t.Run("pending receipt becomes payment", func(t *testing.T) {
		v, cash, _ := receiptVoucher(t)
		rent := testAccount(t, "5000", "Rent Expense", ledger.AccountGroupExpense)
		originalID := v.ID

		require.NoError(t, v.MigrateType(TypePayment, "recorded under wrong type", rent, cash))
		assert.Equal(t, TypePayment, v.Type)
		assert.Equal(t, originalID, v.Transaction.ID, "rebuilt transaction keeps the shared identity")
		assert.Equal(t, rent.ID, *v.Transaction.DebitAccountID)

		events := v.GetDomainEvents()
		migrated, ok := events[len(events)-1].(*VoucherTypeMigratedEvent)
		require.True(t, ok)
		assert.Equal(t, TypeReceipt, migrated.FromType)
		assert.Equal(t, TypePayment, migrated.ToType)
	})

	t.Run("requires a reason", func(t *testing.T) {
		v, cash, _ := receiptVoucher(t)
		rent := testAccount(t, "5000", "Rent Expense", ledger.AccountGroupExpense)
		assert.Error(t, v.MigrateType(TypePayment, "  ", rent, cash))
		assert.Equal(t, TypeReceipt, v.Type)
	})

	t.Run("approved voucher cannot migrate", func(t *testing.T) {
		v, cash, _ := receiptVoucher(t)
		rent := testAccount(t, "5000", "Rent Expense", ledger.AccountGroupExpense)
		require.NoError(t, v.Approve())
		assert.Error(t, v.MigrateType(TypePayment, "reason", rent, cash))
	})

	t.Run("target shape failure leaves type untouched", func(t *testing.T) {
		v, cash, sales := receiptVoucher(t)
		err := v.MigrateType(TypePayment, "reclass", sales, cash)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACCOUNT_SHAPE", domainErr.Code)
		assert.Equal(t, TypeReceipt, v.Type)
	})

	t.Run("party incompatible with target type", func(t *testing.T) {
		v, cash, _ := receiptVoucher(t)
		bank := testAccount(t, "1100", "Bank", ledger.AccountGroupAsset)
		err := v.MigrateType(TypeContra, "reclass", bank, cash)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARTY", domainErr.Code)
		assert.Equal(t, TypeReceipt, v.Type)
	})
}
