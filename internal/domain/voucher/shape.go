package voucher

import (
	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/shared"
)

// accountShape is the per-type account requirement. Each voucher type binds
// its own validation function instead of a flat record with optional fields
// checked by string comparison.
type accountShape struct {
	// description names the requirement in error messages
	description string
	// singleAccount is true when the type takes only the debit (cash) account
	singleAccount bool
	validate      func(debit, credit *ledger.Account) error
}

func shapeError(message string) error {
	return shared.NewDomainError("INVALID_ACCOUNT_SHAPE", message)
}

func requireBoth(debit, credit *ledger.Account, description string) error {
	if debit == nil || credit == nil {
		return shapeError("A " + description + " requires both accounts")
	}
	if debit.ID == credit.ID {
		return shapeError("The two accounts must differ")
	}
	return nil
}

var shapes = map[Type]accountShape{
	TypePayment: {
		description: "PAYMENT voucher (cash credit, expense debit)",
		validate: func(debit, credit *ledger.Account) error {
			if err := requireBoth(debit, credit, "PAYMENT voucher"); err != nil {
				return err
			}
			if debit.Group != ledger.AccountGroupExpense {
				return shapeError("PAYMENT vouchers debit an EXPENSE account, got " + debit.Group.String())
			}
			if credit.Group != ledger.AccountGroupAsset {
				return shapeError("PAYMENT vouchers credit a cash (ASSET) account, got " + credit.Group.String())
			}
			return nil
		},
	},
	TypeReceipt: {
		description: "RECEIPT voucher (cash debit, income credit)",
		validate: func(debit, credit *ledger.Account) error {
			if err := requireBoth(debit, credit, "RECEIPT voucher"); err != nil {
				return err
			}
			if debit.Group != ledger.AccountGroupAsset {
				return shapeError("RECEIPT vouchers debit a cash (ASSET) account, got " + debit.Group.String())
			}
			if credit.Group != ledger.AccountGroupIncome {
				return shapeError("RECEIPT vouchers credit an INCOME account, got " + credit.Group.String())
			}
			return nil
		},
	},
	TypeDeposit: {
		description:   "DEPOSIT voucher (cash only)",
		singleAccount: true,
		validate: func(debit, credit *ledger.Account) error {
			if debit == nil {
				return shapeError("A DEPOSIT voucher requires a cash account")
			}
			if credit != nil {
				return shapeError("A DEPOSIT voucher takes only the cash account")
			}
			if debit.Group != ledger.AccountGroupAsset {
				return shapeError("DEPOSIT vouchers use a cash (ASSET) account, got " + debit.Group.String())
			}
			return nil
		},
	},
	TypeContra: {
		description: "CONTRA voucher (two ASSET accounts)",
		validate: func(debit, credit *ledger.Account) error {
			if err := requireBoth(debit, credit, "CONTRA voucher"); err != nil {
				return err
			}
			if debit.Group != ledger.AccountGroupAsset || credit.Group != ledger.AccountGroupAsset {
				return shapeError("CONTRA vouchers move between two ASSET accounts")
			}
			return nil
		},
	},
	TypeJournal: {
		description: "JOURNAL voucher (any two distinct accounts)",
		validate: func(debit, credit *ledger.Account) error {
			return requireBoth(debit, credit, "JOURNAL voucher")
		},
	},
}

// shapeFor returns the account shape for a voucher type. Callers validate
// the type first; an unknown type gets a shape that always rejects.
func shapeFor(t Type) accountShape {
	if s, ok := shapes[t]; ok {
		return s
	}
	return accountShape{
		description: "unknown voucher type",
		validate: func(debit, credit *ledger.Account) error {
			return shapeError("Unknown voucher type " + t.String())
		},
	}
}
