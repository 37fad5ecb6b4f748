package ledger

import (
	"strings"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/openbooks/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountGroup classifies a ledger account
type AccountGroup string

const (
	AccountGroupAsset     AccountGroup = "ASSET"
	AccountGroupLiability AccountGroup = "LIABILITY"
	AccountGroupEquity    AccountGroup = "EQUITY"
	AccountGroupIncome    AccountGroup = "INCOME"
	AccountGroupExpense   AccountGroup = "EXPENSE"
)

// IsValid checks if the group is a valid AccountGroup
func (g AccountGroup) IsValid() bool {
	switch g {
	case AccountGroupAsset, AccountGroupLiability, AccountGroupEquity,
		AccountGroupIncome, AccountGroupExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountGroup
func (g AccountGroup) String() string {
	return string(g)
}

// NormalBalance returns the direction that increases an account of this group.
// ASSET and EXPENSE accounts are debit-normal; LIABILITY, EQUITY and INCOME
// accounts are credit-normal.
func (g AccountGroup) NormalBalance() Direction {
	if g == AccountGroupAsset || g == AccountGroupExpense {
		return DirectionDebit
	}
	return DirectionCredit
}

// Account represents a ledger account aggregate root. Its balance is signed
// per the normal-balance convention and is mutated only through the posting
// engine's commit path.
type Account struct {
	shared.BaseAggregateRoot
	Code     string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name     string          `gorm:"type:varchar(200);not null" json:"name"`
	Group    AccountGroup    `gorm:"type:varchar(20);not null;index" json:"group"`
	ParentID *uuid.UUID      `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	IsActive bool            `gorm:"not null;default:true;index" json:"is_active"`
	Balance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"balance"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "ledger_accounts"
}

// NewAccount creates a new ledger account
func NewAccount(code, name string, group AccountGroup, parentID *uuid.UUID) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if !group.IsValid() {
		return nil, shared.NewDomainError("INVALID_GROUP", "Ledger group is not valid")
	}

	a := &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Group:             group,
		ParentID:          parentID,
		IsActive:          true,
		Balance:           decimal.Zero,
	}
	a.AddDomainEvent(NewAccountCreatedEvent(a))
	return a, nil
}

// BalanceMoney returns the balance as a Money value object
func (a *Account) BalanceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.Balance)
}

// Deactivate marks the account inactive. The caller is responsible for
// checking that no PENDING transaction references the account; posted
// history may remain on an inactive account.
func (a *Account) Deactivate() error {
	if !a.IsActive {
		return shared.NewStateError("INVALID_STATE", "Account is already inactive")
	}
	a.IsActive = false
	a.AddDomainEvent(NewAccountDeactivatedEvent(a))
	return nil
}

// Activate re-enables an inactive account
func (a *Account) Activate() error {
	if a.IsActive {
		return shared.NewStateError("INVALID_STATE", "Account is already active")
	}
	a.IsActive = true
	return nil
}

// apply adjusts the balance for one posted leg. A leg in the account's
// normal-balance direction increases the balance; the opposite direction
// decreases it. Only the posting engine calls this.
func (a *Account) apply(direction Direction, amount decimal.Decimal) {
	if direction == a.Group.NormalBalance() {
		a.Balance = a.Balance.Add(amount)
	} else {
		a.Balance = a.Balance.Sub(amount)
	}
}
