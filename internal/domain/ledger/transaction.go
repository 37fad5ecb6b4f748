package ledger

import (
	"strings"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle status of a ledger transaction
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusPosted   TransactionStatus = "POSTED"
	TransactionStatusReversed TransactionStatus = "REVERSED"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusPosted, TransactionStatusReversed:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the transaction is immutable
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusPosted || s == TransactionStatusReversed
}

// EntryKind distinguishes the two transaction shapes
type EntryKind string

const (
	EntryKindDouble EntryKind = "DOUBLE" // debit account + credit account
	EntryKindSingle EntryKind = "SINGLE" // one account + explicit direction
)

// Direction is an explicit debit/credit marker
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// Opposite returns the flipped direction
func (d Direction) Opposite() Direction {
	if d == DirectionDebit {
		return DirectionCredit
	}
	return DirectionDebit
}

// Leg is one account-touching side of a transaction, used by the posting
// engine to treat both entry kinds uniformly
type Leg struct {
	AccountID uuid.UUID
	Direction Direction
	Amount    decimal.Decimal
}

// Transaction represents a ledger transaction aggregate root. Created
// PENDING; becomes POSTED exactly once; may become REVERSED, in which case
// an inverse transaction carries the correction and the original row is
// never edited beyond the status move.
type Transaction struct {
	shared.BaseAggregateRoot
	TransactionDate time.Time         `gorm:"not null;index" json:"transaction_date"`
	Description     string            `gorm:"type:varchar(500)" json:"description"`
	Amount          decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"amount"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	EntryKind       EntryKind         `gorm:"type:varchar(10);not null" json:"entry_kind"`

	// Double-entry shape
	DebitAccountID  *uuid.UUID `gorm:"type:uuid;index" json:"debit_account_id,omitempty"`
	CreditAccountID *uuid.UUID `gorm:"type:uuid;index" json:"credit_account_id,omitempty"`

	// Single-entry shape
	AccountID *uuid.UUID `gorm:"type:uuid;index" json:"account_id,omitempty"`
	Direction *Direction `gorm:"type:varchar(10)" json:"direction,omitempty"`

	GroupID      *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	ReversalOfID *uuid.UUID `gorm:"type:uuid;index" json:"reversal_of_id,omitempty"`
	ReversedByID *uuid.UUID `gorm:"type:uuid" json:"reversed_by_id,omitempty"`
	PostedAt     *time.Time `json:"posted_at,omitempty"`
	ReversedAt   *time.Time `json:"reversed_at,omitempty"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "ledger_transactions"
}

func validateTransactionInput(date time.Time, description string, amount decimal.Decimal) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Description cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	return nil
}

// NewDoubleEntryTransaction creates a PENDING double-entry transaction
func NewDoubleEntryTransaction(date time.Time, description string, amount decimal.Decimal, debitAccountID, creditAccountID uuid.UUID) (*Transaction, error) {
	return newDoubleEntry(uuid.New(), date, description, amount, debitAccountID, creditAccountID)
}

// NewDoubleEntryTransactionWithID creates a PENDING double-entry transaction
// with a caller-supplied identity. Vouchers use this so the paired
// transaction shares the voucher's ID.
func NewDoubleEntryTransactionWithID(id uuid.UUID, date time.Time, description string, amount decimal.Decimal, debitAccountID, creditAccountID uuid.UUID) (*Transaction, error) {
	return newDoubleEntry(id, date, description, amount, debitAccountID, creditAccountID)
}

func newDoubleEntry(id uuid.UUID, date time.Time, description string, amount decimal.Decimal, debitAccountID, creditAccountID uuid.UUID) (*Transaction, error) {
	if err := validateTransactionInput(date, description, amount); err != nil {
		return nil, err
	}
	if debitAccountID == uuid.Nil || creditAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Both debit and credit accounts are required")
	}
	if debitAccountID == creditAccountID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Debit and credit accounts must differ")
	}
	return &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithID(id),
		TransactionDate:   date,
		Description:       description,
		Amount:            amount,
		Status:            TransactionStatusPending,
		EntryKind:         EntryKindDouble,
		DebitAccountID:    &debitAccountID,
		CreditAccountID:   &creditAccountID,
	}, nil
}

// NewSingleEntryTransaction creates a PENDING single-entry transaction
func NewSingleEntryTransaction(date time.Time, description string, amount decimal.Decimal, accountID uuid.UUID, direction Direction) (*Transaction, error) {
	return newSingleEntry(uuid.New(), date, description, amount, accountID, direction)
}

// NewSingleEntryTransactionWithID creates a PENDING single-entry transaction
// with a caller-supplied identity
func NewSingleEntryTransactionWithID(id uuid.UUID, date time.Time, description string, amount decimal.Decimal, accountID uuid.UUID, direction Direction) (*Transaction, error) {
	return newSingleEntry(id, date, description, amount, accountID, direction)
}

func newSingleEntry(id uuid.UUID, date time.Time, description string, amount decimal.Decimal, accountID uuid.UUID, direction Direction) (*Transaction, error) {
	if err := validateTransactionInput(date, description, amount); err != nil {
		return nil, err
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account is required")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Direction must be DEBIT or CREDIT")
	}
	return &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithID(id),
		TransactionDate:   date,
		Description:       description,
		Amount:            amount,
		Status:            TransactionStatusPending,
		EntryKind:         EntryKindSingle,
		AccountID:         &accountID,
		Direction:         &direction,
	}, nil
}

// Legs returns the account-touching sides of the transaction
func (t *Transaction) Legs() []Leg {
	if t.EntryKind == EntryKindSingle {
		return []Leg{{AccountID: *t.AccountID, Direction: *t.Direction, Amount: t.Amount}}
	}
	return []Leg{
		{AccountID: *t.DebitAccountID, Direction: DirectionDebit, Amount: t.Amount},
		{AccountID: *t.CreditAccountID, Direction: DirectionCredit, Amount: t.Amount},
	}
}

// AccountIDs returns the distinct account IDs the transaction references
func (t *Transaction) AccountIDs() []uuid.UUID {
	legs := t.Legs()
	ids := make([]uuid.UUID, 0, len(legs))
	for _, leg := range legs {
		ids = append(ids, leg.AccountID)
	}
	return ids
}

// IsPending returns true while the transaction can still be mutated or deleted
func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// markPosted flips the transaction to POSTED. Only the posting engine calls this.
func (t *Transaction) markPosted(at time.Time) {
	t.Status = TransactionStatusPosted
	t.PostedAt = &at
	t.AddDomainEvent(NewTransactionPostedEvent(t))
}

// markReversed records the reversal entry against the original. Only the
// posting engine calls this; no other field of the original ever changes.
func (t *Transaction) markReversed(reversalID uuid.UUID, at time.Time) {
	t.Status = TransactionStatusReversed
	t.ReversedByID = &reversalID
	t.ReversedAt = &at
	t.AddDomainEvent(NewTransactionReversedEvent(t, reversalID))
}

// buildReversal constructs the inverse PENDING transaction: legs swapped for
// double entries, direction flipped for single entries, dated at reversal time.
func (t *Transaction) buildReversal(at time.Time) *Transaction {
	reversal := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransactionDate:   at,
		Description:       "Reversal of: " + t.Description,
		Amount:            t.Amount,
		Status:            TransactionStatusPending,
		EntryKind:         t.EntryKind,
		GroupID:           t.GroupID,
	}
	originalID := t.ID
	reversal.ReversalOfID = &originalID

	if t.EntryKind == EntryKindSingle {
		accountID := *t.AccountID
		flipped := t.Direction.Opposite()
		reversal.AccountID = &accountID
		reversal.Direction = &flipped
	} else {
		debitID := *t.CreditAccountID
		creditID := *t.DebitAccountID
		reversal.DebitAccountID = &debitID
		reversal.CreditAccountID = &creditID
	}
	return reversal
}
