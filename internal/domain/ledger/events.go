package ledger

import (
	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountCreatedEvent is raised when a new ledger account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID    `json:"account_id"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Group     AccountGroup `json:"group"`
}

// EventType returns the event type name
func (e *AccountCreatedEvent) EventType() string {
	return "LedgerAccountCreated"
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerAccountCreated", "LedgerAccount", a.ID),
		AccountID:       a.ID,
		Code:            a.Code,
		Name:            a.Name,
		Group:           a.Group,
	}
}

// AccountDeactivatedEvent is raised when a ledger account is deactivated
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Code      string    `json:"code"`
}

// EventType returns the event type name
func (e *AccountDeactivatedEvent) EventType() string {
	return "LedgerAccountDeactivated"
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(a *Account) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerAccountDeactivated", "LedgerAccount", a.ID),
		AccountID:       a.ID,
		Code:            a.Code,
	}
}

// TransactionPostedEvent is raised when a ledger transaction posts
type TransactionPostedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	EntryKind     EntryKind       `json:"entry_kind"`
	GroupID       *uuid.UUID      `json:"group_id,omitempty"`
}

// EventType returns the event type name
func (e *TransactionPostedEvent) EventType() string {
	return "LedgerTransactionPosted"
}

// NewTransactionPostedEvent creates a new TransactionPostedEvent
func NewTransactionPostedEvent(t *Transaction) *TransactionPostedEvent {
	return &TransactionPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerTransactionPosted", "LedgerTransaction", t.ID),
		TransactionID:   t.ID,
		Amount:          t.Amount,
		EntryKind:       t.EntryKind,
		GroupID:         t.GroupID,
	}
}

// TransactionReversedEvent is raised when a posted transaction is reversed
type TransactionReversedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	ReversalID    uuid.UUID       `json:"reversal_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *TransactionReversedEvent) EventType() string {
	return "LedgerTransactionReversed"
}

// NewTransactionReversedEvent creates a new TransactionReversedEvent
func NewTransactionReversedEvent(t *Transaction, reversalID uuid.UUID) *TransactionReversedEvent {
	return &TransactionReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerTransactionReversed", "LedgerTransaction", t.ID),
		TransactionID:   t.ID,
		ReversalID:      reversalID,
		Amount:          t.Amount,
	}
}

// JournalEntryCreatedEvent is raised when a balanced journal entry is created
type JournalEntryCreatedEvent struct {
	shared.BaseDomainEvent
	GroupID     uuid.UUID       `json:"group_id"`
	LineCount   int             `json:"line_count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// EventType returns the event type name
func (e *JournalEntryCreatedEvent) EventType() string {
	return "JournalEntryCreated"
}

// NewJournalEntryCreatedEvent creates a new JournalEntryCreatedEvent
func NewJournalEntryCreatedEvent(g *TransactionGroup) *JournalEntryCreatedEvent {
	return &JournalEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("JournalEntryCreated", "LedgerTransactionGroup", g.ID),
		GroupID:         g.ID,
		LineCount:       len(g.Transactions),
		TotalDebit:      g.TotalDebit,
		TotalCredit:     g.TotalCredit,
	}
}

// JournalEntryPostedEvent is raised when every line of a journal entry posts
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	GroupID     uuid.UUID       `json:"group_id"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// EventType returns the event type name
func (e *JournalEntryPostedEvent) EventType() string {
	return "JournalEntryPosted"
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(g *TransactionGroup) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("JournalEntryPosted", "LedgerTransactionGroup", g.ID),
		GroupID:         g.ID,
		TotalDebit:      g.TotalDebit,
		TotalCredit:     g.TotalCredit,
	}
}

// JournalEntryReversedEvent is raised when a journal entry is reversed
type JournalEntryReversedEvent struct {
	shared.BaseDomainEvent
	GroupID uuid.UUID `json:"group_id"`
}

// EventType returns the event type name
func (e *JournalEntryReversedEvent) EventType() string {
	return "JournalEntryReversed"
}

// NewJournalEntryReversedEvent creates a new JournalEntryReversedEvent
func NewJournalEntryReversedEvent(g *TransactionGroup) *JournalEntryReversedEvent {
	return &JournalEntryReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("JournalEntryReversed", "LedgerTransactionGroup", g.ID),
		GroupID:         g.ID,
	}
}
