package ledger

import (
	"strings"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupStatus mirrors the lifecycle of a transaction group's member lines
type GroupStatus string

const (
	GroupStatusPending  GroupStatus = "PENDING"
	GroupStatusPosted   GroupStatus = "POSTED"
	GroupStatusReversed GroupStatus = "REVERSED"
)

// IsValid checks if the status is a valid GroupStatus
func (s GroupStatus) IsValid() bool {
	switch s {
	case GroupStatusPending, GroupStatusPosted, GroupStatusReversed:
		return true
	}
	return false
}

// String returns the string representation of GroupStatus
func (s GroupStatus) String() string {
	return string(s)
}

// JournalLine is one line of a journal entry as supplied by the caller
type JournalLine struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Direction   Direction       `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// TransactionGroup batches ledger transactions into one atomically-postable
// and atomically-reversible unit (a journal entry). It may only be posted
// while balanced; once posted it is immutable except for a group-level
// reversal.
type TransactionGroup struct {
	shared.BaseAggregateRoot
	Description  string          `gorm:"type:varchar(500);not null" json:"description"`
	GroupDate    time.Time       `gorm:"not null;index" json:"group_date"`
	Status       GroupStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	TotalDebit   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_debit"`
	TotalCredit  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_credit"`
	Balanced     bool            `gorm:"not null" json:"balanced"`
	Transactions []Transaction   `gorm:"foreignKey:GroupID;references:ID" json:"transactions"`
}

// TableName returns the table name for GORM
func (TransactionGroup) TableName() string {
	return "ledger_transaction_groups"
}

// NewJournalEntry creates a PENDING transaction group from journal lines.
// A journal entry needs at least two lines and equal debit and credit
// totals; each line becomes a PENDING single-entry member transaction.
func NewJournalEntry(description string, date time.Time, lines []JournalLine) (*TransactionGroup, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Description cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Group date is required")
	}
	if len(lines) < 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A journal entry requires at least two lines")
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, line := range lines {
		if line.AccountID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Every line requires an account")
		}
		if !line.Direction.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Every line requires a DEBIT or CREDIT direction")
		}
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Line amounts must be positive")
		}
		if line.Direction == DirectionDebit {
			totalDebit = totalDebit.Add(line.Amount)
		} else {
			totalCredit = totalCredit.Add(line.Amount)
		}
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, shared.NewDomainError("UNBALANCED_ENTRY",
			"Journal entry debits ("+totalDebit.String()+") do not equal credits ("+totalCredit.String()+")")
	}

	g := &TransactionGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       description,
		GroupDate:         date,
		Status:            GroupStatusPending,
		TotalDebit:        totalDebit,
		TotalCredit:       totalCredit,
		Balanced:          true,
	}

	g.Transactions = make([]Transaction, 0, len(lines))
	for _, line := range lines {
		lineDescription := line.Description
		if lineDescription == "" {
			lineDescription = description
		}
		member, err := NewSingleEntryTransaction(date, lineDescription, line.Amount, line.AccountID, line.Direction)
		if err != nil {
			return nil, err
		}
		groupID := g.ID
		member.GroupID = &groupID
		g.Transactions = append(g.Transactions, *member)
	}

	g.AddDomainEvent(NewJournalEntryCreatedEvent(g))
	return g, nil
}

// CheckBalanced recomputes the debit/credit totals from the member lines.
// A posted group found unbalanced here is an integrity breach.
func (g *TransactionGroup) CheckBalanced() bool {
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i := range g.Transactions {
		for _, leg := range g.Transactions[i].Legs() {
			if leg.Direction == DirectionDebit {
				totalDebit = totalDebit.Add(leg.Amount)
			} else {
				totalCredit = totalCredit.Add(leg.Amount)
			}
		}
	}
	return totalDebit.Equal(totalCredit)
}

// CanDelete returns true while the group is hard-deletable
func (g *TransactionGroup) CanDelete() bool {
	return g.Status == GroupStatusPending
}

// MarkPosted flips the group to POSTED after every member line has posted
func (g *TransactionGroup) MarkPosted() error {
	if g.Status != GroupStatusPending {
		return shared.NewStateError("ALREADY_POSTED", "Group is already "+g.Status.String())
	}
	g.Status = GroupStatusPosted
	g.AddDomainEvent(NewJournalEntryPostedEvent(g))
	return nil
}

// MarkReversed flips the group to REVERSED after every member line has been
// reversed. Partial reversal of a group is not a supported state.
func (g *TransactionGroup) MarkReversed() error {
	if g.Status != GroupStatusPosted {
		return shared.NewStateError("NOT_POSTED", "Only POSTED groups can be reversed")
	}
	g.Status = GroupStatusReversed
	g.AddDomainEvent(NewJournalEntryReversedEvent(g))
	return nil
}
