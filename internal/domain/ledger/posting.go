package ledger

import (
	"fmt"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Violation is a single validation failure. Validate returns a list rather
// than an error so callers can aggregate violations across a whole group.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PostingEngine is the domain service that commits ledger transactions
// against accounts. It operates on loaded aggregates; loading accounts with
// the appropriate locks and persisting the result is the caller's concern.
type PostingEngine struct{}

// NewPostingEngine creates a new posting engine
func NewPostingEngine() *PostingEngine {
	return &PostingEngine{}
}

// Validate checks a transaction against the accounts it references and
// returns every violation found. A nil slice means the transaction is
// postable.
func (e *PostingEngine) Validate(tx *Transaction, accounts map[uuid.UUID]*Account) []Violation {
	var violations []Violation

	if tx.Status != TransactionStatusPending {
		violations = append(violations, Violation{
			Code:    "NOT_PENDING",
			Message: fmt.Sprintf("Transaction is %s, only PENDING transactions can be posted", tx.Status),
		})
	}
	if tx.Amount.LessThanOrEqual(decimal.Zero) {
		violations = append(violations, Violation{
			Code:    "INVALID_AMOUNT",
			Message: "Amount must be positive",
		})
	}
	if tx.EntryKind == EntryKindDouble && tx.DebitAccountID != nil && tx.CreditAccountID != nil &&
		*tx.DebitAccountID == *tx.CreditAccountID {
		violations = append(violations, Violation{
			Code:    "SAME_ACCOUNT",
			Message: "Debit and credit legs must reference two distinct accounts",
		})
	}
	for _, leg := range tx.Legs() {
		account, ok := accounts[leg.AccountID]
		if !ok || account == nil {
			violations = append(violations, Violation{
				Code:    "ACCOUNT_NOT_FOUND",
				Message: fmt.Sprintf("Account %s does not exist", leg.AccountID),
			})
			continue
		}
		if !account.IsActive {
			violations = append(violations, Violation{
				Code:    "ACCOUNT_INACTIVE",
				Message: fmt.Sprintf("Account %s (%s) is inactive", account.Code, account.Name),
			})
		}
	}
	return violations
}

// Post commits a PENDING transaction: applies the signed delta of every leg
// to its account balance and flips the status to POSTED. Posting an already
// terminal transaction fails with ALREADY_POSTED and leaves balances
// untouched.
func (e *PostingEngine) Post(tx *Transaction, accounts map[uuid.UUID]*Account) error {
	return e.postAt(tx, accounts, time.Now())
}

func (e *PostingEngine) postAt(tx *Transaction, accounts map[uuid.UUID]*Account, at time.Time) error {
	if tx.Status.IsTerminal() {
		return shared.NewStateError("ALREADY_POSTED",
			fmt.Sprintf("Transaction is already %s", tx.Status))
	}
	if violations := e.Validate(tx, accounts); len(violations) > 0 {
		return shared.NewDomainError("VALIDATION_FAILED", violations[0].Message)
	}
	for _, leg := range tx.Legs() {
		accounts[leg.AccountID].apply(leg.Direction, leg.Amount)
	}
	tx.markPosted(at)
	return nil
}

// Reverse cancels the effect of a POSTED transaction without editing it:
// builds the inverse transaction, posts it immediately, and marks the
// original REVERSED. Returns the posted reversal.
func (e *PostingEngine) Reverse(tx *Transaction, accounts map[uuid.UUID]*Account) (*Transaction, error) {
	if tx.Status != TransactionStatusPosted {
		return nil, shared.NewStateError("NOT_POSTED",
			fmt.Sprintf("Transaction is %s, only POSTED transactions can be reversed", tx.Status))
	}
	now := time.Now()
	reversal := tx.buildReversal(now)
	if err := e.postAt(reversal, accounts, now); err != nil {
		return nil, err
	}
	tx.markReversed(reversal.ID, now)
	return reversal, nil
}
