package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes the two billing document aggregates
type DocumentKind string

const (
	DocumentKindInvoice DocumentKind = "INVOICE"
	DocumentKindBill    DocumentKind = "BILL"
)

// DocumentStatus is the derived lifecycle status of an invoice or bill
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusSent      DocumentStatus = "SENT"    // Invoice only
	StatusViewed    DocumentStatus = "VIEWED"  // Invoice only
	StatusPending   DocumentStatus = "PENDING" // Bill only
	StatusPartial   DocumentStatus = "PARTIAL"
	StatusPaid      DocumentStatus = "PAID"
	StatusOverdue   DocumentStatus = "OVERDUE"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusPending,
		StatusPartial, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that end the lifecycle. A cancelled
// document's payments are retained for audit.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// StatusInput is everything status derivation depends on. Given identical
// inputs the derived status is always identical.
type StatusInput struct {
	Kind        DocumentKind
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	DueDate     time.Time
	Now         time.Time
	// Sent marks an invoice as sent to the client; for bills it marks the
	// document as opened/awaiting payment (PENDING).
	Sent      bool
	Viewed    bool
	Cancelled bool
}

// DeriveStatus is the pure status-derivation function, evaluated on every
// mutation and by the on-read overdue check. Zero-total documents with no
// payments are never considered PAID; they stay in their pre-payment status.
func DeriveStatus(in StatusInput) DocumentStatus {
	switch {
	case in.Cancelled:
		return StatusCancelled
	case in.TotalAmount.IsPositive() && in.AmountPaid.GreaterThanOrEqual(in.TotalAmount):
		return StatusPaid
	case in.AmountPaid.IsPositive():
		if in.Now.After(in.DueDate) {
			return StatusOverdue
		}
		return StatusPartial
	case in.Now.After(in.DueDate):
		return StatusOverdue
	}
	if in.Kind == DocumentKindInvoice {
		if in.Viewed {
			return StatusViewed
		}
		if in.Sent {
			return StatusSent
		}
		return StatusDraft
	}
	if in.Sent {
		return StatusPending
	}
	return StatusDraft
}
