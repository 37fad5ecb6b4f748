package voucher

import (
	"strings"
	"time"

	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type identifies the voucher kind. The type is a stable, explicit identity:
// no import or migration path may silently reinterpret one value as another
// (RECEIPT and DEPOSIT in particular carry distinct ledger semantics).
type Type string

const (
	TypePayment Type = "PAYMENT" // cash out against an expense account
	TypeReceipt Type = "RECEIPT" // cash in against an income account
	TypeDeposit Type = "DEPOSIT" // cash-only movement, single entry
	TypeContra  Type = "CONTRA"  // transfer between two asset accounts
	TypeJournal Type = "JOURNAL" // free-form pair of distinct accounts
)

// IsValid checks if the type is a valid voucher Type
func (t Type) IsValid() bool {
	switch t {
	case TypePayment, TypeReceipt, TypeDeposit, TypeContra, TypeJournal:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// PartyKind identifies who the voucher is directed to
type PartyKind string

const (
	PartyClient PartyKind = "CLIENT"
	PartyVendor PartyKind = "VENDOR"
	PartyStaff  PartyKind = "STAFF"
	PartyOther  PartyKind = "OTHER"
	PartyNone   PartyKind = ""
)

// IsValid checks if the party kind is valid (empty means no party)
func (p PartyKind) IsValid() bool {
	switch p {
	case PartyClient, PartyVendor, PartyStaff, PartyOther, PartyNone:
		return true
	}
	return false
}

// Status represents the voucher lifecycle
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusPosted    Status = "POSTED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPosted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true once the voucher can no longer change state
func (s Status) IsTerminal() bool {
	return s == StatusPosted || s == StatusCancelled
}

// Voucher is a typed, party-aware wrapper around a single ledger transaction
// with an approval gate before posting. The paired transaction shares the
// voucher's identity and is created PENDING alongside it.
type Voucher struct {
	shared.BaseAggregateRoot
	VoucherNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"voucher_number"`
	Type          Type            `gorm:"type:varchar(20);not null;index" json:"type"`
	PartyKind     PartyKind       `gorm:"type:varchar(20)" json:"party_kind,omitempty"`
	PartyID       *uuid.UUID      `gorm:"type:uuid;index" json:"party_id,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Description   string          `gorm:"type:varchar(500)" json:"description"`
	VoucherDate   time.Time       `gorm:"not null;index" json:"voucher_date"`
	Status        Status          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	PostedAt      *time.Time      `json:"posted_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason  string          `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`

	// Paired ledger transaction, 1:1 with shared identity. Persisted in the
	// ledger transaction table, not as a voucher column.
	Transaction *ledger.Transaction `gorm:"-" json:"transaction,omitempty"`
}

// TableName returns the table name for GORM
func (Voucher) TableName() string {
	return "vouchers"
}

// NewVoucher creates a PENDING voucher and its paired PENDING ledger
// transaction. The accounts are the already-loaded aggregates the voucher
// will move money between; their groups are checked against the type's
// required shape. For DEPOSIT, creditAccount must be nil and the paired
// transaction is a single-entry debit on the cash account.
func NewVoucher(
	voucherNumber string,
	voucherType Type,
	partyKind PartyKind,
	partyID *uuid.UUID,
	amount decimal.Decimal,
	voucherDate time.Time,
	description string,
	debitAccount, creditAccount *ledger.Account,
) (*Voucher, error) {
	voucherNumber = strings.TrimSpace(voucherNumber)
	if voucherNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Voucher number cannot be empty")
	}
	if len(voucherNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Voucher number cannot exceed 50 characters")
	}
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Voucher type is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if voucherDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Voucher date is required")
	}
	if err := validateParty(voucherType, partyKind, partyID); err != nil {
		return nil, err
	}
	if err := shapeFor(voucherType).validate(debitAccount, creditAccount); err != nil {
		return nil, err
	}

	v := &Voucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VoucherNumber:     voucherNumber,
		Type:              voucherType,
		PartyKind:         partyKind,
		PartyID:           partyID,
		Amount:            amount,
		Description:       description,
		VoucherDate:       voucherDate,
		Status:            StatusPending,
	}

	tx, err := buildPairedTransaction(v, debitAccount, creditAccount)
	if err != nil {
		return nil, err
	}
	v.Transaction = tx

	v.AddDomainEvent(NewVoucherCreatedEvent(v))
	return v, nil
}

// buildPairedTransaction creates the PENDING transaction sharing the
// voucher's identity
func buildPairedTransaction(v *Voucher, debitAccount, creditAccount *ledger.Account) (*ledger.Transaction, error) {
	description := v.Description
	if description == "" {
		description = v.Type.String() + " voucher " + v.VoucherNumber
	}
	if v.Type == TypeDeposit {
		return ledger.NewSingleEntryTransactionWithID(v.ID, v.VoucherDate, description, v.Amount, debitAccount.ID, ledger.DirectionDebit)
	}
	return ledger.NewDoubleEntryTransactionWithID(v.ID, v.VoucherDate, description, v.Amount, debitAccount.ID, creditAccount.ID)
}

// Approve moves a PENDING voucher to APPROVED
func (v *Voucher) Approve() error {
	if v.Status != StatusPending {
		return shared.NewStateError("INVALID_STATE",
			"Only PENDING vouchers can be approved, voucher is "+v.Status.String())
	}
	now := time.Now()
	v.Status = StatusApproved
	v.ApprovedAt = &now
	v.AddDomainEvent(NewVoucherApprovedEvent(v))
	return nil
}

// MarkPosted flips an APPROVED voucher to POSTED. The caller posts the
// paired transaction in the same database transaction so neither state
// changes without the other.
func (v *Voucher) MarkPosted() error {
	if v.Status != StatusApproved {
		return shared.NewStateError("INVALID_STATE",
			"Only APPROVED vouchers can be posted, voucher is "+v.Status.String())
	}
	now := time.Now()
	v.Status = StatusPosted
	v.PostedAt = &now
	v.AddDomainEvent(NewVoucherPostedEvent(v))
	return nil
}

// Cancel cancels a voucher while it is PENDING or APPROVED. The paired
// still-PENDING transaction is discarded without posting; a cancelled
// voucher never produces a POSTED transaction.
func (v *Voucher) Cancel(reason string) error {
	if v.Status != StatusPending && v.Status != StatusApproved {
		return shared.NewStateError("INVALID_STATE",
			"Only PENDING or APPROVED vouchers can be cancelled, voucher is "+v.Status.String())
	}
	now := time.Now()
	v.Status = StatusCancelled
	v.CancelledAt = &now
	v.CancelReason = reason
	v.AddDomainEvent(NewVoucherCancelledEvent(v))
	return nil
}

// MigrateType is the explicit, audited path for changing a voucher's type,
// e.g. when importing legacy records whose types were recorded wrongly. It
// is only allowed while the voucher is PENDING, revalidates the party and
// account shape against the new type, rebuilds the paired transaction, and
// emits a migration event carrying both types and the reason.
func (v *Voucher) MigrateType(to Type, reason string, debitAccount, creditAccount *ledger.Account) error {
	if v.Status != StatusPending {
		return shared.NewStateError("INVALID_STATE",
			"Only PENDING vouchers can migrate type, voucher is "+v.Status.String())
	}
	if !to.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Target voucher type is not valid")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Type migration requires a reason")
	}
	if err := validateParty(to, v.PartyKind, v.PartyID); err != nil {
		return err
	}
	if err := shapeFor(to).validate(debitAccount, creditAccount); err != nil {
		return err
	}

	from := v.Type
	v.Type = to
	tx, err := buildPairedTransaction(v, debitAccount, creditAccount)
	if err != nil {
		v.Type = from
		return err
	}
	v.Transaction = tx
	v.AddDomainEvent(NewVoucherTypeMigratedEvent(v, from, to, reason))
	return nil
}

// validateParty checks that the party kind is compatible with the voucher type
func validateParty(t Type, partyKind PartyKind, partyID *uuid.UUID) error {
	if !partyKind.IsValid() {
		return shared.NewDomainError("INVALID_PARTY", "Party kind is not valid")
	}
	if partyKind != PartyNone && partyID == nil {
		return shared.NewDomainError("INVALID_PARTY", "Party reference is required when a party kind is set")
	}
	switch t {
	case TypePayment:
		if partyKind != PartyVendor && partyKind != PartyStaff && partyKind != PartyOther {
			return shared.NewDomainError("INVALID_PARTY", "PAYMENT vouchers accept VENDOR, STAFF or OTHER parties")
		}
	case TypeReceipt:
		if partyKind != PartyClient && partyKind != PartyOther {
			return shared.NewDomainError("INVALID_PARTY", "RECEIPT vouchers accept CLIENT or OTHER parties")
		}
	default:
		if partyKind != PartyNone {
			return shared.NewDomainError("INVALID_PARTY", t.String()+" vouchers do not take a party")
		}
	}
	return nil
}
